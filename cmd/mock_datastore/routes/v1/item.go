package v1

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bsg-ground/datastore-stressor/internal/types"
)

// API serves the mock datastore routes on top of a shared in-memory store.
type API struct {
	store *Store
}

func NewAPI(store *Store) *API {
	return &API{store: store}
}

// Register mounts the datastore routes on a group, typically
// e.Group("/datastore/v1").
func (a *API) Register(g *echo.Group) {
	g.POST("/item", a.PushItem)
	g.POST("/item/data/all", a.PullAll)
	g.GET("/data/:id", a.GetData)
}

// PushItem accepts the multipart push: an item part with JSON metadata and
// either a dataFile part or inline base64 data.
func (a *API) PushItem(c echo.Context) error {
	itemJSON := c.FormValue(types.ItemField)
	if itemJSON == "" {
		return c.JSON(http.StatusBadRequest, types.PushResponse{Success: false})
	}

	var item types.Item
	if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
		return c.JSON(http.StatusBadRequest, types.PushResponse{Success: false})
	}
	if err := c.Validate(item); err != nil {
		return c.JSON(http.StatusBadRequest, types.PushResponse{Success: false})
	}

	blob, err := readBlob(c, item)
	if err != nil {
		return c.JSON(http.StatusBadRequest, types.PushResponse{Success: false})
	}

	a.store.Add(StoredItem{
		ID:     uuid.New().String(),
		Serial: item.Serial,
		Type:   item.Type,
		Tag:    item.Tag,
		Blob:   blob,
	})

	return c.JSON(http.StatusOK, types.PushResponse{Success: true})
}

// readBlob takes the payload from the dataFile part when present, falling
// back to the item's inline base64 data. One of the two must be there.
func readBlob(c echo.Context, item types.Item) ([]byte, error) {
	fileHeader, err := c.FormFile(types.DataFileField)
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return io.ReadAll(f)
	}

	if item.Data != "" {
		return base64.StdEncoding.DecodeString(item.Data)
	}

	return nil, fmt.Errorf("push carries neither a %s part nor inline data", types.DataFileField)
}
