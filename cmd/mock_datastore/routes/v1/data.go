package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bsg-ground/datastore-stressor/internal/types"
)

// PullAll answers the query endpoint: a JSON serial/type/tag triple in, an
// array of dataFileUri entries out.
func (a *API) PullAll(c echo.Context) error {
	var query types.PullQuery

	if err := c.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed parsing query")
	}
	if err := c.Validate(query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	matched := a.store.Match(query.Serial, query.Type, query.Tag)

	entries := make([]types.PullEntry, 0, len(matched))
	for _, item := range matched {
		entries = append(entries, types.PullEntry{
			DataFileURI: dataFileURI(c, item.ID),
		})
	}

	return c.JSON(http.StatusOK, entries)
}

// GetData serves the raw stored blob bytes for one item.
func (a *API) GetData(c echo.Context) error {
	blob, ok := a.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such data file")
	}

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, blob)
}

func dataFileURI(c echo.Context, id string) string {
	return fmt.Sprintf("%s://%s/datastore/v1/data/%s", c.Scheme(), c.Request().Host, id)
}
