// The mock_datastore command runs an in-memory stand-in for the datastore
// API, for exercising the stressor without the real service.
package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	routesv1 "github.com/bsg-ground/datastore-stressor/cmd/mock_datastore/routes/v1"
	"github.com/bsg-ground/datastore-stressor/internal/validator"
)

func main() {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Use(middleware.Logger())

	api := routesv1.NewAPI(routesv1.NewStore())
	api.Register(e.Group("/datastore/v1"))

	e.Logger.Fatal(e.Start(":1323"))
}
