package handlers

import (
	"github.com/labstack/echo/v4"
	apicases "github.com/noresmhub/ctsm-api-types/cases"
	bindcases "github.com/noresmhub/ctsm-api/pkg/api-types-binding/cases"
	"github.com/noresmhub/ctsm-api/pkg/domain"
	"github.com/noresmhub/ctsm-api/pkg/domain/variable/registry"
	"github.com/noresmhub/ctsm-api/pkg/utils/slices"
)

// GetVariablesHandler exposes the variable registry so clients can
// build their forms from it.
func GetVariablesHandler(reg *registry.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(200, slices.Map(reg.All(), bindcases.ComposeVariableConfig))
	}
}

// GetModelInfoHandler describes the toolchain installation this server
// is built around.
func GetModelInfoHandler(ctsmTag string) echo.HandlerFunc {
	info := apicases.ModelInfo{
		Model:   "ctsm",
		Tag:     ctsmTag,
		Drivers: []string{string(domain.DriverNuopc), string(domain.DriverMct)},
	}
	return func(c echo.Context) error {
		return c.JSON(200, info)
	}
}
