package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/core/ports"
)

// CatalogHandler serves the monitoring type and instrument reference lists.
type CatalogHandler struct {
	service ports.MeasurementService
}

func NewCatalogHandler(service ports.MeasurementService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Types handles GET /api/types.
//
// @Summary      List monitoring types
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.MonitoringType
// @Router       /api/types [get]
func (h *CatalogHandler) Types(c echo.Context) error {
	types, err := h.service.ListTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// Instruments handles GET /api/instruments.
//
// @Summary      List instruments
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Instrument
// @Router       /api/instruments [get]
func (h *CatalogHandler) Instruments(c echo.Context) error {
	instruments, err := h.service.ListInstruments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instruments)
}
