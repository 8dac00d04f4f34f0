package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/dashboard"
)

// DashboardHandler maneja los endpoints del panel principal.
type DashboardHandler struct {
	uc *dashboard.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats godoc
// @Summary      Indicadores del panel principal
// @Description  Equipos activos, análisis por estado y solicitudes de muestreo de los últimos 7 días (UTC).
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
