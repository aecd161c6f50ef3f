package handler

import (
	"github.com/gin-gonic/gin"

	"faktura/internal/service"
)

// StatsHandler handles the dashboard statistics endpoint.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get handles GET /api/v1/stats
// @Summary Get dashboard statistics
// @Description Aggregate invoice, payment and client figures
// @Tags stats
// @Produce json
// @Success 200 {object} APIResponse{data=domain.Stats} "Aggregates"
// @Router /stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
