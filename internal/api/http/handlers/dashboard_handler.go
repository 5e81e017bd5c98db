package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/printshop-service/internal/api/dto"
	"github.com/spec-kit/printshop-service/internal/service"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

// DashboardHandler exposes the sales report.
type DashboardHandler struct {
	analytics *service.AnalyticsService
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analytics: analytics}
}

// Stats returns the report for an inclusive date range.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var q dto.StatsQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", map[string]any{"error": err.Error()})
	}
	if err := dto.Validate(q); err != nil {
		return err
	}
	report, err := h.analytics.Stats(c.UserContext(), q.StartDate, q.EndDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
