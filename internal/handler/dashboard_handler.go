package handler

import (
	"github.com/gofiber/fiber/v2"

	"medcollab/internal/middleware"
	"medcollab/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	viewer := middleware.GetCurrentUser(c)
	if viewer == nil {
		return middleware.Unauthorized("User not found")
	}

	stats, err := h.dashboardService.GetStats(c.Context(), viewer)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
