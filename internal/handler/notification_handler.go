package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"medcollab/internal/domain"
	"medcollab/internal/middleware"
	"medcollab/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	unreadOnly := c.Query("unread_only") == "true"
	params := getPaginationParams(c)

	result, err := h.notifService.List(c.Context(), userID, unreadOnly, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

// Resolve settles a pending access request with the patient's decision.
func (h *NotificationHandler) Resolve(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	patient := middleware.GetCurrentUser(c)
	if patient == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.ResolveAccessRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Decision != domain.DecisionAccept && input.Decision != domain.DecisionReject {
		return middleware.BadRequest("Decision must be accept or reject")
	}

	notif, err := h.notifService.ResolveAccessRequest(c.Context(), notifID, patient, input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrNotFound):
			return middleware.NotFound("Notification not found")
		case errors.Is(err, notification.ErrNotReceiver):
			return middleware.Forbidden("Notification belongs to another user")
		case errors.Is(err, notification.ErrNotRequest), errors.Is(err, notification.ErrMissingSender), errors.Is(err, notification.ErrMissingRecord):
			return middleware.BadRequest(err.Error())
		case errors.Is(err, notification.ErrAlreadyResolved):
			// Terminal state is idempotent for the caller.
			return c.Status(fiber.StatusOK).JSON(notif)
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notif)
}
