package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"medcollab/internal/domain"
	"medcollab/internal/middleware"
	"medcollab/internal/service/collab"
)

type CaseHandler struct {
	collabService collab.Service
}

func NewCaseHandler(collabService collab.Service) *CaseHandler {
	return &CaseHandler{collabService: collabService}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	creator := middleware.GetCurrentUser(c)
	if creator == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.CreateCaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" {
		return middleware.BadRequest("Title is required")
	}

	created, err := h.collabService.Create(c.Context(), creator, input)
	if err != nil {
		if errors.Is(err, collab.ErrPatientRequired) {
			return middleware.BadRequest("Case needs a patient")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CaseHandler) List(c *fiber.Ctx) error {
	viewer := middleware.GetCurrentUser(c)
	if viewer == nil {
		return middleware.Unauthorized("User not found")
	}

	result, err := h.collabService.ListForUser(c.Context(), viewer, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	viewer := middleware.GetCurrentUser(c)
	if viewer == nil {
		return middleware.Unauthorized("User not found")
	}

	id, err := uuid.Parse(c.Params("caseId"))
	if err != nil {
		return middleware.BadRequest("Invalid case ID")
	}

	found, err := h.collabService.GetByID(c.Context(), viewer, id)
	if err != nil {
		switch {
		case errors.Is(err, collab.ErrCaseNotFound):
			return middleware.NotFound("Case not found")
		case errors.Is(err, collab.ErrNotParticipant):
			return middleware.Forbidden("Not part of this case")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *CaseHandler) AddCollaborator(c *fiber.Ctx) error {
	inviter := middleware.GetCurrentUser(c)
	if inviter == nil {
		return middleware.Unauthorized("User not found")
	}

	id, err := uuid.Parse(c.Params("caseId"))
	if err != nil {
		return middleware.BadRequest("Invalid case ID")
	}

	var input struct {
		DoctorID string `json:"doctor_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.DoctorID == "" {
		return middleware.BadRequest("Doctor ID is required")
	}

	if err := h.collabService.AddCollaborator(c.Context(), inviter, id, input.DoctorID); err != nil {
		switch {
		case errors.Is(err, collab.ErrCaseNotFound):
			return middleware.NotFound("Case not found")
		case errors.Is(err, collab.ErrCaseClosed):
			return middleware.Conflict("Case is already closed")
		case errors.Is(err, collab.ErrNotParticipant):
			return middleware.Forbidden("Not part of this case")
		case errors.Is(err, collab.ErrUnknownDoctor):
			return middleware.BadRequest("Collaborator is not a registered doctor")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Collaborator added",
	})
}

func (h *CaseHandler) Close(c *fiber.Ctx) error {
	doctor := middleware.GetCurrentUser(c)
	if doctor == nil {
		return middleware.Unauthorized("User not found")
	}

	id, err := uuid.Parse(c.Params("caseId"))
	if err != nil {
		return middleware.BadRequest("Invalid case ID")
	}

	var input domain.CloseCaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Decision == "" {
		return middleware.BadRequest("Final decision is required")
	}

	closed, err := h.collabService.Close(c.Context(), doctor, id, input)
	if err != nil {
		switch {
		case errors.Is(err, collab.ErrCaseNotFound):
			return middleware.NotFound("Case not found")
		case errors.Is(err, collab.ErrCaseClosed):
			return middleware.Conflict("Case is already closed")
		case errors.Is(err, collab.ErrNotParticipant):
			return middleware.Forbidden("Not part of this case")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(closed)
}
