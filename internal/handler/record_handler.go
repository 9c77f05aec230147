package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"medcollab/internal/domain"
	"medcollab/internal/middleware"
	"medcollab/internal/service/record"
)

type RecordHandler struct {
	recordService record.Service
}

func NewRecordHandler(recordService record.Service) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

func (h *RecordHandler) List(c *fiber.Ctx) error {
	viewer := middleware.GetCurrentUser(c)
	if viewer == nil {
		return middleware.Unauthorized("User not found")
	}

	records, err := h.recordService.ListForUser(c.Context(), viewer)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

func (h *RecordHandler) Get(c *fiber.Ctx) error {
	viewer := middleware.GetCurrentUser(c)
	if viewer == nil {
		return middleware.Unauthorized("User not found")
	}

	recordID := c.Params("recordId")
	if recordID == "" {
		return middleware.BadRequest("Record ID is required")
	}

	rec, err := h.recordService.GetRecord(c.Context(), viewer, recordID)
	if err != nil {
		switch {
		case errors.Is(err, record.ErrRecordNotFound):
			return middleware.NotFound("Record not found")
		case errors.Is(err, record.ErrNoAccess):
			return middleware.Forbidden("No access to this record")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

func (h *RecordHandler) RequestAccess(c *fiber.Ctx) error {
	doctor := middleware.GetCurrentUser(c)
	if doctor == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.RequestAccessInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.RecordID == "" || input.PatientID == "" {
		return middleware.BadRequest("Record ID and patient ID are required")
	}

	notif, err := h.recordService.RequestAccess(c.Context(), doctor, input)
	if err != nil {
		if errors.Is(err, record.ErrPatientUnknown) {
			return middleware.NotFound("Patient not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(notif)
}

func (h *RecordHandler) GrantAccess(c *fiber.Ctx) error {
	patient := middleware.GetCurrentUser(c)
	if patient == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.GrantAccessInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.RecordID == "" || input.DoctorID == "" {
		return middleware.BadRequest("Record ID and doctor ID are required")
	}

	if err := h.recordService.GrantAccess(c.Context(), patient, input); err != nil {
		switch {
		case errors.Is(err, record.ErrRecordNotFound):
			return middleware.NotFound("Record not found")
		case errors.Is(err, record.ErrNotOwner):
			return middleware.Forbidden("Record belongs to another patient")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Access granted",
	})
}

func (h *RecordHandler) RevokeAccess(c *fiber.Ctx) error {
	patient := middleware.GetCurrentUser(c)
	if patient == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.GrantAccessInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.RecordID == "" || input.DoctorID == "" {
		return middleware.BadRequest("Record ID and doctor ID are required")
	}

	if err := h.recordService.RevokeAccess(c.Context(), patient, input); err != nil {
		switch {
		case errors.Is(err, record.ErrRecordNotFound):
			return middleware.NotFound("Record not found")
		case errors.Is(err, record.ErrNotOwner):
			return middleware.Forbidden("Record belongs to another patient")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Access revoked",
	})
}
