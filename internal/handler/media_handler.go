package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"medcollab/internal/domain"
	"medcollab/internal/middleware"
	"medcollab/internal/service/media"
)

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	kind := domain.MediaKind(c.FormValue("kind", string(domain.MediaDocument)))

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var recordID *string
	if rid := c.FormValue("record_id"); rid != "" {
		recordID = &rid
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	uploaded, err := h.mediaService.Upload(c.Context(), userID, kind, recordID, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnsupported):
			return middleware.BadRequest("Kind must be avatar or document")
		case errors.Is(err, media.ErrFileTooLarge):
			return middleware.BadRequest("File exceeds the size limit")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

func (h *MediaHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return middleware.BadRequest("Invalid media ID")
	}

	found, err := h.mediaService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return middleware.NotFound("Media not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	kind := domain.MediaKind(c.Query("kind", string(domain.MediaDocument)))

	result, err := h.mediaService.ListByUser(c.Context(), userID, kind, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return middleware.BadRequest("Invalid media ID")
	}

	if err := h.mediaService.Delete(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		switch {
		case errors.Is(err, media.ErrNotFound):
			return middleware.NotFound("Media not found")
		case errors.Is(err, media.ErrNotOwner):
			return middleware.Forbidden("Media belongs to another user")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
