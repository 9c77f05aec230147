package handler

import (
	"github.com/gofiber/fiber/v2"

	"medcollab/internal/domain"
	"medcollab/internal/middleware"
	"medcollab/internal/service/thread"
)

type ThreadHandler struct {
	threadService thread.Service
}

func NewThreadHandler(threadService thread.Service) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

func currentAuthor(c *fiber.Ctx) (domain.Author, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Author{}, middleware.Unauthorized("User not found")
	}

	author := domain.Author{Name: user.FullName}
	if user.AvatarURL != nil {
		author.Avatar = *user.AvatarURL
	}
	if user.Specialty != nil {
		author.Specialty = *user.Specialty
	}
	return author, nil
}

func (h *ThreadHandler) List(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	if roomID == "" {
		return middleware.BadRequest("Room ID is required")
	}

	maxDepth := c.QueryInt("max_depth", thread.DefaultMaxDepth)

	comments, err := h.threadService.ListByRoom(c.Context(), roomID, middleware.GetCurrentUserID(c), maxDepth)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"roomId":   roomID,
		"comments": comments,
	})
}

func (h *ThreadHandler) AddComment(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	if roomID == "" {
		return middleware.BadRequest("Room ID is required")
	}

	var input struct {
		Content string `json:"content" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Content == "" {
		return middleware.BadRequest("Content is required")
	}

	author, err := currentAuthor(c)
	if err != nil {
		return err
	}

	comment, err := h.threadService.AddComment(c.Context(), roomID, author, input.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *ThreadHandler) AddReply(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	parentID := c.Params("commentId")
	if roomID == "" || parentID == "" {
		return middleware.BadRequest("Room ID and comment ID are required")
	}

	var input struct {
		Content string `json:"content" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Content == "" {
		return middleware.BadRequest("Content is required")
	}

	author, err := currentAuthor(c)
	if err != nil {
		return err
	}

	reply, err := h.threadService.AddReply(c.Context(), roomID, parentID, author, input.Content)
	if err != nil {
		return err
	}
	if reply == nil {
		// Unknown parent is tolerated, not an error.
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Parent comment not found; reply ignored",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *ThreadHandler) ToggleLike(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	commentID := c.Params("commentId")
	if roomID == "" || commentID == "" {
		return middleware.BadRequest("Room ID and comment ID are required")
	}

	likes, found, err := h.threadService.ToggleLike(c.Context(), roomID, commentID, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	if !found {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Comment not found; like ignored",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"commentId": commentID,
		"likes":     likes,
	})
}
