package server

import (
	"devmate/internal/models"
	"devmate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Description Send a message to another user; pushes a message_received event to the recipient
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{recipient_id=int,content=string} true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		RecipientID uint   `json:"recipient_id"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	payload := map[string]interface{}{
		"id":         message.ID,
		"sender_id":  message.SenderID,
		"content":    message.Content,
		"created_at": message.CreatedAt,
	}
	if sender, serr := s.userRepo.GetByID(c.Context(), userID); serr == nil {
		payload["sender"] = userSummaryPtr(sender)
	}
	s.publishUserEvent(message.RecipientID, EventMessageReceived, payload)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessageThread handles GET /api/messages/:otherUserId
// @Summary Get a message thread
// @Description Return both directions of the thread, oldest first, and mark the caller's incoming messages read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param otherUserId path int true "Other user ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} object{error=string}
// @Router /messages/{otherUserId} [get]
func (s *Server) GetMessageThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	otherUserID, err := s.parseID(c, "otherUserId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	messages, err := s.messageService.GetThread(c.Context(), userID, otherUserID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(messages)
}
