package service

import (
	"context"
	"strings"

	"devmate/internal/models"
	"devmate/internal/repository"
)

// MessageService provides direct message business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

type SendMessageInput struct {
	SenderID    uint
	RecipientID uint
	Content     string
}

const maxMessageLen = 2000

// SendMessage creates a direct message after validating the recipient.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.RecipientID == in.SenderID {
		return nil, models.NewValidationError("You cannot message yourself")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	// Verify recipient exists (returns NOT_FOUND otherwise)
	if _, err := s.userRepo.GetByID(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Content:     content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return s.messageRepo.GetByID(ctx, message.ID)
}

// GetThread returns the conversation between the user and the other user,
// oldest first, and marks the user's incoming messages read.
func (s *MessageService) GetThread(ctx context.Context, userID, otherUserID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListBetween(ctx, userID, otherUserID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkThreadRead(ctx, userID, otherUserID); err != nil {
		return nil, err
	}

	return messages, nil
}
