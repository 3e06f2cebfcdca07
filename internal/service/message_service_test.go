package service

import (
	"context"
	"strings"
	"testing"

	"devmate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn         func(context.Context, *models.Message) error
	getByIDFn        func(context.Context, uint) (*models.Message, error)
	listBetweenFn    func(context.Context, uint, uint, int, int) ([]models.Message, error)
	markThreadReadFn func(context.Context, uint, uint) error
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) ListBetween(ctx context.Context, userID, otherUserID uint, limit, offset int) ([]models.Message, error) {
	return s.listBetweenFn(ctx, userID, otherUserID, limit, offset)
}
func (s *messageRepoStub) MarkThreadRead(ctx context.Context, recipientID, senderID uint) error {
	return s.markThreadReadFn(ctx, recipientID, senderID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:  func(_ context.Context, _ *models.Message) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Message, error) { return &models.Message{ID: id}, nil },
		listBetweenFn: func(_ context.Context, _, _ uint, _, _ int) ([]models.Message, error) {
			return nil, nil
		},
		markThreadReadFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

func TestMessageService_SendMessage_Validation(t *testing.T) {
	t.Parallel()

	svc := NewMessageService(noopMessageRepo(), noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input SendMessageInput
	}{
		{
			name:  "self message",
			input: SendMessageInput{SenderID: 1, RecipientID: 1, Content: "hi"},
		},
		{
			name:  "empty content",
			input: SendMessageInput{SenderID: 1, RecipientID: 2},
		},
		{
			name:  "whitespace only content",
			input: SendMessageInput{SenderID: 1, RecipientID: 2, Content: "   "},
		},
		{
			name:  "content too long",
			input: SendMessageInput{SenderID: 1, RecipientID: 2, Content: strings.Repeat("x", 2001)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.SendMessage(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestMessageService_SendMessage(t *testing.T) {
	t.Parallel()

	t.Run("success trims content", func(t *testing.T) {
		t.Parallel()
		var created *models.Message
		repo := noopMessageRepo()
		repo.createFn = func(_ context.Context, m *models.Message) error {
			m.ID = 11
			created = m
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Message, error) {
			return &models.Message{ID: id, Content: created.Content, SenderID: created.SenderID}, nil
		}
		svc := NewMessageService(repo, noopUserRepo())

		msg, err := svc.SendMessage(context.Background(), SendMessageInput{
			SenderID: 1, RecipientID: 2, Content: "  hello  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Content)
		assert.EqualValues(t, 11, msg.ID)
	})

	t.Run("unknown recipient propagates NOT_FOUND", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewMessageService(noopMessageRepo(), userRepo)

		_, err := svc.SendMessage(context.Background(), SendMessageInput{
			SenderID: 1, RecipientID: 99, Content: "hi",
		})
		assertNotFoundError(t, err)
	})
}

func TestMessageService_GetThread(t *testing.T) {
	t.Parallel()

	t.Run("lists and marks read", func(t *testing.T) {
		t.Parallel()
		markedRecipient, markedSender := uint(0), uint(0)
		repo := noopMessageRepo()
		repo.listBetweenFn = func(_ context.Context, userID, otherUserID uint, limit, offset int) ([]models.Message, error) {
			assert.EqualValues(t, 1, userID)
			assert.EqualValues(t, 2, otherUserID)
			assert.Equal(t, 50, limit)
			return []models.Message{{ID: 1, Content: "hey"}}, nil
		}
		repo.markThreadReadFn = func(_ context.Context, recipientID, senderID uint) error {
			markedRecipient, markedSender = recipientID, senderID
			return nil
		}
		svc := NewMessageService(repo, noopUserRepo())

		messages, err := svc.GetThread(context.Background(), 1, 2, 50, 0)
		require.NoError(t, err)
		assert.Len(t, messages, 1)
		assert.EqualValues(t, 1, markedRecipient)
		assert.EqualValues(t, 2, markedSender)
	})

	t.Run("unknown other user propagates NOT_FOUND", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewMessageService(noopMessageRepo(), userRepo)

		_, err := svc.GetThread(context.Background(), 1, 99, 50, 0)
		assertNotFoundError(t, err)
	})
}
