package repository

import (
	"context"
	"testing"
	"time"

	"devmate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "a post")

	base := time.Now().Add(-time.Hour)
	older := &models.Notification{UserID: alice.ID, Type: models.NotificationTypeFollow, ActorID: bob.ID, CreatedAt: base}
	newer := &models.Notification{UserID: alice.ID, Type: models.NotificationTypeLike, ActorID: bob.ID, PostID: &post.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: bob.ID, Type: models.NotificationTypeFollow, ActorID: alice.ID}))

	notifications, err := repo.ListByUser(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)
	assert.Equal(t, "bob", notifications[0].Actor.Username)
	require.NotNil(t, notifications[0].PostID)
	assert.Equal(t, post.ID, *notifications[0].PostID)
	assert.Equal(t, models.NotificationTypeFollow, notifications[1].Type)
}

func TestNotificationRepository_CountUnreadAndMarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeFollow, ActorID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeFollow, ActorID: bob.ID, Read: true}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: bob.ID, Type: models.NotificationTypeFollow, ActorID: alice.ID}))

	count, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.MarkAllRead(ctx, alice.ID))

	count, err = repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// bob's notifications are untouched
	count, err = repo.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationRepository_DeleteAllForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeFollow, ActorID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeLike, ActorID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: bob.ID, Type: models.NotificationTypeFollow, ActorID: alice.ID}))

	require.NoError(t, repo.DeleteAllForUser(ctx, alice.ID))

	remaining, err := repo.ListByUser(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	remaining, err = repo.ListByUser(ctx, bob.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestNotificationRepository_DeleteReadOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeFollow, ActorID: bob.ID, Read: true, CreatedAt: old}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeLike, ActorID: bob.ID, Read: false, CreatedAt: old}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: alice.ID, Type: models.NotificationTypeComment, ActorID: bob.ID, Read: true}))

	purged, err := repo.DeleteReadOlderThan(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	// the old unread row and the recent read row survive
	remaining, err := repo.ListByUser(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
