package server

import (
	"net/http"
	"testing"

	"devmate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEndpoints(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	post := seedPost(t, s, alice, "popular post")

	// bob and carol both like alice's post, carol follows alice
	for _, actor := range []uint{bob.ID, carol.ID} {
		result, err := s.postService.ToggleLike(t.Context(), actor, post.ID)
		require.NoError(t, err)
		require.True(t, result.Transitioned)
		_, err = s.notificationService.CreateForLike(t.Context(), actor, result.Post)
		require.NoError(t, err)
	}
	_, err := s.followService.Follow(t.Context(), carol.ID, "alice")
	require.NoError(t, err)
	_, err = s.notificationService.CreateForFollow(t.Context(), carol.ID, alice.ID)
	require.NoError(t, err)

	// bob has his own unread notification so scoping is observable
	_, err = s.followService.Follow(t.Context(), alice.ID, "bob")
	require.NoError(t, err)
	_, err = s.notificationService.CreateForFollow(t.Context(), alice.ID, bob.ID)
	require.NoError(t, err)

	type notificationFeed struct {
		Notifications []struct {
			Type  string `json:"type"`
			Actor struct {
				Username string `json:"username"`
			} `json:"actor"`
			Read bool `json:"read"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unread_count"`
	}

	get := func(u *models.User) (int, notificationFeed) {
		var body notificationFeed
		req := jsonRequest(t, http.MethodGet, "/api/notifications", nil)
		req.Header.Set("Authorization", bearer(t, s, u))
		resp, err := app.Test(req)
		require.NoError(t, err)
		status := resp.StatusCode
		decodeJSON(t, resp, &body)
		return status, body
	}

	t.Run("lists newest first with the unread count", func(t *testing.T) {
		status, body := get(alice)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, body.Notifications, 3)
		assert.EqualValues(t, 3, body.UnreadCount)

		// newest first: carol's follow arrived last
		assert.Equal(t, "follow", body.Notifications[0].Type)
		assert.Equal(t, "carol", body.Notifications[0].Actor.Username)
	})

	t.Run("requires authentication", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/notifications", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("mark-all-read zeroes the unread count", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, "/api/notifications/mark-all-read", nil)
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		_, body := get(alice)
		assert.Zero(t, body.UnreadCount)
		for _, n := range body.Notifications {
			assert.True(t, n.Read)
		}

		// bob's notifications are untouched
		_, bobBody := get(bob)
		assert.EqualValues(t, 1, bobBody.UnreadCount)
	})

	t.Run("delete-all clears only the caller's feed", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/api/notifications/all", nil)
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		_, body := get(alice)
		assert.Empty(t, body.Notifications)

		_, bobBody := get(bob)
		assert.Len(t, bobBody.Notifications, 1)
	})
}
