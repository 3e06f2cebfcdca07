package server

import (
	"fmt"
	"net/http"
	"testing"

	"devmate/internal/featureflags"
	"devmate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followAs(t *testing.T, s *Server, app *fiber.App, follower *models.User, username string) *http.Response {
	t.Helper()
	req := jsonRequest(t, http.MethodPut, "/api/users/"+username+"/follow", nil)
	req.Header.Set("Authorization", bearer(t, s, follower))
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// TestPublicUserRoutes_AnonymousAccess pins the read-only user surface as
// public: none of these may demand a token.
func TestPublicUserRoutes_AnonymousAccess(t *testing.T) {
	s, app := newTestServer(t, nil)
	seedUser(t, s, "alice")

	targets := []string{
		"/api/users?search=ali",
		"/api/users/alice",
		"/api/users/alice/followers",
		"/api/users/alice/following",
		"/api/users/alice/posts",
	}
	for _, target := range targets {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, target, nil))
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}
}

func TestGetUserProfile(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	resp := followAs(t, s, app, bob, "alice")
	drainBody(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("profile carries counts and the followed flag", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/alice", nil)
		req.Header.Set("Authorization", bearer(t, s, bob))
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			ID             uint   `json:"id"`
			Username       string `json:"username"`
			FollowersCount int    `json:"followers_count"`
			FollowingCount int    `json:"following_count"`
			Followed       bool   `json:"followed"`
		}
		decodeJSON(t, resp, &body)
		assert.Equal(t, alice.ID, body.ID)
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, 1, body.FollowersCount)
		assert.Equal(t, 0, body.FollowingCount)
		assert.True(t, body.Followed)
	})

	t.Run("anonymous requester sees followed=false", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/alice", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body struct {
			Followed bool `json:"followed"`
		}
		decodeJSON(t, resp, &body)
		assert.False(t, body.Followed)
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/ghost", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSearchUsers(t *testing.T) {
	s, app := newTestServer(t, nil)
	seedUser(t, s, "alice")
	seedUser(t, s, "alison")
	seedUser(t, s, "bob")

	t.Run("matches username substrings", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users?search=ali", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var users []struct {
			Username string `json:"username"`
		}
		decodeJSON(t, resp, &users)
		require.Len(t, users, 2)
	})

	t.Run("filters by skill", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users?skill=go", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var users []struct {
			Username string `json:"username"`
		}
		decodeJSON(t, resp, &users)
		assert.Len(t, users, 3)
	})

	t.Run("requires a query or skill", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateUser(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	t.Run("updates own profile fields", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), map[string]any{
			"bio":        "gopher",
			"skills":     []string{" go ", "postgres", ""},
			"github_url": "https://github.com/alice",
		})
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Bio       string   `json:"bio"`
			Skills    []string `json:"skills"`
			GithubURL string   `json:"github_url"`
		}
		decodeJSON(t, resp, &body)
		assert.Equal(t, "gopher", body.Bio)
		assert.Equal(t, []string{"go", "postgres"}, body.Skills)
		assert.Equal(t, "https://github.com/alice", body.GithubURL)
	})

	t.Run("cannot update someone else", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", bob.ID),
			map[string]any{"bio": "not yours"})
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("rejects a non-github link", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID),
			map[string]any{"github_url": "https://gitlab.com/alice"})
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFollowUser(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	t.Run("follow notifies the target", func(t *testing.T) {
		resp := followAs(t, s, app, alice, "bob")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decodeJSON(t, resp, &body)
		assert.Equal(t, "Now following bob", body["message"])

		assert.EqualValues(t, 1, unreadCount(t, s, bob.ID))
	})

	t.Run("duplicate follow conflicts", func(t *testing.T) {
		resp := followAs(t, s, app, alice, "bob")
		drainBody(resp)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		resp := followAs(t, s, app, alice, "alice")
		drainBody(resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown target is 404", func(t *testing.T) {
		resp := followAs(t, s, app, alice, "ghost")
		drainBody(resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFollowUser_NotificationFlagOff(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	s.featureFlags = featureflags.NewManager("follow_notifications=off")

	resp := followAs(t, s, app, alice, "bob")
	drainBody(resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, unreadCount(t, s, bob.ID))
}

func TestUnfollowUser(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	seedUser(t, s, "bob")

	resp := followAs(t, s, app, alice, "bob")
	drainBody(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	unfollow := func() int {
		req := jsonRequest(t, http.MethodPut, "/api/users/bob/unfollow", nil)
		req.Header.Set("Authorization", bearer(t, s, alice))
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, unfollow())
	// no longer following
	assert.Equal(t, http.StatusNotFound, unfollow())
}

func TestFollowLists(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	for _, follower := range []*models.User{bob, carol} {
		resp := followAs(t, s, app, follower, "alice")
		drainBody(resp)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := followAs(t, s, app, alice, "bob")
	drainBody(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listUsernames := func(target string) []string {
		req := jsonRequest(t, http.MethodGet, target, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []struct {
			Username string `json:"username"`
		}
		decodeJSON(t, resp, &users)
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.Username)
		}
		return names
	}

	assert.ElementsMatch(t, []string{"bob", "carol"}, listUsernames("/api/users/alice/followers"))
	assert.ElementsMatch(t, []string{"bob"}, listUsernames("/api/users/alice/following"))
	assert.ElementsMatch(t, []string{"alice"}, listUsernames("/api/users/bob/followers"))
}

func TestGetUserPosts(t *testing.T) {
	s, app := newTestServer(t, nil)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	seedPost(t, s, alice, "alice writes")
	seedPost(t, s, bob, "bob writes")

	t.Run("returns only that user's posts", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/alice/posts", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []struct {
			Content string `json:"content"`
		}
		decodeJSON(t, resp, &posts)
		require.Len(t, posts, 1)
		assert.Equal(t, "alice writes", posts[0].Content)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/users/ghost/posts", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
