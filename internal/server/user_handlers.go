package server

import (
	"devmate/internal/models"
	"devmate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
// @Summary Get a user profile
// @Description Public profile with follower/following counts and the requester's followed flag
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	currentUserID, _ := s.optionalUserID(c)

	user, err := s.userService.GetProfile(c.Context(), username, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// SearchUsers handles GET /api/users
// @Summary Search users
// @Description Search by username/display name substring and/or skill
// @Tags users
// @Produce json
// @Param search query string false "Username or display name substring"
// @Param skill query string false "Skill filter"
// @Success 200 {array} models.User
// @Failure 400 {object} object{error=string}
// @Router /users [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	users, err := s.userService.SearchUsers(c.Context(), service.SearchUsersInput{
		Query:         c.Query("search"),
		Skill:         c.Query("skill"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update own profile
// @Description Update displayName, bio, skills, GitHub link, and avatar. Self only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{display_name=string,bio=string,skills=[]string,github_url=string,avatar=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if targetID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only update your own profile"))
	}

	var req struct {
		DisplayName *string   `json:"display_name"`
		Bio         *string   `json:"bio"`
		Skills      *[]string `json:"skills"`
		GithubURL   *string   `json:"github_url"`
		Avatar      *string   `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Skills:      req.Skills,
		GithubURL:   req.GithubURL,
		Avatar:      req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// FollowUser handles PUT /api/users/:username/follow
// @Summary Follow a user
// @Description Follow the named user. Rejects self-follows and duplicates.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to follow"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /users/{username}/follow [put]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	target, err := s.followService.Follow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	if s.featureFlags.Enabled("follow_notifications", target.ID) {
		notification, nerr := s.notificationService.CreateForFollow(c.Context(), userID, target.ID)
		if nerr == nil {
			s.publishNotification(c.Context(), notification)
		}
	}

	return c.JSON(fiber.Map{"message": "Now following " + target.Username})
}

// UnfollowUser handles PUT /api/users/:username/unfollow
// @Summary Unfollow a user
// @Description Stop following the named user; 404 when not currently following
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to unfollow"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{username}/unfollow [put]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	target, err := s.followService.Unfollow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed " + target.Username})
}

// GetFollowers handles GET /api/users/:username/followers
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{username}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 50)

	followers, err := s.followService.ListFollowers(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:username/following
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{username}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 50)

	following, err := s.followService.ListFollowing(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(following)
}
