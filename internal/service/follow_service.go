package service

import (
	"context"

	"devmate/internal/models"
	"devmate/internal/repository"
)

// FollowService provides follow graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow makes userID follow the user named by username. Self-follows are
// rejected and a duplicate follow is a conflict. The whole mutation is a
// single row insert, so a crash can never leave the graph half-updated.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if target.ID == userID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	created, err := s.followRepo.Follow(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewConflictError("Already following this user")
	}

	return target, nil
}

// Unfollow removes the follow edge from userID to the named user.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if target.ID == userID {
		return nil, models.NewValidationError("You cannot unfollow yourself")
	}

	removed, err := s.followRepo.Unfollow(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Follow", username)
	}

	return target, nil
}

// ListFollowers returns the users following the named user.
func (s *FollowService) ListFollowers(ctx context.Context, username string, limit, offset int) ([]models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.followRepo.ListFollowers(ctx, target.ID, limit, offset)
}

// ListFollowing returns the users the named user follows.
func (s *FollowService) ListFollowing(ctx context.Context, username string, limit, offset int) ([]models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.followRepo.ListFollowing(ctx, target.ID, limit, offset)
}
