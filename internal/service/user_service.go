package service

import (
	"context"
	"net/url"
	"strings"

	"devmate/internal/models"
	"devmate/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName *string
	Bio         *string
	Skills      *[]string
	GithubURL   *string
	Avatar      *string
}

type SearchUsersInput struct {
	Query         string
	Skill         string
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a user's public profile with follow counts computed for
// the requesting user.
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username, currentUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// UpdateProfile applies the provided fields to the user's own profile.
// Nil fields are left unchanged; empty values clear the field.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 50
	const maxSkills = 20

	if in.DisplayName != nil {
		if len(*in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 50 characters)")
		}
		user.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Skills != nil {
		if len(*in.Skills) > maxSkills {
			return nil, models.NewValidationError("Too many skills (max 20)")
		}
		skills := make([]string, 0, len(*in.Skills))
		for _, skill := range *in.Skills {
			skill = strings.TrimSpace(skill)
			if skill != "" {
				skills = append(skills, skill)
			}
		}
		user.Skills = skills
	}
	if in.GithubURL != nil {
		if *in.GithubURL != "" {
			parsed, err := url.Parse(*in.GithubURL)
			if err != nil || !strings.Contains(strings.ToLower(parsed.Hostname()), "github.com") {
				return nil, models.NewValidationError("github_url must be a valid GitHub URL")
			}
		}
		user.GithubURL = *in.GithubURL
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SearchUsers finds users by username/display name substring and skill filter.
func (s *UserService) SearchUsers(ctx context.Context, in SearchUsersInput) ([]models.User, error) {
	if in.Query == "" && in.Skill == "" {
		return nil, models.NewValidationError("A search or skill query is required")
	}
	return s.userRepo.Search(ctx, in.Query, in.Skill, in.Limit, in.Offset, in.CurrentUserID)
}
