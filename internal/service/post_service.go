package service

import (
	"context"
	"errors"
	"strings"

	"devmate/internal/models"
	"devmate/internal/repository"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID       uint
	Content      string
	CodeSnippet  string
	CodeLanguage string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// ToggleLikeResult reports the outcome of a like toggle. Liked is the state
// after the toggle; Transitioned is true only when this call created the like
// row, never for a duplicate like or an unlike.
type ToggleLikeResult struct {
	Post         *models.Post
	Liked        bool
	Transitioned bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 2000
	const maxSnippetLen = 10000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 2000 characters)")
	}
	if len(in.CodeSnippet) > maxSnippetLen {
		return nil, models.NewValidationError("Code snippet too long (max 10000 characters)")
	}
	if in.CodeSnippet == "" && in.CodeLanguage != "" {
		return nil, models.NewValidationError("Code language requires a code snippet")
	}

	post := &models.Post{
		Content:      content,
		CodeSnippet:  in.CodeSnippet,
		CodeLanguage: in.CodeLanguage,
		UserID:       in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", in.PostID)
		}
		return err
	}

	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the like state for the user on the post. Two sequential
// toggles always leave the likes count where it started.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleLikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	result := &ToggleLikeResult{}
	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		created, err := s.postRepo.Like(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		result.Liked = true
		result.Transitioned = created
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	result.Post = post
	return result, nil
}
