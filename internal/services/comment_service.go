package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/models"
)

// CommentService определяет операции над комментариями.
// Комментарии только добавляются, поэтому проверки владения нет.
type CommentService interface {
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, identity auth.Identity, postID int64, input models.CommentInput) (int64, error)
}

var _ CommentService = (*commentService)(nil)

type commentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewCommentService создает сервис комментариев.
func NewCommentService(posts repository.PostRepository, comments repository.CommentRepository) CommentService {
	return &commentService{posts: posts, comments: comments}
}

// ListComments возвращает комментарии к существующему посту.
func (s *commentService) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w при получении комментариев", ErrInternal)
	}
	return comments, nil
}

// CreateComment добавляет комментарий от имени текущего пользователя.
// Автор берется только из identity.
func (s *commentService) CreateComment(
	ctx context.Context,
	identity auth.Identity,
	postID int64,
	input models.CommentInput,
) (int64, error) {
	userID, err := auth.RequireAuthenticated(identity)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(input.Body) == "" {
		return 0, fmt.Errorf("%w: текст комментария обязателен", ErrValidation)
	}
	if err = s.ensurePost(ctx, postID); err != nil {
		return 0, err
	}

	commentID, err := s.comments.CreateComment(ctx, &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Body:     input.Body,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return 0, fmt.Errorf("%w: пост %d не существует", ErrNotFound, postID)
		}
		return 0, fmt.Errorf("%w при создании комментария", ErrInternal)
	}

	log.Printf("[CommentService] Пользователь %d прокомментировал пост ID %d", userID, postID)
	return commentID, nil
}

func (s *commentService) ensurePost(ctx context.Context, postID int64) error {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return fmt.Errorf("%w: пост %d не существует", ErrNotFound, postID)
		}
		log.Printf("[CommentService] Ошибка проверки поста ID %d: %v", postID, err)
		return fmt.Errorf("%w при проверке поста", ErrInternal)
	}
	return nil
}
