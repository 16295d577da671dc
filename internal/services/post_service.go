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

// PostService определяет операции над постами с проверкой прав.
type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	// SearchPosts ищет посты, текст которых содержит query (без учета регистра).
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetPostDetail(ctx context.Context, id int64) (*models.PostDetail, error)
	CreatePost(ctx context.Context, identity auth.Identity, input models.PostInput) (int64, error)
	UpdatePost(ctx context.Context, identity auth.Identity, id int64, input models.PostInput) error
	DeletePost(ctx context.Context, identity auth.Identity, id int64) error
}

var _ PostService = (*postService)(nil)

type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewPostService создает сервис постов.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository) PostService {
	return &postService{posts: posts, comments: comments}
}

func (s *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		log.Printf("[PostService] Ошибка получения списка постов: %v", err)
		return nil, fmt.Errorf("%w при получении постов", ErrInternal)
	}
	return posts, nil
}

func (s *postService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	posts, err := s.posts.SearchPosts(ctx, query)
	if err != nil {
		log.Printf("[PostService] Ошибка поиска постов: %v", err)
		return nil, fmt.Errorf("%w при поиске постов", ErrInternal)
	}
	return posts, nil
}

// GetPost возвращает пост без проверки прав: читать посты может любой.
func (s *postService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, fmt.Errorf("%w: пост %d не существует", ErrNotFound, id)
		}
		log.Printf("[PostService] Ошибка получения поста ID %d: %v", id, err)
		return nil, fmt.Errorf("%w при получении поста", ErrInternal)
	}
	return post, nil
}

// GetPostDetail возвращает пост вместе с комментариями.
func (s *postService) GetPostDetail(ctx context.Context, id int64) (*models.PostDetail, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListComments(ctx, id)
	if err != nil {
		log.Printf("[PostService] Ошибка получения комментариев к посту ID %d: %v", id, err)
		return nil, fmt.Errorf("%w при получении комментариев", ErrInternal)
	}

	return &models.PostDetail{Post: *post, Comments: comments}, nil
}

// CreatePost создает пост от имени текущего пользователя.
func (s *postService) CreatePost(ctx context.Context, identity auth.Identity, input models.PostInput) (int64, error) {
	userID, err := auth.RequireAuthenticated(identity)
	if err != nil {
		return 0, err
	}
	if err = validatePostInput(input); err != nil {
		return 0, err
	}

	postID, err := s.posts.CreatePost(ctx, &models.Post{
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: userID,
	})
	if err != nil {
		return 0, fmt.Errorf("%w при создании поста", ErrInternal)
	}

	log.Printf("[PostService] Пользователь %d создал пост ID %d", userID, postID)
	return postID, nil
}

// UpdatePost меняет пост. Проверки: вход, существование, владение, валидация.
func (s *postService) UpdatePost(
	ctx context.Context,
	identity auth.Identity,
	id int64,
	input models.PostInput,
) error {
	if err := s.authorize(ctx, identity, id); err != nil {
		return err
	}
	if err := validatePostInput(input); err != nil {
		return err
	}

	if err := s.posts.UpdatePost(ctx, id, input.Title, input.Body); err != nil {
		return mapPostWriteError(err, id)
	}

	log.Printf("[PostService] Пост ID %d обновлен пользователем %s", id, identity)
	return nil
}

// DeletePost удаляет пост. Существование и владение проверяются до удаления.
func (s *postService) DeletePost(ctx context.Context, identity auth.Identity, id int64) error {
	if err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return mapPostWriteError(err, id)
	}

	log.Printf("[PostService] Пост ID %d удален пользователем %s", id, identity)
	return nil
}

// authorize загружает пост и проверяет, что identity - его автор.
func (s *postService) authorize(ctx context.Context, identity auth.Identity, id int64) error {
	if _, err := auth.RequireAuthenticated(identity); err != nil {
		return err
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if err = auth.AuthorizeModify(identity, post.AuthorID); err != nil {
		log.Printf("[PostService] Пользователь %s не может изменять пост ID %d (автор %d)",
			identity, id, post.AuthorID)
		return err
	}
	return nil
}

func validatePostInput(input models.PostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: заголовок обязателен", ErrValidation)
	}
	return nil
}

func mapPostWriteError(err error, id int64) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return fmt.Errorf("%w: пост %d не существует", ErrNotFound, id)
	}
	log.Printf("[PostService] Ошибка изменения поста ID %d: %v", id, err)
	return fmt.Errorf("%w при изменении поста", ErrInternal)
}
