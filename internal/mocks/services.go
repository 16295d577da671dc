package mocks

import (
	"context"

	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
	"github.com/stretchr/testify/mock"
)

var (
	_ services.AuthService    = (*AuthService)(nil)
	_ services.SessionService = (*SessionService)(nil)
	_ services.PostService    = (*PostService)(nil)
	_ services.CommentService = (*CommentService)(nil)
)

// AuthService - мок services.AuthService.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AuthService) Verify(ctx context.Context, username, password string) (int64, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(int64), args.Error(1)
}

// SessionService - мок services.SessionService.
type SessionService struct {
	mock.Mock
}

func (m *SessionService) Resolve(ctx context.Context, token string) auth.Identity {
	return m.Called(ctx, token).Get(0).(auth.Identity)
}

func (m *SessionService) Start(ctx context.Context, userID int64, previous string) (string, error) {
	args := m.Called(ctx, userID, previous)
	return args.String(0), args.Error(1)
}

func (m *SessionService) End(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// PostService - мок services.PostService.
type PostService struct {
	mock.Mock
}

func (m *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *PostService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	args := m.Called(ctx, query)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *PostService) GetPostDetail(ctx context.Context, id int64) (*models.PostDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*models.PostDetail)
	return detail, args.Error(1)
}

func (m *PostService) CreatePost(ctx context.Context, identity auth.Identity, input models.PostInput) (int64, error) {
	args := m.Called(ctx, identity, input)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PostService) UpdatePost(
	ctx context.Context,
	identity auth.Identity,
	id int64,
	input models.PostInput,
) error {
	return m.Called(ctx, identity, id, input).Error(0)
}

func (m *PostService) DeletePost(ctx context.Context, identity auth.Identity, id int64) error {
	return m.Called(ctx, identity, id).Error(0)
}

// CommentService - мок services.CommentService.
type CommentService struct {
	mock.Mock
}

func (m *CommentService) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Error(1)
}

func (m *CommentService) CreateComment(
	ctx context.Context,
	identity auth.Identity,
	postID int64,
	input models.CommentInput,
) (int64, error) {
	args := m.Called(ctx, identity, postID, input)
	return args.Get(0).(int64), args.Error(1)
}
