// Package mocks содержит моки интерфейсов репозиториев и сервисов на testify/mock.
package mocks

import (
	"context"
	"time"

	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/models"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.PostRepository    = (*PostRepository)(nil)
	_ repository.CommentRepository = (*CommentRepository)(nil)
)

// UserRepository - мок repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// SessionRepository - мок repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *SessionRepository) GetActiveSession(
	ctx context.Context,
	id string,
	now time.Time,
) (*models.Session, error) {
	args := m.Called(ctx, id, now)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// PostRepository - мок repository.PostRepository.
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *PostRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	args := m.Called(ctx, query)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *PostRepository) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *PostRepository) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PostRepository) UpdatePost(ctx context.Context, id int64, title, body string) error {
	return m.Called(ctx, id, title, body).Error(0)
}

func (m *PostRepository) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// CommentRepository - мок repository.CommentRepository.
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Error(1)
}

func (m *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(int64), args.Error(1)
}
