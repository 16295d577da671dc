package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/mocks"
	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = auth.Authenticated(&models.User{ID: 1, Username: "alice"})
	bob   = auth.Authenticated(&models.User{ID: 2, Username: "bob"})
)

func alicePost() *models.Post {
	return &models.Post{ID: 10, Title: "hello", Body: "world", AuthorID: 1, Username: "alice"}
}

func TestPostService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	posts := []models.Post{*alicePost()}

	postRepo := new(mocks.PostRepository)
	postRepo.On("ListPosts", ctx).Return(posts, nil).Once()
	postRepo.On("SearchPosts", ctx, "WORLD").Return(posts, nil).Once()
	postRepo.On("SearchPosts", ctx, "broken").Return(nil, errors.New("db down")).Once()

	service := services.NewPostService(postRepo, new(mocks.CommentRepository))

	got, err := service.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	got, err = service.SearchPosts(ctx, "WORLD")
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	_, err = service.SearchPosts(ctx, "broken")
	require.ErrorIs(t, err, services.ErrInternal)
	postRepo.AssertExpectations(t)
}

func TestPostService_GetPostDetail(t *testing.T) {
	ctx := context.Background()
	comments := []models.Comment{{ID: 1, PostID: 10, AuthorID: 2, Body: "nice", Username: "bob"}}

	t.Run("Пост с комментариями", func(t *testing.T) {
		postRepo := new(mocks.PostRepository)
		commentRepo := new(mocks.CommentRepository)
		postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
		commentRepo.On("ListComments", ctx, int64(10)).Return(comments, nil).Once()

		detail, err := services.NewPostService(postRepo, commentRepo).GetPostDetail(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, *alicePost(), detail.Post)
		assert.Equal(t, comments, detail.Comments)
	})

	t.Run("Пост не найден", func(t *testing.T) {
		postRepo := new(mocks.PostRepository)
		commentRepo := new(mocks.CommentRepository)
		postRepo.On("GetPost", ctx, int64(99)).Return(nil, repository.ErrPostNotFound).Once()

		_, err := services.NewPostService(postRepo, commentRepo).GetPostDetail(ctx, 99)
		require.ErrorIs(t, err, services.ErrNotFound)
		commentRepo.AssertNotCalled(t, "ListComments", mock.Anything, mock.Anything)
	})
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		identity      auth.Identity
		input         models.PostInput
		mockSetup     func(postRepo *mocks.PostRepository)
		expectedID    int64
		expectedError error
	}{
		{
			name:     "Успешное создание",
			identity: alice,
			input:    models.PostInput{Title: "t", Body: "b"},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("CreatePost", ctx, mock.MatchedBy(func(p *models.Post) bool {
					return p.AuthorID == 1 && p.Title == "t" && p.Body == "b"
				})).Return(int64(10), nil).Once()
			},
			expectedID: 10,
		},
		{
			name:     "Пустое тело допустимо",
			identity: alice,
			input:    models.PostInput{Title: "t"},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("CreatePost", ctx, mock.AnythingOfType("*models.Post")).Return(int64(11), nil).Once()
			},
			expectedID: 11,
		},
		{
			name:          "Аноним",
			identity:      auth.Anonymous(),
			input:         models.PostInput{Title: "t"},
			mockSetup:     func(*mocks.PostRepository) {},
			expectedError: auth.ErrUnauthenticated,
		},
		{
			name:          "Пустой заголовок",
			identity:      alice,
			input:         models.PostInput{Body: "b"},
			mockSetup:     func(*mocks.PostRepository) {},
			expectedError: services.ErrValidation,
		},
		{
			name:          "Заголовок из пробелов",
			identity:      alice,
			input:         models.PostInput{Title: " \t ", Body: "b"},
			mockSetup:     func(*mocks.PostRepository) {},
			expectedError: services.ErrValidation,
		},
		{
			name:     "Ошибка репозитория",
			identity: alice,
			input:    models.PostInput{Title: "t"},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("CreatePost", ctx, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: services.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(mocks.PostRepository)
			tt.mockSetup(postRepo)

			id, err := services.NewPostService(postRepo, new(mocks.CommentRepository)).
				CreatePost(ctx, tt.identity, tt.input)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			postRepo.AssertExpectations(t)
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	input := models.PostInput{Title: "new", Body: "text"}

	tests := []struct {
		name          string
		identity      auth.Identity
		id            int64
		input         models.PostInput
		mockSetup     func(postRepo *mocks.PostRepository)
		expectedError error
	}{
		{
			name:     "Автор меняет пост",
			identity: alice,
			id:       10,
			input:    input,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				postRepo.On("UpdatePost", ctx, int64(10), "new", "text").Return(nil).Once()
			},
		},
		{
			name:          "Аноним",
			identity:      auth.Anonymous(),
			id:            10,
			input:         input,
			mockSetup:     func(*mocks.PostRepository) {},
			expectedError: auth.ErrUnauthenticated,
		},
		{
			name:     "Пост не существует",
			identity: alice,
			id:       99,
			input:    input,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(99)).Return(nil, repository.ErrPostNotFound).Once()
			},
			expectedError: services.ErrNotFound,
		},
		{
			name:     "Чужой пост",
			identity: bob,
			id:       10,
			input:    input,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
			},
			expectedError: auth.ErrForbidden,
		},
		{
			name:     "Чужой пост с пустым заголовком",
			identity: bob,
			id:       10,
			input:    models.PostInput{},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
			},
			expectedError: auth.ErrForbidden,
		},
		{
			name:     "Пустой заголовок",
			identity: alice,
			id:       10,
			input:    models.PostInput{Body: "text"},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
			},
			expectedError: services.ErrValidation,
		},
		{
			name:     "Заголовок из пробелов при обновлении",
			identity: alice,
			id:       10,
			input:    models.PostInput{Title: "   ", Body: "text"},
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
			},
			expectedError: services.ErrValidation,
		},
		{
			name:     "Пост удален между проверкой и обновлением",
			identity: alice,
			id:       10,
			input:    input,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				postRepo.On("UpdatePost", ctx, int64(10), "new", "text").Return(repository.ErrPostNotFound).Once()
			},
			expectedError: services.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(mocks.PostRepository)
			tt.mockSetup(postRepo)

			err := services.NewPostService(postRepo, new(mocks.CommentRepository)).
				UpdatePost(ctx, tt.identity, tt.id, tt.input)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
			}
			postRepo.AssertExpectations(t)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		identity      auth.Identity
		id            int64
		mockSetup     func(postRepo *mocks.PostRepository)
		expectedError error
	}{
		{
			name:     "Автор удаляет пост",
			identity: alice,
			id:       10,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				postRepo.On("DeletePost", ctx, int64(10)).Return(nil).Once()
			},
		},
		{
			name:          "Аноним",
			identity:      auth.Anonymous(),
			id:            10,
			mockSetup:     func(*mocks.PostRepository) {},
			expectedError: auth.ErrUnauthenticated,
		},
		{
			name:     "Пост не существует",
			identity: alice,
			id:       99,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(99)).Return(nil, repository.ErrPostNotFound).Once()
			},
			expectedError: services.ErrNotFound,
		},
		{
			name:     "Чужой пост",
			identity: bob,
			id:       10,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
			},
			expectedError: auth.ErrForbidden,
		},
		{
			name:     "Ошибка репозитория",
			identity: alice,
			id:       10,
			mockSetup: func(postRepo *mocks.PostRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				postRepo.On("DeletePost", ctx, int64(10)).Return(errors.New("db down")).Once()
			},
			expectedError: services.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(mocks.PostRepository)
			tt.mockSetup(postRepo)

			err := services.NewPostService(postRepo, new(mocks.CommentRepository)).DeletePost(ctx, tt.identity, tt.id)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				if !errors.Is(err, services.ErrInternal) {
					postRepo.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
				}
			} else {
				require.NoError(t, err)
			}
			postRepo.AssertExpectations(t)
		})
	}
}
