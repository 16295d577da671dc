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

func TestCommentService_ListComments(t *testing.T) {
	ctx := context.Background()
	comments := []models.Comment{{ID: 1, PostID: 10, Body: "first"}, {ID: 2, PostID: 10, Body: "second"}}

	postRepo := new(mocks.PostRepository)
	commentRepo := new(mocks.CommentRepository)
	postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
	postRepo.On("GetPost", ctx, int64(99)).Return(nil, repository.ErrPostNotFound).Once()
	commentRepo.On("ListComments", ctx, int64(10)).Return(comments, nil).Once()

	service := services.NewCommentService(postRepo, commentRepo)

	got, err := service.ListComments(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, comments, got)

	_, err = service.ListComments(ctx, 99)
	require.ErrorIs(t, err, services.ErrNotFound)

	postRepo.AssertExpectations(t)
	commentRepo.AssertExpectations(t)
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		identity      auth.Identity
		postID        int64
		input         models.CommentInput
		mockSetup     func(postRepo *mocks.PostRepository, commentRepo *mocks.CommentRepository)
		expectedID    int64
		expectedError error
	}{
		{
			name:     "Комментарий к чужому посту",
			identity: bob,
			postID:   10,
			input:    models.CommentInput{Body: "nice"},
			mockSetup: func(postRepo *mocks.PostRepository, commentRepo *mocks.CommentRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				commentRepo.On("CreateComment", ctx, mock.MatchedBy(func(c *models.Comment) bool {
					// Автор берется из личности, а не из запроса
					return c.AuthorID == 2 && c.PostID == 10 && c.Body == "nice"
				})).Return(int64(5), nil).Once()
			},
			expectedID: 5,
		},
		{
			name:          "Аноним",
			identity:      auth.Anonymous(),
			postID:        10,
			input:         models.CommentInput{Body: "nice"},
			mockSetup:     func(*mocks.PostRepository, *mocks.CommentRepository) {},
			expectedError: auth.ErrUnauthenticated,
		},
		{
			name:          "Пустой текст",
			identity:      bob,
			postID:        10,
			input:         models.CommentInput{Body: "   "},
			mockSetup:     func(*mocks.PostRepository, *mocks.CommentRepository) {},
			expectedError: services.ErrValidation,
		},
		{
			name:     "Пост не существует",
			identity: bob,
			postID:   99,
			input:    models.CommentInput{Body: "nice"},
			mockSetup: func(postRepo *mocks.PostRepository, _ *mocks.CommentRepository) {
				postRepo.On("GetPost", ctx, int64(99)).Return(nil, repository.ErrPostNotFound).Once()
			},
			expectedError: services.ErrNotFound,
		},
		{
			name:     "Пост удален перед вставкой",
			identity: bob,
			postID:   10,
			input:    models.CommentInput{Body: "nice"},
			mockSetup: func(postRepo *mocks.PostRepository, commentRepo *mocks.CommentRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				commentRepo.On("CreateComment", ctx, mock.Anything).Return(int64(0), repository.ErrPostNotFound).Once()
			},
			expectedError: services.ErrNotFound,
		},
		{
			name:     "Ошибка репозитория",
			identity: bob,
			postID:   10,
			input:    models.CommentInput{Body: "nice"},
			mockSetup: func(postRepo *mocks.PostRepository, commentRepo *mocks.CommentRepository) {
				postRepo.On("GetPost", ctx, int64(10)).Return(alicePost(), nil).Once()
				commentRepo.On("CreateComment", ctx, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: services.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(mocks.PostRepository)
			commentRepo := new(mocks.CommentRepository)
			tt.mockSetup(postRepo, commentRepo)

			id, err := services.NewCommentService(postRepo, commentRepo).
				CreateComment(ctx, tt.identity, tt.postID, tt.input)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			postRepo.AssertExpectations(t)
			commentRepo.AssertExpectations(t)
		})
	}
}
