package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/handlers"
	"github.com/maynagashev/goblog/internal/mocks"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = auth.Authenticated(&models.User{ID: 1, Username: "alice"})

func setupPostRouter(h *handlers.PostHandler, identity auth.Identity) *chi.Mux {
	r := chi.NewRouter()
	r.Use(withIdentity(identity))
	r.Get("/posts", h.List)
	r.Post("/posts", h.Create)
	r.Get("/posts/{id}", h.Get)
	r.Put("/posts/{id}", h.Update)
	r.Delete("/posts/{id}", h.Delete)
	return r
}

func TestPostHandler_List(t *testing.T) {
	posts := []models.Post{{ID: 2, Title: "second", AuthorID: 1, Username: "alice"}}

	t.Run("Лента", func(t *testing.T) {
		postService := new(mocks.PostService)
		postService.On("ListPosts", mock.Anything).Return(posts, nil).Once()

		rr := httptest.NewRecorder()
		setupPostRouter(handlers.NewPostHandler(postService), auth.Anonymous()).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got []models.Post
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, posts, got)
		postService.AssertExpectations(t)
	})

	t.Run("Поиск", func(t *testing.T) {
		postService := new(mocks.PostService)
		postService.On("SearchPosts", mock.Anything, "go lang").Return(nil, nil).Once()

		rr := httptest.NewRecorder()
		setupPostRouter(handlers.NewPostHandler(postService), auth.Anonymous()).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts?query=go+lang", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		// Пустой результат - пустой массив, а не null
		assert.JSONEq(t, `[]`, rr.Body.String())
		postService.AssertNotCalled(t, "ListPosts", mock.Anything)
	})

	t.Run("Ошибка сервиса", func(t *testing.T) {
		postService := new(mocks.PostService)
		postService.On("ListPosts", mock.Anything).Return(nil, services.ErrInternal).Once()

		rr := httptest.NewRecorder()
		setupPostRouter(handlers.NewPostHandler(postService), auth.Anonymous()).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestPostHandler_Get(t *testing.T) {
	detail := &models.PostDetail{Post: models.Post{ID: 5, Title: "t", AuthorID: 1, Username: "alice"}}

	tests := []struct {
		name           string
		path           string
		mockSetup      func(s *mocks.PostService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Пост найден",
			path: "/posts/5",
			mockSetup: func(s *mocks.PostService) {
				s.On("GetPostDetail", mock.Anything, int64(5)).Return(detail, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"comments":[]`,
		},
		{
			name: "Пост не найден",
			path: "/posts/6",
			mockSetup: func(s *mocks.PostService) {
				s.On("GetPostDetail", mock.Anything, int64(6)).
					Return(nil, services.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   services.ErrNotFound.Error(),
		},
		{
			name:           "Нечисловой ID",
			path:           "/posts/abc",
			mockSetup:      func(*mocks.PostService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "неверный ID записи",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postService := new(mocks.PostService)
			tt.mockSetup(postService)

			rr := httptest.NewRecorder()
			setupPostRouter(handlers.NewPostHandler(postService), auth.Anonymous()).
				ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			postService.AssertExpectations(t)
		})
	}
}

func TestPostHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		identity       auth.Identity
		body           string
		mockSetup      func(s *mocks.PostService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "Успешное создание",
			identity: alice,
			body:     `{"title":"t","body":"b"}`,
			mockSetup: func(s *mocks.PostService) {
				s.On("CreatePost", mock.Anything, alice, models.PostInput{Title: "t", Body: "b"}).
					Return(int64(9), nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":9}`,
		},
		{
			name:     "Пустой заголовок",
			identity: alice,
			body:     `{"title":"","body":"b"}`,
			mockSetup: func(s *mocks.PostService) {
				s.On("CreatePost", mock.Anything, alice, models.PostInput{Body: "b"}).
					Return(int64(0), services.ErrValidation).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "Аноним",
			identity: auth.Anonymous(),
			body:     `{"title":"t"}`,
			mockSetup: func(s *mocks.PostService) {
				s.On("CreatePost", mock.Anything, auth.Anonymous(), models.PostInput{Title: "t"}).
					Return(int64(0), auth.ErrUnauthenticated).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Требуется аутентификация",
		},
		{
			name:           "Невалидный JSON",
			identity:       alice,
			body:           `{"title":`,
			mockSetup:      func(*mocks.PostService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Неверный формат запроса",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postService := new(mocks.PostService)
			tt.mockSetup(postService)

			rr := httptest.NewRecorder()
			setupPostRouter(handlers.NewPostHandler(postService), tt.identity).
				ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			postService.AssertExpectations(t)
		})
	}
}

func TestPostHandler_Update(t *testing.T) {
	input := models.PostInput{Title: "new", Body: "text"}
	body := `{"title":"new","body":"text"}`

	tests := []struct {
		name           string
		path           string
		mockErr        error
		callsService   bool
		expectedStatus int
	}{
		{name: "Успешное обновление", path: "/posts/5", callsService: true, expectedStatus: http.StatusNoContent},
		{name: "Чужой пост", path: "/posts/5", mockErr: auth.ErrForbidden, callsService: true,
			expectedStatus: http.StatusForbidden},
		{name: "Пост не найден", path: "/posts/5", mockErr: services.ErrNotFound, callsService: true,
			expectedStatus: http.StatusNotFound},
		{name: "Пустой заголовок", path: "/posts/5", mockErr: services.ErrValidation, callsService: true,
			expectedStatus: http.StatusBadRequest},
		{name: "Нечисловой ID", path: "/posts/x", expectedStatus: http.StatusBadRequest},
		{name: "Отрицательный ID", path: "/posts/-1", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postService := new(mocks.PostService)
			if tt.callsService {
				postService.On("UpdatePost", mock.Anything, alice, int64(5), input).Return(tt.mockErr).Once()
			}

			rr := httptest.NewRecorder()
			setupPostRouter(handlers.NewPostHandler(postService), alice).
				ServeHTTP(rr, httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			postService.AssertExpectations(t)
		})
	}
}

func TestPostHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		mockErr        error
		expectedStatus int
	}{
		{name: "Успешное удаление", expectedStatus: http.StatusNoContent},
		{name: "Чужой пост", mockErr: auth.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "Пост не найден", mockErr: services.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "Внутренняя ошибка", mockErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postService := new(mocks.PostService)
			postService.On("DeletePost", mock.Anything, alice, int64(5)).Return(tt.mockErr).Once()

			rr := httptest.NewRecorder()
			setupPostRouter(handlers.NewPostHandler(postService), alice).
				ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/posts/5", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			postService.AssertExpectations(t)
		})
	}
}
