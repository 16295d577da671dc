package handlers

import (
	"log"
	"net/http"

	"github.com/maynagashev/goblog/internal/middleware"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
)

// PostHandler обрабатывает HTTP-запросы к постам.
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler создает новый экземпляр PostHandler.
func NewPostHandler(ps services.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

// List возвращает ленту постов. С параметром query выполняет поиск по тексту.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		posts []models.Post
		err   error
	)
	if query := r.URL.Query().Get("query"); query != "" {
		posts, err = h.postService.SearchPosts(r.Context(), query)
	} else {
		posts, err = h.postService.ListPosts(r.Context())
	}
	if err != nil {
		writeServiceError(w, err, "PostHandler:List")
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts, "PostHandler:List")
}

// Get возвращает пост вместе с комментариями.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := h.postService.GetPostDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "PostHandler:Get")
		return
	}

	if detail.Comments == nil {
		detail.Comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, detail, "PostHandler:Get")
}

// Create создает пост от имени текущего пользователя.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.PostInput
	if !decodeJSON(w, r, &input, "PostHandler:Create") {
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	postID, err := h.postService.CreatePost(r.Context(), identity, input)
	if err != nil {
		writeServiceError(w, err, "PostHandler:Create")
		return
	}

	writeJSON(w, http.StatusCreated, models.CreatedResponse{ID: postID}, "PostHandler:Create")
}

// Update меняет заголовок и текст поста. Доступно только автору.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var input models.PostInput
	if !decodeJSON(w, r, &input, "PostHandler:Update") {
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	if err = h.postService.UpdatePost(r.Context(), identity, id, input); err != nil {
		writeServiceError(w, err, "PostHandler:Update")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete удаляет пост. Доступно только автору.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	if err = h.postService.DeletePost(r.Context(), identity, id); err != nil {
		writeServiceError(w, err, "PostHandler:Delete")
		return
	}

	log.Printf("[PostHandler:Delete] Пост %d удален", id)
	w.WriteHeader(http.StatusNoContent)
}
