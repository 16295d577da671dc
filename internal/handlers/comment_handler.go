package handlers

import (
	"net/http"

	"github.com/maynagashev/goblog/internal/middleware"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
)

// CommentHandler обрабатывает HTTP-запросы к комментариям поста.
type CommentHandler struct {
	commentService services.CommentService
}

// NewCommentHandler создает новый экземпляр CommentHandler.
func NewCommentHandler(cs services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: cs}
}

// List возвращает комментарии к посту {id}.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err, "CommentHandler:List")
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments, "CommentHandler:List")
}

// Create добавляет комментарий к посту {id} от имени текущего пользователя.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var input models.CommentInput
	if !decodeJSON(w, r, &input, "CommentHandler:Create") {
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	commentID, err := h.commentService.CreateComment(r.Context(), identity, postID, input)
	if err != nil {
		writeServiceError(w, err, "CommentHandler:Create")
		return
	}

	writeJSON(w, http.StatusCreated, models.CreatedResponse{ID: commentID}, "CommentHandler:Create")
}
