package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/services"
)

var errInvalidID = errors.New("неверный ID записи")

// writeJSON отправляет значение v в JSON с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any, component string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Клиент уже получил статус, изменить ответ нельзя
		log.Printf("[%s] Ошибка кодирования ответа: %v", component, err)
	}
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-статус.
func writeServiceError(w http.ResponseWriter, err error, component string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrUnauthenticated):
		http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, "Неверное имя пользователя или пароль", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrForbidden):
		http.Error(w, "Доступ запрещен", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrUsernameTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("[%s] Внутренняя ошибка: %v", component, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

// decodeJSON читает тело запроса. При ошибке сам отвечает 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, component string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("[%s] Ошибка декодирования запроса: %v", component, err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID извлекает положительный числовой параметр {id} из пути.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
