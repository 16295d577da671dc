package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/maynagashev/goblog/internal/middleware"
	"github.com/maynagashev/goblog/internal/services"
	"github.com/maynagashev/goblog/models"
)

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	authService    services.AuthService
	sessionService services.SessionService
	sessionTTL     time.Duration
	secureCookie   bool
}

// NewAuthHandler создает новый экземпляр AuthHandler.
// secureCookie включает флаг Secure у cookie сессии (при работе через HTTPS).
func NewAuthHandler(
	as services.AuthService,
	ss services.SessionService,
	sessionTTL time.Duration,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		authService:    as,
		sessionService: ss,
		sessionTTL:     sessionTTL,
		secureCookie:   secureCookie,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req, "AuthHandler") {
		return
	}

	log.Printf("[AuthHandler] Попытка регистрации пользователя: %s", req.Username)

	userID, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "AuthHandler")
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{ID: userID}, "AuthHandler")
}

// Login проверяет учетные данные, открывает сессию и выдает токен
// в теле ответа и в cookie. Сессия, с которой пришел запрос, завершается.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req, "AuthHandler") {
		return
	}

	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Username)

	userID, err := h.authService.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "AuthHandler")
		return
	}

	token, err := h.sessionService.Start(r.Context(), userID, middleware.TokenFromRequest(r))
	if err != nil {
		writeServiceError(w, err, "AuthHandler")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.sessionTTL.Seconds())))
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token}, "AuthHandler")
	log.Printf("[AuthHandler] Успешный вход пользователя: %s", req.Username)
}

// Logout завершает текущую сессию и очищает cookie. Повторный выход не ошибка.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.End(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		writeServiceError(w, err, "AuthHandler")
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает текущего пользователя.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if !identity.IsAuthenticated() {
		http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, identity.User(), "AuthHandler")
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
