package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/services"
)

// SessionCookieName - имя cookie, в которой браузер передает токен сессии.
const SessionCookieName = "session"

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения личности вызывающего в контексте.
const identityKey contextKey = "identity"

// TokenFromRequest извлекает токен сессии из cookie или заголовка Authorization.
// Cookie имеет приоритет. Возвращает пустую строку, если токена нет.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Проверяем формат "Bearer token"
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		log.Printf("[AuthMiddleware] Неверный формат заголовка Authorization")
		return ""
	}
	return headerParts[1]
}

// SessionGate разрешает токен запроса в auth.Identity и кладет ее в контекст.
// Запрос пропускается дальше всегда: аноним тоже является личностью.
func SessionGate(sessions services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := sessions.Resolve(r.Context(), TokenFromRequest(r))
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth отвечает 401 анонимным запросам.
// Используется после SessionGate на маршрутах, где вход обязателен.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).IsAuthenticated() {
			log.Printf("[AuthMiddleware] Анонимный запрос к %s %s отклонен", r.Method, r.URL.Path)
			http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity возвращает контекст с личностью вызывающего.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext извлекает личность из контекста запроса.
// Если SessionGate не выполнялся, возвращается аноним.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	if !ok {
		return auth.Anonymous()
	}
	return identity
}
