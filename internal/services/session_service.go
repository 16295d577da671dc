package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maynagashev/goblog/internal/auth"
	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/models"
)

const tokenIssuer = "goblog-server"

// SessionService - шлюз сессий: связывает непрозрачный токен клиента с пользователем.
type SessionService interface {
	// Resolve никогда не возвращает ошибку: любой неразрешимый токен означает анонима.
	Resolve(ctx context.Context, token string) auth.Identity
	// Start завершает предыдущую сессию (если токен передан) и открывает новую.
	Start(ctx context.Context, userID int64, previous string) (string, error)
	// End завершает сессию. Повторный вызов и пустой токен - не ошибка.
	End(ctx context.Context, token string) error
}

var _ SessionService = (*sessionService)(nil)

type sessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService создает сервис сессий. secret используется для подписи токенов (HS256).
func NewSessionService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	secret string,
	ttl time.Duration,
) SessionService {
	return &sessionService{
		sessions: sessions,
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Resolve разрешает токен в личность вызывающего.
func (s *sessionService) Resolve(ctx context.Context, token string) auth.Identity {
	if token == "" {
		return auth.Anonymous()
	}

	sessionID, err := s.parseToken(token, true)
	if err != nil {
		log.Printf("[SessionService] Невалидный токен сессии: %v", err)
		return auth.Anonymous()
	}

	session, err := s.sessions.GetActiveSession(ctx, sessionID, s.now())
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			log.Printf("[SessionService] Ошибка репозитория при поиске сессии: %v", err)
		}
		return auth.Anonymous()
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		log.Printf("[SessionService] Пользователь ID %d из сессии недоступен: %v", session.UserID, err)
		return auth.Anonymous()
	}

	return auth.Authenticated(user)
}

// Start открывает новую сессию для пользователя и возвращает подписанный токен.
func (s *sessionService) Start(ctx context.Context, userID int64, previous string) (string, error) {
	if previous != "" {
		if err := s.End(ctx, previous); err != nil {
			log.Printf("[SessionService] Не удалось завершить предыдущую сессию: %v", err)
		}
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		log.Printf("[SessionService] Ошибка создания сессии для пользователя %d: %v", userID, err)
		return "", fmt.Errorf("%w при создании сессии", ErrInternal)
	}

	token, err := s.signToken(session)
	if err != nil {
		log.Printf("[SessionService] Ошибка подписи токена для пользователя %d: %v", userID, err)
		return "", fmt.Errorf("%w при генерации токена", ErrInternal)
	}

	log.Printf("[SessionService] Сессия открыта для пользователя %d", userID)
	return token, nil
}

// End удаляет серверную запись сессии.
// Истекший токен тоже принимается, чтобы выход всегда удалял запись.
func (s *sessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionID, err := s.parseToken(token, false)
	if err != nil {
		// Чужой или поврежденный токен: удалять нечего
		return nil //nolint:nilerr // завершение сессии идемпотентно
	}

	if err = s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("%w при завершении сессии", ErrInternal)
	}
	return nil
}

// signToken создает и подписывает токен с ID сессии в поле jti.
func (s *sessionService) signToken(session *models.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи JWT: %w", err)
	}
	return signed, nil
}

// parseToken проверяет подпись и возвращает ID сессии.
func (s *sessionService) parseToken(tokenString string, validateClaims bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("в токене отсутствует ID сессии")
	}
	return claims.ID, nil
}
