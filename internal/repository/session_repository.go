package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/goblog/models"
)

// SessionRepository хранит серверные сессии пользователей.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	// GetActiveSession возвращает сессию, если она существует и не истекла к моменту now.
	GetActiveSession(ctx context.Context, id string, now time.Time) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type postgresSessionRepository struct {
	db *sqlx.DB
}

// NewPostgresSessionRepository создает репозиторий сессий для PostgreSQL.
func NewPostgresSessionRepository(db *sqlx.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

// CreateSession сохраняет новую сессию.
func (r *postgresSessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.ExpiresAt); err != nil {
		log.Printf("[SessionRepo] Ошибка создания сессии для пользователя ID %d: %v", session.UserID, err)
		return fmt.Errorf("ошибка выполнения запроса на создание сессии: %w", err)
	}

	log.Printf("[SessionRepo] Создана сессия для пользователя ID %d", session.UserID)
	return nil
}

// GetActiveSession находит неистекшую сессию по ID.
func (r *postgresSessionRepository) GetActiveSession(
	ctx context.Context,
	id string,
	now time.Time,
) (*models.Session, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id=$1 AND expires_at > $2`
	var session models.Session

	err := r.db.GetContext(ctx, &session, query, id, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		log.Printf("[SessionRepo] Ошибка при поиске сессии: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение сессии: %w", err)
	}

	return &session, nil
}

// DeleteSession удаляет сессию. Отсутствие сессии ошибкой не считается.
func (r *postgresSessionRepository) DeleteSession(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id=$1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		log.Printf("[SessionRepo] Ошибка удаления сессии: %v", err)
		return fmt.Errorf("ошибка выполнения запроса на удаление сессии: %w", err)
	}
	return nil
}

// ErrSessionNotFound - сессия не найдена или истекла.
var ErrSessionNotFound = errors.New("сессия не найдена")
