package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/maynagashev/goblog/models"
)

// CommentRepository определяет методы для работы с комментариями.
type CommentRepository interface {
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)
}

type postgresCommentRepository struct {
	db *sqlx.DB
}

// NewPostgresCommentRepository создает репозиторий комментариев для PostgreSQL.
func NewPostgresCommentRepository(db *sqlx.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

// ListComments возвращает комментарии к посту, начиная с самых новых.
func (r *postgresCommentRepository) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.post_id, c.author_id, c.body, c.created, u.username
	          FROM comments c JOIN users u ON c.author_id = u.id
	          WHERE c.post_id = $1
	          ORDER BY c.created DESC, c.id DESC`

	comments := make([]models.Comment, 0)
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		log.Printf("[CommentRepo] Ошибка при получении комментариев к посту ID %d: %v", postID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение комментариев: %w", err)
	}
	return comments, nil
}

// CreateComment добавляет комментарий и возвращает его ID.
func (r *postgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	query := `INSERT INTO comments (post_id, author_id, body) VALUES ($1, $2, $3) RETURNING id`
	var commentID int64

	err := r.db.QueryRowxContext(ctx, query, comment.PostID, comment.AuthorID, comment.Body).Scan(&commentID)
	if err != nil {
		// Пост могли удалить между проверкой и вставкой
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Printf("[CommentRepo] Пост ID %d не существует", comment.PostID)
			return 0, ErrPostNotFound
		}
		log.Printf("[CommentRepo] Ошибка создания комментария к посту ID %d: %v", comment.PostID, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание комментария: %w", err)
	}

	log.Printf("[CommentRepo] Комментарий ID %d добавлен к посту ID %d", commentID, comment.PostID)
	return commentID, nil
}
