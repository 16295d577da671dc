package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/goblog/models"
)

// PostRepository определяет методы для работы с постами.
// Проверки прав здесь нет: ее выполняет вызывающая сторона.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) (int64, error)
	UpdatePost(ctx context.Context, id int64, title, body string) error
	DeletePost(ctx context.Context, id int64) error
}

// Общая часть запросов на чтение: пост вместе с именем автора.
const selectPostsQuery = `SELECT p.id, p.title, p.body, p.created, p.author_id, u.username
	FROM posts p JOIN users u ON p.author_id = u.id`

// Новые посты первыми; id разрешает совпадения времени.
const orderPostsQuery = ` ORDER BY p.created DESC, p.id DESC`

type postgresPostRepository struct {
	db *sqlx.DB
}

// NewPostgresPostRepository создает репозиторий постов для PostgreSQL.
func NewPostgresPostRepository(db *sqlx.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

// ListPosts возвращает все посты, начиная с самых новых.
func (r *postgresPostRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := r.db.SelectContext(ctx, &posts, selectPostsQuery+orderPostsQuery); err != nil {
		log.Printf("[PostRepo] Ошибка при получении списка постов: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение постов: %w", err)
	}
	return posts, nil
}

// SearchPosts возвращает посты, текст которых содержит query как подстроку (без учета регистра).
// strpos не интерпретирует % и _, поэтому запрос ищется буквально.
func (r *postgresPostRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	q := selectPostsQuery + ` WHERE strpos(lower(p.body), lower($1)) > 0` + orderPostsQuery

	posts := make([]models.Post, 0)
	if err := r.db.SelectContext(ctx, &posts, q, query); err != nil {
		log.Printf("[PostRepo] Ошибка поиска постов по '%s': %v", query, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на поиск постов: %w", err)
	}

	log.Printf("[PostRepo] Найдено %d постов по запросу '%s'", len(posts), query)
	return posts, nil
}

// GetPost находит пост по ID.
func (r *postgresPostRepository) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, selectPostsQuery+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[PostRepo] Пост ID %d не найден", id)
			return nil, ErrPostNotFound
		}
		log.Printf("[PostRepo] Ошибка при поиске поста ID %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение поста: %w", err)
	}

	return &post, nil
}

// CreatePost создает пост. Время создания назначает БД.
func (r *postgresPostRepository) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	query := `INSERT INTO posts (title, body, author_id) VALUES ($1, $2, $3) RETURNING id`
	var postID int64

	err := r.db.QueryRowxContext(ctx, query, post.Title, post.Body, post.AuthorID).Scan(&postID)
	if err != nil {
		log.Printf("[PostRepo] Ошибка создания поста пользователем ID %d: %v", post.AuthorID, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание поста: %w", err)
	}

	log.Printf("[PostRepo] Пост ID %d создан пользователем ID %d", postID, post.AuthorID)
	return postID, nil
}

// UpdatePost меняет заголовок и текст поста. Автор и время создания не меняются.
func (r *postgresPostRepository) UpdatePost(ctx context.Context, id int64, title, body string) error {
	query := `UPDATE posts SET title = $1, body = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, title, body, id)
	if err != nil {
		log.Printf("[PostRepo] Ошибка обновления поста ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на обновление поста: %w", err)
	}
	return checkAffected(res, id)
}

// DeletePost удаляет пост вместе с комментариями (ON DELETE CASCADE).
func (r *postgresPostRepository) DeletePost(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("[PostRepo] Ошибка удаления поста ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление поста: %w", err)
	}
	if err = checkAffected(res, id); err != nil {
		return err
	}

	log.Printf("[PostRepo] Пост ID %d удален", id)
	return nil
}

func checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества измененных строк: %w", err)
	}
	if n == 0 {
		log.Printf("[PostRepo] Пост ID %d не найден", id)
		return ErrPostNotFound
	}
	return nil
}

// ErrPostNotFound - пост с указанным ID отсутствует.
var ErrPostNotFound = errors.New("пост не найден")
