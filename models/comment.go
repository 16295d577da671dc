package models

import "time"

// Comment представляет комментарий к посту.
// Комментарии только добавляются: изменения и удаления нет.
type Comment struct {
	ID       int64     `db:"id" json:"id"`
	PostID   int64     `db:"post_id" json:"post_id"`
	AuthorID int64     `db:"author_id" json:"author_id"`
	Body     string    `db:"body" json:"body"`
	Created  time.Time `db:"created" json:"created"`
	Username string    `db:"username" json:"username"`
}

// CommentInput представляет тело запроса на добавление комментария.
// Автор берется только из сессии, поэтому поля author_id здесь нет.
type CommentInput struct {
	Body string `json:"body"`
}
