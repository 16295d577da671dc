package models

import "time"

// Post представляет запись блога вместе с именем автора.
// Username заполняется через JOIN с таблицей users и не хранится в posts.
type Post struct {
	ID       int64     `db:"id" json:"id"`
	Title    string    `db:"title" json:"title"`
	Body     string    `db:"body" json:"body"`
	Created  time.Time `db:"created" json:"created"`
	AuthorID int64     `db:"author_id" json:"author_id"`
	Username string    `db:"username" json:"username"`
}

// PostDetail - пост вместе со всеми комментариями к нему.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// PostInput представляет тело запроса на создание или изменение поста.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatedResponse возвращает ID созданной записи.
type CreatedResponse struct {
	ID int64 `json:"id"`
}
