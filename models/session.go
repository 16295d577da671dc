package models

import "time"

// Session - серверная запись сессии. Клиент получает только подписанный токен с ее ID.
type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
