// Package auth содержит модель личности вызывающего и политику доступа к записям.
// Все функции чистые: состояние передается явно через Identity.
package auth

import "github.com/maynagashev/goblog/models"

// Identity - результат разрешения сессии для одного запроса.
// Нулевое значение соответствует анонимному пользователю.
type Identity struct {
	user *models.User
}

// Anonymous возвращает личность неаутентифицированного пользователя.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated возвращает личность, привязанную к пользователю.
// nil трактуется как анонимный пользователь.
func Authenticated(user *models.User) Identity {
	return Identity{user: user}
}

// IsAuthenticated сообщает, привязана ли личность к пользователю.
func (i Identity) IsAuthenticated() bool {
	return i.user != nil
}

// UserID возвращает ID пользователя и true, либо 0 и false для анонима.
func (i Identity) UserID() (int64, bool) {
	if i.user == nil {
		return 0, false
	}
	return i.user.ID, true
}

// User возвращает загруженную запись пользователя (nil для анонима).
func (i Identity) User() *models.User {
	return i.user
}

func (i Identity) String() string {
	if i.user == nil {
		return "anonymous"
	}
	return i.user.Username
}
