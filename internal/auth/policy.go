package auth

import "errors"

// Ошибки политики доступа.
// "Не вошел" и "вошел, но не владелец" должны обрабатываться по-разному (401 и 403).
var (
	ErrUnauthenticated = errors.New("требуется аутентификация")
	ErrForbidden       = errors.New("недостаточно прав для изменения записи")
)

// RequireAuthenticated возвращает ID пользователя или ErrUnauthenticated для анонима.
func RequireAuthenticated(id Identity) (int64, error) {
	userID, ok := id.UserID()
	if !ok {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// CanModify сообщает, может ли личность изменять запись владельца ownerID.
func CanModify(id Identity, ownerID int64) bool {
	userID, ok := id.UserID()
	return ok && userID == ownerID
}

// AuthorizeModify проверяет право на изменение или удаление записи.
func AuthorizeModify(id Identity, ownerID int64) error {
	if _, err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !CanModify(id, ownerID) {
		return ErrForbidden
	}
	return nil
}
