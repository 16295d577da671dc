package services

import "errors"

// Кастомные ошибки сервисного слоя.
// Ошибки политики доступа (auth.ErrUnauthenticated, auth.ErrForbidden) возвращаются как есть.
var (
	ErrValidation         = errors.New("ошибка валидации")
	ErrUsernameTaken      = errors.New("имя пользователя уже занято")
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrNotFound           = errors.New("запись не найдена")
	ErrInternal           = errors.New("внутренняя ошибка сервера")
)
