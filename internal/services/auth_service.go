package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/models"
)

// AuthService - хранилище учетных данных: регистрация и проверка пароля.
type AuthService interface {
	Register(ctx context.Context, username, password string) (int64, error)
	// Verify возвращает ID пользователя. Для неизвестного имени и неверного пароля
	// возвращается одна и та же ошибка ErrInvalidCredentials.
	Verify(ctx context.Context, username, password string) (int64, error)
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

// maxPasswordBytes - предел длины пароля, который принимает bcrypt.
const maxPasswordBytes = 72

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	// Хеш для сравнения, когда пользователь не найден: время ответа
	// не должно зависеть от существования имени.
	dummyHash string
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher) AuthService {
	dummyHash, err := hasher.Hash("goblog-dummy-password")
	if err != nil {
		log.Printf("[AuthService] Не удалось вычислить фиктивный хеш: %v", err)
	}
	return &authService{userRepo: userRepo, hasher: hasher, dummyHash: dummyHash}
}

// Register регистрирует нового пользователя.
func (s *authService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: имя пользователя обязательно", ErrValidation)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: пароль обязателен", ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return 0, fmt.Errorf("%w: пароль длиннее %d байт", ErrValidation, maxPasswordBytes)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		log.Printf("[AuthService] Ошибка хеширования пароля для '%s': %v", username, err)
		return 0, fmt.Errorf("%w при хешировании пароля", ErrInternal)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Printf("[AuthService] Попытка регистрации с занятым именем: %s", username)
			return 0, ErrUsernameTaken
		}
		log.Printf("[AuthService] Непредвиденная ошибка репозитория при регистрации '%s': %v", username, err)
		return 0, fmt.Errorf("%w при создании пользователя", ErrInternal)
	}

	log.Printf("[AuthService] Пользователь '%s' успешно зарегистрирован (ID: %d)", username, userID)
	return userID, nil
}

// Verify проверяет имя пользователя и пароль.
func (s *authService) Verify(ctx context.Context, username, password string) (int64, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("[AuthService] Попытка входа несуществующего пользователя: %s", username)
			s.hasher.Verify(s.dummyHash, password)
			return 0, ErrInvalidCredentials
		}
		log.Printf("[AuthService] Ошибка репозитория при поиске '%s': %v", username, err)
		return 0, fmt.Errorf("%w при поиске пользователя", ErrInternal)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		log.Printf("[AuthService] Неверный пароль для пользователя: %s", username)
		return 0, ErrInvalidCredentials
	}

	log.Printf("[AuthService] Пользователь '%s' успешно аутентифицирован", username)
	return user.ID, nil
}
