package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const tokenFilePermissions = 0o600

// loadToken читает сохраненный токен. Отсутствие файла - не ошибка.
func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("ошибка чтения файла токена: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// saveToken сохраняет токен в файл, доступный только владельцу.
func saveToken(path, token string) error {
	if err := os.WriteFile(path, []byte(token+"\n"), tokenFilePermissions); err != nil {
		return fmt.Errorf("ошибка записи файла токена: %w", err)
	}
	return nil
}

// removeToken удаляет файл токена. Отсутствие файла - не ошибка.
func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла токена: %w", err)
	}
	return nil
}
