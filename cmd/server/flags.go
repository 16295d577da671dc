package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

const (
	// Порт по умолчанию (непривилегированный).
	defaultServerPort = "8080"
	// Время жизни сессии по умолчанию.
	defaultSessionTTL = 24 * time.Hour

	// Переменные окружения.
	envServerPort    = "SERVER_PORT"
	envTLSCertFile   = "TLS_CERT_FILE"
	envTLSKeyFile    = "TLS_KEY_FILE"
	envDatabaseDSN   = "DATABASE_DSN"
	envSessionSecret = "SESSION_SECRET" //nolint:gosec // Это имя переменной окружения, а не секрет
	envSessionTTL    = "SESSION_TTL"
)

// config хранит конфигурацию сервера.
type config struct {
	Port          string
	CertFile      string
	KeyFile       string
	DatabaseDSN   string
	SessionSecret string
	SessionTTL    time.Duration
}

// TLSEnabled сообщает, заданы ли сертификат и ключ.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Флаги имеют приоритет над переменными окружения.
func parseFlags() (*config, error) {
	cfg := &config{}
	var sessionTTL string

	// Определяем флаги
	flag.StringVar(&cfg.Port, "port", "",
		fmt.Sprintf("Порт для запуска сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	flag.StringVar(&cfg.CertFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата (env: %s)", envTLSCertFile))
	flag.StringVar(&cfg.KeyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа (env: %s)", envTLSKeyFile))
	flag.StringVar(&cfg.DatabaseDSN, "database-dsn", "",
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	flag.StringVar(&cfg.SessionSecret, "session-secret", "",
		fmt.Sprintf("Секрет для подписи токенов сессий (env: %s)", envSessionSecret))
	flag.StringVar(&sessionTTL, "session-ttl", "",
		fmt.Sprintf("Время жизни сессии (env: %s, default: %s)", envSessionTTL, defaultSessionTTL))

	// Парсим флаги
	flag.Parse()

	// Применяем переменные окружения, если флаги не заданы
	cfg.Port = valueOrEnv(cfg.Port, envServerPort)
	if cfg.Port == "" {
		cfg.Port = defaultServerPort
	}
	cfg.CertFile = valueOrEnv(cfg.CertFile, envTLSCertFile)
	cfg.KeyFile = valueOrEnv(cfg.KeyFile, envTLSKeyFile)
	cfg.DatabaseDSN = valueOrEnv(cfg.DatabaseDSN, envDatabaseDSN)
	cfg.SessionSecret = valueOrEnv(cfg.SessionSecret, envSessionSecret)

	cfg.SessionTTL = defaultSessionTTL
	if sessionTTL = valueOrEnv(sessionTTL, envSessionTTL); sessionTTL != "" {
		ttl, err := time.ParseDuration(sessionTTL)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("неверное время жизни сессии '%s' (--session-ttl или %s)", sessionTTL, envSessionTTL)
		}
		cfg.SessionTTL = ttl
	}

	// Проверяем обязательные параметры
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, errors.New("для TLS нужны и сертификат, и ключ (--cert-file/" + envTLSCertFile +
			", --key-file/" + envTLSKeyFile + ")")
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("не указан секрет сессий (--session-secret или " + envSessionSecret + ")")
	}

	return cfg, nil
}

// valueOrEnv возвращает value, а если оно пустое - значение переменной окружения key.
func valueOrEnv(value, key string) string {
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(key); ok {
		return env
	}
	return ""
}
