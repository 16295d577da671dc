package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL
	"github.com/maynagashev/goblog/internal/handlers"
	appmiddleware "github.com/maynagashev/goblog/internal/middleware"
	"github.com/maynagashev/goblog/internal/repository"
	"github.com/maynagashev/goblog/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	migrationTimeout       = 30 * time.Second
)

// Точки подмены для тестов.
var (
	newPostgresDB = repository.NewPostgresDB
	runMigrations = repository.RunMigrations
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db             *sqlx.DB
	sessionService services.SessionService
	authHandler    *handlers.AuthHandler
	postHandler    *handlers.PostHandler
	commentHandler *handlers.CommentHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера блога...")

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	deps, err := setupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	// Отложенное закрытие соединения с БД
	defer func() {
		if closeErr := deps.db.Close(); closeErr != nil {
			log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      setupRouter(deps),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if cfg.TLSEnabled() {
			log.Printf("Запуск HTTPS-сервера на порту %s (сертификат: %s, ключ: %s)", cfg.Port, cfg.CertFile, cfg.KeyFile)
			errCh <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		log.Printf("Запуск HTTP-сервера на порту %s...", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Получен сигнал завершения, останавливаем сервер...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	log.Println("Сервер остановлен")
	return nil
}

// setupDependencies подключается к БД, применяет миграции и собирает слои приложения.
func setupDependencies(cfg *config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД
	deps.db, err = newPostgresDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	log.Println("Соединение с БД успешно установлено.")

	// 2. Миграции
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()
	if err = runMigrations(ctx, deps.db); err != nil {
		if closeErr := deps.db.Close(); closeErr != nil {
			log.Printf("Ошибка закрытия соединения с БД при ошибке миграций: %v", closeErr)
		}
		return nil, fmt.Errorf("ошибка миграций БД: %w", err)
	}

	// 3. Создание репозиториев
	userRepo := repository.NewPostgresUserRepository(deps.db)
	sessionRepo := repository.NewPostgresSessionRepository(deps.db)
	postRepo := repository.NewPostgresPostRepository(deps.db)
	commentRepo := repository.NewPostgresCommentRepository(deps.db)

	// 4. Создание сервисов
	authService := services.NewAuthService(userRepo, services.NewBcryptHasher(bcrypt.DefaultCost))
	deps.sessionService = services.NewSessionService(sessionRepo, userRepo, cfg.SessionSecret, cfg.SessionTTL)
	postService := services.NewPostService(postRepo, commentRepo)
	commentService := services.NewCommentService(postRepo, commentRepo)

	// 5. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(authService, deps.sessionService, cfg.SessionTTL, cfg.TLSEnabled())
	deps.postHandler = handlers.NewPostHandler(postService)
	deps.commentHandler = handlers.NewCommentHandler(commentService)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		// Личность вызывающего определяется для всех запросов API
		r.Use(appmiddleware.SessionGate(deps.sessionService))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.authHandler.Register)
			r.Post("/login", deps.authHandler.Login)
			r.Post("/logout", deps.authHandler.Logout)
			r.With(appmiddleware.RequireAuth).Get("/me", deps.authHandler.Me)
		})

		r.Route("/posts", func(r chi.Router) {
			// Чтение доступно всем
			r.Get("/", deps.postHandler.List)
			r.Get("/{id}", deps.postHandler.Get)
			r.Get("/{id}/comments", deps.commentHandler.List)

			// Изменения требуют входа
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAuth)
				r.Post("/", deps.postHandler.Create)
				r.Put("/{id}", deps.postHandler.Update)
				r.Delete("/{id}", deps.postHandler.Delete)
				r.Post("/{id}/comments", deps.commentHandler.Create)
			})
		})
	})
	return r
}
