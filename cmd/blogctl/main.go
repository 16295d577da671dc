package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/maynagashev/goblog/internal/api"
	"github.com/maynagashev/goblog/internal/cli"
)

const (
	// Имя переменной окружения с адресом сервера.
	serverURLEnvVar  = "BLOG_SERVER_URL"
	defaultServerURL = "http://localhost:8080"
	defaultTokenFile = ".blogctl_token"
)

func main() {
	os.Exit(run())
}

func run() int {
	serverURLFlag := flag.String("server-url", "", "URL сервера блога (переопределяет "+serverURLEnvVar+")")
	tokenFileFlag := flag.String("token-file", defaultTokenFile, "Файл для хранения токена сессии")
	debugFlag := flag.Bool("debug", false, "Подробное логирование")
	flag.Parse()

	setupLogging(*debugFlag)

	serverURL := defaultServerURL
	if envURL := os.Getenv(serverURLEnvVar); envURL != "" {
		serverURL = envURL
	}
	if *serverURLFlag != "" {
		serverURL = *serverURLFlag
	}
	slog.Debug("Запуск blogctl", "server_url", serverURL, "token_file", *tokenFileFlag)

	app, err := cli.NewApp(api.NewHTTPClient(serverURL), *tokenFileFlag, os.Stdin, os.Stdout)
	if err != nil {
		slog.Error("Ошибка инициализации", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = app.Run(ctx, flag.Args()); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "Ошибка:", err)
		}
		return 1
	}
	return 0
}

// setupLogging направляет логи в stderr, чтобы не смешивать их с выводом команд.
func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logHandler))
}
