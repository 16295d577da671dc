// Package cli реализует команды консольного клиента блога.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/maynagashev/goblog/internal/api"
	"github.com/maynagashev/goblog/models"
)

// ErrUsage - команда вызвана с неверными аргументами.
var ErrUsage = errors.New("неверное использование команды")

// App связывает API-клиент, файл токена и ввод-вывод терминала.
type App struct {
	client    api.Client
	tokenFile string
	in        *bufio.Reader
	out       io.Writer
}

// NewApp создает приложение. Токен из tokenFile (если есть) сразу передается клиенту.
func NewApp(client api.Client, tokenFile string, in io.Reader, out io.Writer) (*App, error) {
	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	if token != "" {
		client.SetAuthToken(token)
		slog.Debug("Загружен сохраненный токен", "path", tokenFile)
	}
	return &App{client: client, tokenFile: tokenFile, in: bufio.NewReader(in), out: out}, nil
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {"register [username]", (*App).register},
	"login":    {"login [username]", (*App).login},
	"logout":   {"logout", (*App).logout},
	"whoami":   {"whoami", (*App).whoami},
	"list":     {"list [query]", (*App).list},
	"show":     {"show <id>", (*App).show},
	"post":     {"post -title T [-body B]", (*App).post},
	"edit":     {"edit <id> -title T [-body B]", (*App).edit},
	"delete":   {"delete <id>", (*App).deletePost},
	"comment":  {"comment <id> -body B", (*App).comment},
}

// Run выполняет подкоманду args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return ErrUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: неизвестная команда %q", ErrUsage, args[0])
	}

	slog.Debug("Выполнение команды", "command", args[0])
	if err := cmd.run(a, ctx, args[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			_, _ = fmt.Fprintf(a.out, "Использование: blogctl %s\n", cmd.usage)
		}
		return err
	}
	return nil
}

func (a *App) printUsage() {
	_, _ = fmt.Fprintln(a.out, "Команды:")
	for _, name := range []string{
		"register", "login", "logout", "whoami", "list", "show", "post", "edit", "delete", "comment",
	} {
		_, _ = fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

// credentials берет имя из аргумента (или спрашивает) и читает пароль без эха.
func (a *App) credentials(args []string) (string, string, error) {
	var (
		username string
		err      error
	)
	if len(args) > 0 {
		username = args[0]
	} else if username, err = readLine(a.in, "Имя пользователя", a.out); err != nil {
		return "", "", err
	}

	password, err := readSecret("Пароль", a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	id, err := a.client.Register(ctx, username, password)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Пользователь %s зарегистрирован (ID %d)\n", username, id)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err = saveToken(a.tokenFile, token); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Вход выполнен: %s\n", username)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if a.client.AuthToken() != "" {
		if err := a.client.Logout(ctx); err != nil {
			// Локальный токен удаляется даже если сервер недоступен
			slog.Warn("Ошибка выхода на сервере", "error", err)
		}
	}
	if err := removeToken(a.tokenFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, "Выход выполнен")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "%s (ID %d)\n", user.Username, user.ID)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	posts, err := a.client.ListPosts(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		_, _ = fmt.Fprintln(a.out, "Постов нет")
		return nil
	}
	for _, p := range posts {
		_, _ = fmt.Fprintf(a.out, "#%d %s (%s, %s)\n", p.ID, p.Title, p.Username, p.Created.Format("2006-01-02"))
	}
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	detail, err := a.client.GetPost(ctx, id)
	if err != nil {
		return err
	}
	printPost(a.out, detail)
	return nil
}

func (a *App) post(ctx context.Context, args []string) error {
	input, err := parsePostFlags("post", args)
	if err != nil {
		return err
	}

	id, err := a.client.CreatePost(ctx, input)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Пост #%d создан\n", id)
	return nil
}

func (a *App) edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	input, err := parsePostFlags("edit", args[1:])
	if err != nil {
		return err
	}

	if err = a.client.UpdatePost(ctx, id, input); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Пост #%d изменен\n", id)
	return nil
}

func (a *App) deletePost(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err = a.client.DeletePost(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Пост #%d удален\n", id)
	return nil
}

func (a *App) comment(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("comment", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	body := fs.String("body", "", "Текст комментария")
	if err = fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *body == "" {
		if *body, err = readLine(a.in, "Комментарий", a.out); err != nil {
			return err
		}
	}

	commentID, err := a.client.AddComment(ctx, id, *body)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Комментарий #%d добавлен к посту #%d\n", commentID, id)
	return nil
}

// parseID разбирает первый аргумент как ID записи.
func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: не указан ID поста", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: неверный ID поста %q", ErrUsage, args[0])
	}
	return id, nil
}

// parsePostFlags разбирает флаги -title и -body.
func parsePostFlags(name string, args []string) (models.PostInput, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "Заголовок поста")
	body := fs.String("body", "", "Текст поста")
	if err := fs.Parse(args); err != nil {
		return models.PostInput{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return models.PostInput{Title: *title, Body: *body}, nil
}

func printPost(w io.Writer, detail *models.PostDetail) {
	_, _ = fmt.Fprintf(w, "#%d %s\n", detail.ID, detail.Title)
	_, _ = fmt.Fprintf(w, "%s, %s\n\n", detail.Username, detail.Created.Format("2006-01-02 15:04"))
	if detail.Body != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", detail.Body)
	}
	_, _ = fmt.Fprintf(w, "Комментарии (%d):\n", len(detail.Comments))
	for _, c := range detail.Comments {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", c.Username, c.Body)
	}
}
