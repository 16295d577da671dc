// Package api содержит HTTP-клиент сервера блога.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maynagashev/goblog/models"
)

// Ошибки, которые клиент различает по статусу ответа.
var (
	// ErrAuthorization сигнализирует об ошибке авторизации (401).
	ErrAuthorization = errors.New("ошибка авторизации")
	// ErrForbidden - запись принадлежит другому пользователю (403).
	ErrForbidden = errors.New("доступ запрещен")
	// ErrNotFound - запись не найдена (404).
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict - имя пользователя занято (409).
	ErrConflict = errors.New("конфликт данных")
	// ErrBadRequest - сервер отклонил входные данные (400).
	ErrBadRequest = errors.New("неверный запрос")
)

// Максимальный размер тела ответа с ошибкой, который читает клиент.
const maxErrorBodySize = 4096

// Client определяет интерфейс для взаимодействия с API сервера блога.
type Client interface {
	// Register регистрирует нового пользователя и возвращает его ID.
	Register(ctx context.Context, username, password string) (int64, error)
	// Login аутентифицирует пользователя и возвращает токен сессии.
	Login(ctx context.Context, username, password string) (string, error)
	// Logout завершает текущую сессию на сервере.
	Logout(ctx context.Context) error
	// Me возвращает текущего пользователя.
	Me(ctx context.Context) (*models.User, error)
	// ListPosts возвращает ленту постов. Непустой query включает поиск по тексту.
	ListPosts(ctx context.Context, query string) ([]models.Post, error)
	// GetPost возвращает пост с комментариями.
	GetPost(ctx context.Context, id int64) (*models.PostDetail, error)
	// CreatePost создает пост и возвращает его ID.
	CreatePost(ctx context.Context, input models.PostInput) (int64, error)
	// UpdatePost меняет заголовок и текст поста.
	UpdatePost(ctx context.Context, id int64, input models.PostInput) error
	// DeletePost удаляет пост.
	DeletePost(ctx context.Context, id int64) error
	// AddComment добавляет комментарий к посту и возвращает его ID.
	AddComment(ctx context.Context, postID int64, body string) (int64, error)
	// SetAuthToken устанавливает токен для аутентифицированных запросов.
	SetAuthToken(token string)
	// AuthToken возвращает текущий токен (пустой, если вход не выполнен).
	AuthToken() string
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:8080"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	authToken  string       // Токен сессии для аутентифицированных запросов
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Register отправляет запрос на регистрацию на сервер.
func (c *httpClient) Register(ctx context.Context, username, password string) (int64, error) {
	var resp models.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil,
		models.RegisterRequest{Username: username, Password: password},
		http.StatusCreated, &resp)
	if err != nil {
		return 0, fmt.Errorf("ошибка регистрации: %w", err)
	}
	return resp.ID, nil
}

// Login отправляет запрос на вход на сервер и сохраняет токен.
func (c *httpClient) Login(ctx context.Context, username, password string) (string, error) {
	var loginResponse models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		models.LoginRequest{Username: username, Password: password},
		http.StatusOK, &loginResponse)
	if err != nil {
		return "", fmt.Errorf("ошибка входа: %w", err)
	}

	if loginResponse.Token == "" {
		return "", errors.New("сервер вернул пустой токен")
	}

	// Сохраняем токен в клиенте для последующих запросов
	c.authToken = loginResponse.Token
	return loginResponse.Token, nil
}

// Logout завершает сессию. Локальный токен сбрасывается в любом случае.
func (c *httpClient) Logout(ctx context.Context) error {
	defer func() { c.authToken = "" }()
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("ошибка выхода: %w", err)
	}
	return nil
}

func (c *httpClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, http.StatusOK, &user); err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return &user, nil
}

func (c *httpClient) ListPosts(ctx context.Context, query string) ([]models.Post, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", params, nil, http.StatusOK, &posts); err != nil {
		return nil, fmt.Errorf("ошибка получения постов: %w", err)
	}
	return posts, nil
}

func (c *httpClient) GetPost(ctx context.Context, id int64) (*models.PostDetail, error) {
	var detail models.PostDetail
	if err := c.do(ctx, http.MethodGet, postPath(id), nil, nil, http.StatusOK, &detail); err != nil {
		return nil, fmt.Errorf("ошибка получения поста %d: %w", id, err)
	}
	return &detail, nil
}

func (c *httpClient) CreatePost(ctx context.Context, input models.PostInput) (int64, error) {
	var created models.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, input, http.StatusCreated, &created); err != nil {
		return 0, fmt.Errorf("ошибка создания поста: %w", err)
	}
	return created.ID, nil
}

func (c *httpClient) UpdatePost(ctx context.Context, id int64, input models.PostInput) error {
	if err := c.do(ctx, http.MethodPut, postPath(id), nil, input, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("ошибка изменения поста %d: %w", id, err)
	}
	return nil
}

func (c *httpClient) DeletePost(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, postPath(id), nil, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("ошибка удаления поста %d: %w", id, err)
	}
	return nil
}

func (c *httpClient) AddComment(ctx context.Context, postID int64, body string) (int64, error) {
	var created models.CreatedResponse
	err := c.do(ctx, http.MethodPost, postPath(postID)+"/comments", nil,
		models.CommentInput{Body: body}, http.StatusCreated, &created)
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления комментария к посту %d: %w", postID, err)
	}
	return created.ID, nil
}

// SetAuthToken устанавливает токен аутентификации для клиента.
func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

func (c *httpClient) AuthToken() string {
	return c.authToken
}

func postPath(id int64) string {
	return "/api/posts/" + strconv.FormatInt(id, 10)
}

// do выполняет запрос с JSON-телом in и декодирует ответ в out (если out не nil).
// Статус, отличный от expected, превращается в ошибку с текстом ответа сервера.
func (c *httpClient) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	in any,
	expected int,
	out any,
) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL: %w", err)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		jsonData, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return fmt.Errorf("ошибка кодирования запроса: %w", marshalErr)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return statusError(resp)
	}

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("ошибка декодирования ответа: %w", err)
		}
	}
	return nil
}

// statusError сопоставляет статус ответа с ошибкой и добавляет сообщение сервера.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := strings.TrimSpace(string(data))

	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = ErrBadRequest
	case http.StatusUnauthorized:
		kind = ErrAuthorization
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	default:
		return fmt.Errorf("неожиданный статус %d: %s", resp.StatusCode, message)
	}

	if message == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, message)
}
