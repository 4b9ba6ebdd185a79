package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером репликации
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Code)
}

// NewClient создает новый API клиент.
// token is sent as a bearer token when not empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping проверяет доступность сервера запросом HEAD /api/v1/health
func (c *Client) Ping(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodHead, "/api/v1/health", nil, nil); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// ChangesQuery configures a changes request
type ChangesQuery struct {
	Since int64
	Limit int
	// LongPoll makes the server hold the request until a change or Timeout
	LongPoll bool
	Timeout  time.Duration
}

// Changes получает страницу ленты изменений базы db
func (c *Client) Changes(ctx context.Context, db string, q ChangesQuery) (*api.ChangesResponse, error) {
	params := url.Values{}
	params.Set("since", strconv.FormatInt(q.Since, 10))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.LongPoll {
		params.Set("feed", "longpoll")
		if q.Timeout > 0 {
			params.Set("timeout", strconv.FormatInt(q.Timeout.Milliseconds(), 10))
		}
	}

	var resp api.ChangesResponse
	path := fmt.Sprintf("/api/v1/db/%s/changes?%s", url.PathEscape(db), params.Encode())
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("changes request failed: %w", err)
	}
	return &resp, nil
}

// BulkDocs отправляет пачку документов в базу db
func (c *Client) BulkDocs(ctx context.Context, db string, docs []models.Document) (*api.BulkDocsResponse, error) {
	var resp api.BulkDocsResponse
	path := fmt.Sprintf("/api/v1/db/%s/bulk_docs", url.PathEscape(db))
	if err := c.doRequest(ctx, http.MethodPost, path, api.BulkDocsRequest{Docs: docs}, &resp); err != nil {
		return nil, fmt.Errorf("bulk docs request failed: %w", err)
	}
	return &resp, nil
}

// Databases возвращает базы на сервере, доступные по токену
func (c *Client) Databases(ctx context.Context) ([]api.DatabaseInfo, error) {
	var resp api.DatabasesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/db", nil, &resp); err != nil {
		return nil, fmt.Errorf("databases request failed: %w", err)
	}
	return resp.Databases, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
