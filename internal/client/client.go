// Package client は /api/v1/todo を叩く薄い HTTP クライアント。
// cmd/todo_client から使う。
package client

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
	"time"

	"github.com/google/uuid"
)

const basePath = "/api/v1/todo"

// Todo はサーバの JSON 表現そのまま
type Todo struct {
	ID        string `json:"id,omitempty"`
	TodoName  string `json:"todoName"`
	Completed bool   `json:"completed"`
}

// APIError は 2xx 以外のレスポンス
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("todo api: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound は 404 かどうか
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	hc      *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// New は "http://localhost:8080" のようなベース URL を受け取る
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Save ---
func (c *Client) Save(ctx context.Context, t Todo) (*Todo, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("todo api: encode: %w", err)
	}

	var out Todo
	if err := c.do(ctx, http.MethodPost, basePath+"/save", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- List ---
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var out []Todo
	if err := c.do(ctx, http.MethodGet, basePath+"/getall", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Todo{}
	}
	return out, nil
}

// --- Update ---
func (c *Client) UpdateCompletion(ctx context.Context, id string, completed bool) (*Todo, error) {
	p := basePath + "/update/" + url.PathEscape(id) + "?completed=" + strconv.FormatBool(completed)

	var out Todo
	if err := c.do(ctx, http.MethodPut, p, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Delete ---
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, basePath+"/delete/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("todo api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("todo api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("todo api: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ae := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			ae.Message = payload.Error
		}
		return ae
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("todo api: decode: %w", err)
	}
	return nil
}
