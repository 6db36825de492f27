// Package taskclient talks to the task board over HTTP.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"HDTN/models"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// APIError is a non-2xx response. Message is the server's message field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task api: status %d", e.Status)
	}
	return fmt.Sprintf("task api: status %d: %s", e.Status, e.Message)
}

// Is lets callers match on ErrBadRequest, ErrNotFound and ErrConflict.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ApplyResult is the body of a successful apply.
type ApplyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	err := c.do(ctx, http.MethodGet, "/tasks", nil, &out)
	return out, err
}

// Apply submits one application. A second call for the same pair fails with ErrConflict.
func (c *Client) Apply(ctx context.Context, userID, taskID string) (ApplyResult, error) {
	var out ApplyResult
	body := map[string]string{"userId": userID, "taskId": taskID}
	err := c.do(ctx, http.MethodPost, "/apply", body, &out)
	return out, err
}

func (c *Client) Applications(ctx context.Context, userID string) ([]models.AppliedTask, error) {
	var out []models.AppliedTask
	err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(userID), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
			Msg     string `json:"msg"`
		}
		_ = json.Unmarshal(raw, &msg)
		text := msg.Message
		if text == "" {
			text = msg.Msg
		}
		if text == "" {
			text = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: text}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
