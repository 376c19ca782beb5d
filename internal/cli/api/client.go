// Package api HTTP-клиент REST API CardWallet.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	httpClientTimeout = 15 * time.Second
	maxResponseBytes  = 4 << 20

	defaultAttempts = 3
	defaultBackoff  = 300 * time.Millisecond
)

// Client обращается к серверу CardWallet. Транспортные сбои повторяются
// до Attempts раз с задержкой Backoff·2ⁿ.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger

	Attempts int
	Backoff  time.Duration
}

// NewClient создаёт клиента для baseURL вида http://host:port.
func NewClient(baseURL string, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: httpClientTimeout},
		logger:     logger,
		Attempts:   defaultAttempts,
		Backoff:    defaultBackoff,
	}
}

// withRetry повторяет op, пока она возвращает NetworkError и попытки не исчерпаны.
func (c *Client) withRetry(ctx context.Context, op string, fn func() ([]byte, error)) ([]byte, error) {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		body, err := fn()
		if err == nil || !IsNetwork(err) {
			return body, err
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}
		delay := c.Backoff * time.Duration(1<<attempt)
		c.logger.Debugw("retrying after network error", "op", op, "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// do выполняет запрос с JSON-телом и возвращает тело успешного ответа.
func (c *Client) do(ctx context.Context, op, method, path, token string, payload any) ([]byte, error) {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		raw = b
	}

	return c.withRetry(ctx, op, func() ([]byte, error) {
		var body io.Reader
		if raw != nil {
			body = bytes.NewReader(raw)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("%s: create request: %w", op, err)
		}
		if raw != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &NetworkError{Op: op, Err: err}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, &NetworkError{Op: op, Err: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: messageOf(respBody)}
		}
		return respBody, nil
	})
}

// messageOf достаёт поле message из JSON-ошибки сервера.
func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(string(body))
}
