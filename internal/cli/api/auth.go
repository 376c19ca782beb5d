package api

import (
	"CardWallet/internal/cli/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/auth/login; возвращает токен и данные пользователя.
func (c *Client) Login(ctx context.Context, email, password string) (model.Credentials, error) {
	body, err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", "", credentialsRequest{Email: email, Password: password})
	if err != nil {
		return model.Credentials{}, err
	}
	var creds model.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("login: decode response: %w", err)
	}
	if creds.Token == "" {
		return model.Credentials{}, fmt.Errorf("login: empty token in response")
	}
	if creds.Email == "" {
		creds.Email = email
	}
	return creds, nil
}

// Register POST /api/auth/register; возвращает id нового пользователя.
func (c *Client) Register(ctx context.Context, email, password string) (int64, error) {
	body, err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", "", credentialsRequest{Email: email, Password: password})
	if err != nil {
		return 0, err
	}
	var resp struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("register: decode response: %w", err)
	}
	return resp.UserID, nil
}

// DeleteAccount DELETE /api/users/me; сервер удаляет пользователя вместе с карточками.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	_, err := c.do(ctx, "delete account", http.MethodDelete, "/api/users/me", token, nil)
	return err
}
