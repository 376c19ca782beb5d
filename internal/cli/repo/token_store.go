package repo

import (
	"CardWallet/internal/cli/model"
	"errors"
)

// ErrNoCredentials сохранённой сессии нет.
var ErrNoCredentials = errors.New("no stored credentials")

// TokenStore описывает абстракцию хранилища сессии (токен, id и email пользователя) на клиенте.
type TokenStore interface {
	Save(creds model.Credentials) error
	// Load возвращает ErrNoCredentials, если сессия не сохранена.
	Load() (model.Credentials, error)
	Clear() error
}
