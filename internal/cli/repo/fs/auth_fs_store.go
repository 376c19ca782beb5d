package fs

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AuthFSStore — файловое хранилище сессии CLI (токен, id и email пользователя).
type AuthFSStore struct {
	Path string
}

var _ repo.TokenStore = AuthFSStore{}

// Save сохраняет сессию в файл с правами 0600.
func (s AuthFSStore) Save(creds model.Credentials) error {
	if s.Path == "" {
		return errors.New("empty token file path")
	}
	if creds.Token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o600)
}

// Load читает сессию из файла. Файл с одним токеном (без JSON) тоже принимается.
func (s AuthFSStore) Load() (model.Credentials, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Credentials{}, repo.ErrNoCredentials
		}
		return model.Credentials{}, err
	}
	// обрезаем переводы строки/пробелы
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return model.Credentials{}, repo.ErrNoCredentials
	}
	if b[0] != '{' {
		return model.Credentials{Token: string(b)}, nil
	}
	var creds model.Credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("parse token file: %w", err)
	}
	if creds.Token == "" {
		return model.Credentials{}, repo.ErrNoCredentials
	}
	return creds, nil
}

// Clear удаляет файл сессии; отсутствие файла не ошибка.
func (s AuthFSStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
