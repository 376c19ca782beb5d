// Package keyring хранит сессию CLI в системной связке ключей.
package keyring

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"encoding/json"
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// Service имя сервиса в связке ключей.
	Service = "CardWallet"
	// DefaultAccount запись, под которой лежит сессия.
	DefaultAccount = "session"
)

// Store TokenStore поверх go-keyring. Сессия хранится одной JSON-строкой.
type Store struct {
	Account string
}

var _ repo.TokenStore = Store{}

func (s Store) account() string {
	if s.Account == "" {
		return DefaultAccount
	}
	return s.Account
}

func (s Store) Save(creds model.Credentials) error {
	if creds.Token == "" {
		return errors.New("empty token")
	}
	b, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := gokeyring.Set(Service, s.account(), string(b)); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (s Store) Load() (model.Credentials, error) {
	v, err := gokeyring.Get(Service, s.account())
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return model.Credentials{}, repo.ErrNoCredentials
		}
		return model.Credentials{}, fmt.Errorf("keyring get: %w", err)
	}
	var creds model.Credentials
	if err := json.Unmarshal([]byte(v), &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("parse keyring entry: %w", err)
	}
	if creds.Token == "" {
		return model.Credentials{}, repo.ErrNoCredentials
	}
	return creds, nil
}

// Clear удаляет запись; отсутствие записи не ошибка.
func (s Store) Clear() error {
	err := gokeyring.Delete(Service, s.account())
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
