// Package encrypted оборачивает LocalStore шифрованием значений (AES-GCM).
package encrypted

import (
	"CardWallet/internal/cli/crypto"
	"CardWallet/internal/cli/repo"
	"errors"
	"fmt"
)

// Store шифрует значения перед записью во вложенное хранилище.
// Ключи остаются открытыми: по ним идёт поиск.
type Store struct {
	inner repo.LocalStore
	key   []byte
}

var _ repo.LocalStore = (*Store)(nil)

// New создаёт обёртку над inner с ключом длиной 32 байта.
func New(inner repo.LocalStore, key []byte) (*Store, error) {
	if inner == nil {
		return nil, errors.New("nil inner store")
	}
	if len(key) != 32 {
		return nil, errors.New("invalid key length")
	}
	return &Store{inner: inner, key: key}, nil
}

// Get расшифровывает значение. Неудачная расшифровка (чужой ключ, повреждённые данные)
// возвращается как ошибка; вызывающий код трактует её как повреждённое значение.
func (s *Store) Get(key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	plain, err := crypto.Open(sealed, s.key)
	if err != nil {
		return nil, true, fmt.Errorf("decrypt %q: %w: %v", key, repo.ErrCorruptValue, err)
	}
	return plain, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	sealed, err := crypto.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("encrypt %q: %w", key, err)
	}
	return s.inner.Set(key, sealed)
}

func (s *Store) Remove(key string) error { return s.inner.Remove(key) }

func (s *Store) Close() error { return s.inner.Close() }
