package sqlite

import (
	"CardWallet/internal/cli/repo"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// KVStoreSQLite — локальное key/value хранилище клиента в файле SQLite.
type KVStoreSQLite struct {
	db *sql.DB
}

var _ repo.LocalStore = (*KVStoreSQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД по пути path и применяет миграции.
func Open(path string) (*KVStoreSQLite, error) {
	if path == "" {
		return nil, errors.New("empty client db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// одно соединение: запись последовательная, без SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &KVStoreSQLite{db: db}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate client db: %w", err)
	}
	return s, nil
}

// Close закрывает соединение с БД.
func (s *KVStoreSQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (s *KVStoreSQLite) Migrate() error {
	_, err := s.db.Exec(initialDDL())
	return err
}

// Get возвращает значение по ключу.
func (s *KVStoreSQLite) Get(key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// Set вставляет или заменяет значение.
func (s *KVStoreSQLite) Set(key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(`INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}

// Remove удаляет ключ.
func (s *KVStoreSQLite) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
