// Package bolt реализует локальное хранилище клиента поверх bbolt.
package bolt

import (
	"CardWallet/internal/cli/repo"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dirPerm  = fs.FileMode(0o700)
	filePerm = fs.FileMode(0o600)

	// openTimeout сколько ждать файловую блокировку, если БД открыта другим процессом.
	openTimeout = 2 * time.Second
)

var kvBucket = []byte("kv")

// KVStoreBolt хранит значения в одном bucket, ключ = ключ хранилища.
type KVStoreBolt struct {
	db *bolt.DB
}

var _ repo.LocalStore = (*KVStoreBolt)(nil)

// Open открывает файл bbolt по пути path, создавая его и bucket при необходимости.
func Open(path string) (*KVStoreBolt, error) {
	if path == "" {
		return nil, errors.New("empty client db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := bolt.Open(path, filePerm, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing bolt store: %w", err)
	}

	return &KVStoreBolt{db: db}, nil
}

// Close закрывает БД.
func (s *KVStoreBolt) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get возвращает копию значения: память bbolt валидна только внутри транзакции.
func (s *KVStoreBolt) Get(key string) ([]byte, bool, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(kvBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		out = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

// Set записывает значение.
func (s *KVStoreBolt) Set(key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), value)
	})
}

// Remove удаляет ключ.
func (s *KVStoreBolt) Remove(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
}
