package service

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Мок REST API ---
type mockAPI struct{ mock.Mock }

func (m *mockAPI) ListCards(ctx context.Context, token string, userID int64) ([]model.Card, error) {
	args := m.Called(ctx, token, userID)
	if v, ok := args.Get(0).([]model.Card); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAPI) CreateCard(ctx context.Context, token string, userID int64, c model.Card) (model.Card, error) {
	args := m.Called(ctx, token, userID, c)
	return args.Get(0).(model.Card), args.Error(1)
}
func (m *mockAPI) UpdateCard(ctx context.Context, token string, userID int64, c model.Card) (model.Card, error) {
	args := m.Called(ctx, token, userID, c)
	return args.Get(0).(model.Card), args.Error(1)
}
func (m *mockAPI) DeleteCard(ctx context.Context, token string, id int64) error {
	return m.Called(ctx, token, id).Error(0)
}
func (m *mockAPI) Login(ctx context.Context, email, password string) (model.Credentials, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Credentials), args.Error(1)
}
func (m *mockAPI) Register(ctx context.Context, email, password string) (int64, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockAPI) DeleteAccount(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

var (
	_ CardAPI = (*mockAPI)(nil)
	_ AuthAPI = (*mockAPI)(nil)
)

// --- Хранилища в памяти ---
type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(k string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	return v, ok, nil
}
func (s *memStore) Set(k string, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = v
	return nil
}
func (s *memStore) Remove(k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, k)
	return nil
}
func (s *memStore) Close() error { return nil }

func (s *memStore) has(k string) bool {
	_, ok, _ := s.Get(k)
	return ok
}

var _ repo.LocalStore = (*memStore)(nil)

type memTokens struct {
	creds *model.Credentials
}

func (t *memTokens) Save(c model.Credentials) error { t.creds = &c; return nil }
func (t *memTokens) Load() (model.Credentials, error) {
	if t.creds == nil {
		return model.Credentials{}, repo.ErrNoCredentials
	}
	return *t.creds, nil
}
func (t *memTokens) Clear() error { t.creds = nil; return nil }

var testCreds = model.Credentials{Token: "tok", UserID: 7, Email: "u@example.com"}

// authedSession сессия, в которой уже выполнен вход.
func authedSession(a AuthAPI) *Session {
	s := NewSession(a, &memTokens{}, nil)
	s.mu.Lock()
	s.startLocked(testCreds)
	s.mu.Unlock()
	return s
}

// putLocal кладёт карточки в ключ неавторизованных карточек.
func putLocal(t *testing.T, st *memStore, cards ...model.Card) {
	t.Helper()
	require.NoError(t, writeList(st, repo.UnauthCardsKey, cards))
}

func bizCard(name, company string) model.Card {
	return model.Card{
		Name:    name,
		Company: company,
		Type:    model.TypeBusiness,
		Color:   model.DefaultColor,
		Email:   "jane@acme.test",
	}
}
