package commands

import (
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"CardWallet/internal/config"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "u@example.com"
	testPassword = "secret"
	testToken    = "tok"
	testUserID   = 1
)

type fakeCard struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"userId"`
	card.ServerCard
}

// fakeServer минимальный сервер карточек для проверки команд целиком.
type fakeServer struct {
	mu     sync.Mutex
	cards  []fakeCard
	nextID int64
	*httptest.Server
}

func newFakeServer(t *testing.T, initial ...card.ServerCard) *fakeServer {
	t.Helper()
	fs := &fakeServer{nextID: 100}
	for _, c := range initial {
		fs.add(c)
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token."})
			return false
		}
		return true
	}

	r := chi.NewRouter()
	r.Post("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"userId": testUserID})
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials."})
			return
		}
		writeJSON(w, http.StatusOK, model.Credentials{Token: testToken, UserID: testUserID, Email: req.Email})
	})
	r.Get("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, fs.list())
	})
	r.Post("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		var in card.ServerCard
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, fs.add(in))
	})
	r.Put("/api/cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		var in card.ServerCard
		_ = json.NewDecoder(r.Body).Decode(&in)
		out, ok := fs.update(id, in)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Card not found or access denied."})
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Delete("/api/cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if !fs.remove(id) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Card not found or access denied."})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Delete("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		fs.mu.Lock()
		fs.cards = nil
		fs.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) add(c card.ServerCard) fakeCard {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.nextID++
	fc := fakeCard{ID: fs.nextID, UserID: testUserID, ServerCard: c}
	fs.cards = append(fs.cards, fc)
	return fc
}

func (fs *fakeServer) update(id int64, c card.ServerCard) (fakeCard, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.cards {
		if fs.cards[i].ID == id {
			fs.cards[i].ServerCard = c
			return fs.cards[i], true
		}
	}
	return fakeCard{}, false
}

func (fs *fakeServer) remove(id int64) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.cards {
		if fs.cards[i].ID == id {
			fs.cards = append(fs.cards[:i], fs.cards[i+1:]...)
			return true
		}
	}
	return false
}

func (fs *fakeServer) list() []fakeCard {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append(make([]fakeCard, 0, len(fs.cards)), fs.cards...)
}

// withTempConfig конфигурация клиента с хранилищем и токеном во временном каталоге.
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerURL:    serverURL,
		ClientDBPath: filepath.Join(dir, "cw.db"),
		ClientStore:  config.StoreSQLite,
		TokenFile:    filepath.Join(dir, "token"),
		TokenStore:   config.TokenStoreFile,
	}
}

// captureIO подменяет Out и In на время теста и возвращает буфер вывода.
func captureIO(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	prevOut, prevIn := Out, In
	buf := &bytes.Buffer{}
	Out = buf
	In = strings.NewReader(input)
	t.Cleanup(func() {
		Out = prevOut
		In = prevIn
	})
	return buf
}

// run выполняет команду через Dispatch и возвращает код выхода.
func run(t *testing.T, cfg *config.Config, args ...string) int {
	t.Helper()
	return Dispatch(context.Background(), cfg, args)
}

// putLocalCards кладёт карточки в хранилище гостевого режима.
func putLocalCards(t *testing.T, cfg *config.Config, cards ...model.Card) {
	t.Helper()
	app, done, err := openApp(cfg)
	require.NoError(t, err)
	defer done()
	raw, err := card.EncodeList(cards)
	require.NoError(t, err)
	require.NoError(t, app.Store.Set(repo.UnauthCardsKey, raw))
}

func serverCard(name, company, notes string) card.ServerCard {
	return card.ServerCard{Name: name, CompanyName: company, CardType: string(model.TypeReward), Notes: notes, CardColor: model.DefaultColor}
}
