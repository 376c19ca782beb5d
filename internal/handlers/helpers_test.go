package handlers_test

import (
	"CardWallet/internal/config"
	"CardWallet/internal/handlers"
	"CardWallet/internal/middleware"
	"CardWallet/internal/repo"
	"CardWallet/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newTestRouter поднимает роутер поверх in-memory SQLite: handlers -> service -> repo.
func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:  "test-secret",
		TokenTTL:    time.Hour,
		RateLimit:   100,
		CORSOrigins: []string{"http://localhost:5173"},
	}
	return newTestRouterWithConfig(t, cfg), cfg
}

func newTestRouterWithConfig(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:h_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	logger := zap.NewNop().Sugar()
	userSvc := service.NewUserService(repo.NewUserRepository(db))
	cardSvc := service.NewCardService(repo.NewCardRepository(db), logger)
	return handlers.NewHandler(userSvc, cardSvc, logger, cfg).Router
}

func doJSON(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

// registerAndLogin создаёт пользователя и возвращает его токен и id.
func registerAndLogin(t *testing.T, h http.Handler, email string) (string, int64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email)
	if rr := doJSON(t, h, http.MethodPost, "/api/auth/register", body, ""); rr.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rr.Code, rr.Body.String())
	}
	rr := doJSON(t, h, http.MethodPost, "/api/auth/login", body, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
	}
	resp := decode[struct {
		Token  string `json:"token"`
		UserID int64  `json:"userId"`
	}](t, rr)
	return resp.Token, resp.UserID
}

func tokenFor(t *testing.T, userID int64, secret string) string {
	t.Helper()
	tok, err := middleware.IssueToken(userID, "ghost@example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}
