package service

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrNotAuthenticated операция требует входа в аккаунт.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrStaleSession результат получен для сессии, которая уже завершилась; он отброшен.
	ErrStaleSession = errors.New("session changed, result discarded")
)

// Session явное состояние аутентификации клиента. Передаётся сервисам вместо глобального состояния.
//
// Каждый вход и выход увеличивает поколение и отменяет контекст предыдущей сессии,
// поэтому запросы, начатые до выхода, прерываются, а их результаты не применяются.
type Session struct {
	mu     sync.Mutex
	api    AuthAPI
	tokens repo.TokenStore
	logger *zap.SugaredLogger

	creds      model.Credentials
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	onLogout   []func()
}

// NewSession создаёт анонимную сессию. Сохранённые данные поднимаются через Restore.
func NewSession(api AuthAPI, tokens repo.TokenStore, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Session{api: api, tokens: tokens, logger: logger}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Restore загружает сессию из TokenStore. Отсутствие сохранённой сессии не ошибка.
func (s *Session) Restore() error {
	creds, err := s.tokens.Load()
	if err != nil {
		if errors.Is(err, repo.ErrNoCredentials) {
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}
	s.mu.Lock()
	s.startLocked(creds)
	s.mu.Unlock()
	return nil
}

// startLocked начинает новое поколение сессии. Вызывать под s.mu.
func (s *Session) startLocked(creds model.Credentials) {
	s.cancel()
	s.generation++
	s.creds = creds
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

// Login выполняет вход и сохраняет сессию.
func (s *Session) Login(ctx context.Context, email, password string) (model.Credentials, error) {
	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.Credentials{}, err
	}
	if err := s.tokens.Save(creds); err != nil {
		return model.Credentials{}, fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	hadSession := s.creds.Token != ""
	s.startLocked(creds)
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()
	// вход поверх живой сессии завершает предыдущую
	if hadSession {
		for _, h := range hooks {
			h()
		}
	}
	s.logger.Infow("logged in", "user_id", creds.UserID, "email", creds.Email)
	return creds, nil
}

// Register создаёт аккаунт; вход не выполняется.
func (s *Session) Register(ctx context.Context, email, password string) (int64, error) {
	return s.api.Register(ctx, email, password)
}

// Logout отменяет контекст сессии, очищает сохранённые данные и вызывает обработчики OnLogout.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.startLocked(model.Credentials{})
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Infow("logged out")
	return nil
}

// DeleteAccount удаляет аккаунт на сервере и завершает сессию.
func (s *Session) DeleteAccount(ctx context.Context) error {
	creds := s.Credentials()
	if creds.Token == "" {
		return ErrNotAuthenticated
	}
	if err := s.api.DeleteAccount(ctx, creds.Token); err != nil {
		return err
	}
	return s.Logout()
}

// OnLogout регистрирует обработчик, вызываемый при завершении сессии (выход или повторный вход).
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Token != ""
}

func (s *Session) Credentials() model.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// Context контекст текущего поколения сессии; отменяется при выходе или новом входе.
func (s *Session) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Generation номер текущего поколения сессии.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// snapshot возвращает данные и поколение сессии одним захватом блокировки.
func (s *Session) snapshot() (model.Credentials, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, s.generation
}

// bind объединяет ctx вызывающего с контекстом сессии: отмена любого из них прерывает запрос.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	sessCtx := s.Context()
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(sessCtx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
