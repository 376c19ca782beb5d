// Package bootstrap собирает зависимости клиента из конфигурации.
package bootstrap

import (
	"CardWallet/internal/cli/api"
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/crypto"
	"CardWallet/internal/cli/repo"
	boltrepo "CardWallet/internal/cli/repo/bolt"
	"CardWallet/internal/cli/repo/encrypted"
	fsrepo "CardWallet/internal/cli/repo/fs"
	keyringrepo "CardWallet/internal/cli/repo/keyring"
	reposqlite "CardWallet/internal/cli/repo/sqlite"
	"CardWallet/internal/cli/service"
	"CardWallet/internal/config"
	"fmt"

	"go.uber.org/zap"
)

// OpenLocalStore открывает локальное хранилище выбранного бэкенда;
// при EncryptCache значения шифруются ключом из файла рядом с хранилищем.
func OpenLocalStore(cfg *config.Config) (repo.LocalStore, error) {
	var (
		st  repo.LocalStore
		err error
	)
	switch cfg.ClientStore {
	case config.StoreBolt:
		st, err = boltrepo.Open(cfg.ClientDBPath)
	default:
		st, err = reposqlite.Open(cfg.ClientDBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if !cfg.EncryptCache {
		return st, nil
	}
	key, err := crypto.LoadOrCreateKey(crypto.KeyPathFor(cfg.ClientDBPath))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load store key: %w", err)
	}
	enc, err := encrypted.New(st, key)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return enc, nil
}

// OpenTokenStore хранилище сессии: файл или системная связка ключей.
func OpenTokenStore(cfg *config.Config) repo.TokenStore {
	if cfg.TokenStore == config.TokenStoreKeyring {
		return keyringrepo.Store{}
	}
	return fsrepo.AuthFSStore{Path: cfg.TokenFile}
}

// App зависимости одной команды CLI.
type App struct {
	API        *api.Client
	Store      repo.LocalStore
	Session    *service.Session
	Cards      *service.CardService
	Reconciler *service.Reconciler
	Logger     *zap.SugaredLogger
}

// NewApp открывает хранилища, восстанавливает сессию и собирает сервисы.
// Возвращаемую функцию нужно вызвать по завершении, чтобы закрыть хранилище.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	card.SetLogger(logger)

	st, err := OpenLocalStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	client := api.NewClient(cfg.ServerURL, logger)
	sess := service.NewSession(client, OpenTokenStore(cfg), logger)
	if err := sess.Restore(); err != nil {
		logger.Warnw("stored session ignored", "error", err)
	}

	cards := service.NewCardService(sess, client, st, logger)
	reconciler := service.NewReconciler(sess, client, st, cfg.SyncDelay, logger)
	reconciler.SetCardSink(cards)

	app := &App{
		API:        client,
		Store:      st,
		Session:    sess,
		Cards:      cards,
		Reconciler: reconciler,
		Logger:     logger,
	}
	return app, st.Close, nil
}
