package commands

import (
	"CardWallet/internal/cli/bootstrap"
	"CardWallet/internal/config"

	"go.uber.org/zap"
)

// Logger логгер команд; main заменяет его на настоящий.
var Logger = zap.NewNop().Sugar()

// openApp собирает зависимости для одной команды.
func openApp(cfg *config.Config) (*bootstrap.App, func(), error) {
	app, closeFn, err := bootstrap.NewApp(cfg, Logger)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		if err := closeFn(); err != nil {
			Logger.Warnw("close local store", "error", err)
		}
	}
	return app, done, nil
}
