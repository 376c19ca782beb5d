package service

import (
	"CardWallet/internal/cli/model"
	"context"
)

// AuthAPI серверные операции аутентификации.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.Credentials, error)
	Register(ctx context.Context, email, password string) (int64, error)
	DeleteAccount(ctx context.Context, token string) error
}

// SyncAPI то, что нужно синхронизации: чтение списка и создание карточек.
type SyncAPI interface {
	ListCards(ctx context.Context, token string, userID int64) ([]model.Card, error)
	CreateCard(ctx context.Context, token string, userID int64, c model.Card) (model.Card, error)
}

// CardAPI полный набор REST-операций над карточками.
type CardAPI interface {
	SyncAPI
	UpdateCard(ctx context.Context, token string, userID int64, c model.Card) (model.Card, error)
	DeleteCard(ctx context.Context, token string, id int64) error
}

// CardSink получает карточки, созданные синхронизацией; реализуется CardService.
type CardSink interface {
	Created(c model.Card)
}
