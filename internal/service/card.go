package service

import (
	"CardWallet/internal/model"
	"CardWallet/internal/repo"
	"context"
	"errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	listCacheTTL     = 5 * time.Minute
	listCacheCleanup = 10 * time.Minute
)

// CardService бизнес-логика карточек: валидация, CRUD и кэш списков по пользователю.
type CardService struct {
	repo   repo.CardRepository
	cache  *gocache.Cache
	logger *zap.SugaredLogger
}

func NewCardService(r repo.CardRepository, logger *zap.SugaredLogger) *CardService {
	return &CardService{
		repo:   r,
		cache:  gocache.New(listCacheTTL, listCacheCleanup),
		logger: logger,
	}
}

func cacheKey(userID int64) string { return strconv.FormatInt(userID, 10) }

// List возвращает карточки пользователя; повторные запросы обслуживаются из кэша.
func (s *CardService) List(ctx context.Context, userID int64) ([]model.Card, error) {
	if x, found := s.cache.Get(cacheKey(userID)); found {
		cached := x.([]model.Card)
		return append([]model.Card(nil), cached...), nil
	}
	cards, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey(userID), append([]model.Card(nil), cards...), gocache.DefaultExpiration)
	return cards, nil
}

// Get возвращает одну карточку владельца.
func (s *CardService) Get(ctx context.Context, userID, id int64) (*model.Card, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

// Create проверяет обязательные поля и создаёт карточку.
func (s *CardService) Create(ctx context.Context, userID int64, in CardInput) (*model.Card, error) {
	if in.Name == nil || *in.Name == "" || in.CardType == nil || *in.CardType == "" {
		return nil, validation("Card name and type are required.")
	}
	if !model.IsValidCardType(*in.CardType) {
		return nil, ErrUnsupportedType
	}

	c := &model.Card{UserID: userID, CardColor: model.DefaultCardColor}
	in.apply(c)
	if c.CardColor == "" {
		c.CardColor = model.DefaultCardColor
	}
	// «моя карточка» всегда визитка
	if c.IsMyCard {
		c.CardType = model.CardTypeBusiness
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.Forget(userID)
	s.logger.Debugw("card created", "user_id", userID, "card_id", c.ID)
	return c, nil
}

// Update применяет переданные поля к карточке владельца.
func (s *CardService) Update(ctx context.Context, userID, id int64, in CardInput) (*model.Card, error) {
	updates := in.updates()
	if len(updates) == 0 {
		return nil, validation("No fields to update provided.")
	}
	if (in.Name != nil && *in.Name == "") || (in.CardType != nil && *in.CardType == "") {
		return nil, validation("Card name and type cannot be empty.")
	}
	if in.CardType != nil && !model.IsValidCardType(*in.CardType) {
		return nil, ErrUnsupportedType
	}
	if in.IsMyCard != nil && *in.IsMyCard {
		updates["card_type"] = model.CardTypeBusiness
	}

	c, err := s.repo.Update(ctx, userID, id, updates)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.Forget(userID)
	return c, nil
}

// Delete удаляет карточку владельца.
func (s *CardService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapNotFound(err)
	}
	s.Forget(userID)
	return nil
}

// Forget сбрасывает кэш списка пользователя (после изменений и удаления аккаунта).
func (s *CardService) Forget(userID int64) {
	s.cache.Delete(cacheKey(userID))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCardNotFound
	}
	return err
}
