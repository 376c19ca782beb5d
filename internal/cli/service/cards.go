package service

import (
	"CardWallet/internal/cli/api"
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCardNotFound карточки с таким id нет в локальном списке.
var ErrCardNotFound = errors.New("card not found")

// CardService CRUD над карточками в двух режимах: без входа всё хранится локально,
// после входа операции идут через REST API, а локально держится кэш пользователя.
type CardService struct {
	mu      sync.Mutex
	session *Session
	api     CardAPI
	store   repo.LocalStore
	logger  *zap.SugaredLogger

	cards  []model.Card
	owner  int64 // чей список в памяти: id пользователя, 0 для гостевого режима
	lastID int64
	now    func() time.Time
}

func NewCardService(session *Session, api CardAPI, store repo.LocalStore, logger *zap.SugaredLogger) *CardService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &CardService{
		session: session,
		api:     api,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	session.OnLogout(s.Reset)
	return s
}

// Cards копия текущего списка.
func (s *CardService) Cards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Card(nil), s.cards...)
}

// Find ищет карточку по id в текущем списке.
func (s *CardService) Find(id int64) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.cards, id); i >= 0 {
		return s.cards[i], true
	}
	return model.Card{}, false
}

// Load загружает список. После входа читает сервер и обновляет кэш; при ошибке API
// возвращает кэш пользователя вместе с ошибкой. Без входа читает локальные карточки.
func (s *CardService) Load(ctx context.Context) ([]model.Card, error) {
	creds, gen := s.session.snapshot()
	if creds.Token == "" {
		cards, err := readList(s.store, repo.UnauthCardsKey, s.logger)
		if err != nil {
			return nil, err
		}
		s.setCards(cards)
		return cards, nil
	}

	ctx, cancel := s.session.bind(ctx)
	defer cancel()

	cards, err := s.api.ListCards(ctx, creds.Token, creds.UserID)
	if s.session.Generation() != gen {
		return nil, ErrStaleSession
	}
	if err != nil {
		s.logger.Warnw("load cards from server failed, using cache", "user_id", creds.UserID, "error", err)
		cached, cErr := readList(s.store, repo.UserCacheKey(creds.UserID), s.logger)
		if cErr != nil {
			return nil, errors.Join(err, cErr)
		}
		s.setOwnedCards(cached, creds.UserID)
		return cached, fmt.Errorf("load cards: %w", err)
	}
	if err := writeList(s.store, repo.UserCacheKey(creds.UserID), cards); err != nil {
		s.logger.Warnw("write card cache failed", "user_id", creds.UserID, "error", err)
	}
	s.setOwnedCards(cards, creds.UserID)
	return cards, nil
}

// Add создаёт карточку.
func (s *CardService) Add(ctx context.Context, c model.Card) (model.Card, error) {
	if err := api.ValidateCard(c, false); err != nil {
		return model.Card{}, err
	}
	if c.Color == "" {
		c.Color = model.DefaultColor
	}
	if c.IsMyCard {
		c.Type = model.TypeBusiness
	}
	c = card.Normalize(c)

	creds, gen := s.session.snapshot()
	if creds.Token == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.ID = s.nextLocalIDLocked()
		c.UserID = 0
		next := append(append([]model.Card(nil), s.cards...), c)
		if err := writeList(s.store, repo.UnauthCardsKey, next); err != nil {
			return model.Card{}, fmt.Errorf("save local card: %w", err)
		}
		s.cards = next
		return c, nil
	}

	ctx, cancel := s.session.bind(ctx)
	defer cancel()
	created, err := s.api.CreateCard(ctx, creds.Token, creds.UserID, c)
	if s.session.Generation() != gen {
		return model.Card{}, ErrStaleSession
	}
	if err != nil {
		return model.Card{}, err
	}
	s.mu.Lock()
	s.cards = append(s.cards, created)
	s.writeCacheLocked(creds.UserID)
	s.mu.Unlock()
	return created, nil
}

// Update заменяет карточку с тем же id.
func (s *CardService) Update(ctx context.Context, c model.Card) (model.Card, error) {
	if err := api.ValidateCard(c, true); err != nil {
		return model.Card{}, err
	}
	c = card.Normalize(c)

	creds, gen := s.session.snapshot()
	if creds.Token == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		i := indexOf(s.cards, c.ID)
		if i < 0 {
			return model.Card{}, ErrCardNotFound
		}
		c.UserID = 0
		next := append([]model.Card(nil), s.cards...)
		next[i] = c
		if err := writeList(s.store, repo.UnauthCardsKey, next); err != nil {
			return model.Card{}, fmt.Errorf("save local card: %w", err)
		}
		s.cards = next
		return c, nil
	}

	ctx, cancel := s.session.bind(ctx)
	defer cancel()
	updated, err := s.api.UpdateCard(ctx, creds.Token, creds.UserID, c)
	if s.session.Generation() != gen {
		return model.Card{}, ErrStaleSession
	}
	if err != nil {
		return model.Card{}, err
	}
	s.mu.Lock()
	if i := indexOf(s.cards, updated.ID); i >= 0 {
		s.cards[i] = updated
	} else {
		s.cards = append(s.cards, updated)
	}
	s.writeCacheLocked(creds.UserID)
	s.mu.Unlock()
	return updated, nil
}

// Delete удаляет карточку по id.
func (s *CardService) Delete(ctx context.Context, id int64) error {
	creds, gen := s.session.snapshot()
	if creds.Token == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		i := indexOf(s.cards, id)
		if i < 0 {
			return ErrCardNotFound
		}
		next := append(append([]model.Card(nil), s.cards[:i]...), s.cards[i+1:]...)
		if err := writeList(s.store, repo.UnauthCardsKey, next); err != nil {
			return fmt.Errorf("save local cards: %w", err)
		}
		s.cards = next
		return nil
	}

	ctx, cancel := s.session.bind(ctx)
	defer cancel()
	err := s.api.DeleteCard(ctx, creds.Token, id)
	if s.session.Generation() != gen {
		return ErrStaleSession
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	if i := indexOf(s.cards, id); i >= 0 {
		s.cards = append(s.cards[:i], s.cards[i+1:]...)
	}
	s.writeCacheLocked(creds.UserID)
	s.mu.Unlock()
	return nil
}

// Reset очищает список в памяти (выход из аккаунта).
func (s *CardService) Reset() {
	s.setCards(nil)
}

func (s *CardService) setCards(cards []model.Card) {
	s.setOwnedCards(cards, 0)
}

func (s *CardService) setOwnedCards(cards []model.Card, owner int64) {
	s.mu.Lock()
	s.cards = append([]model.Card(nil), cards...)
	s.owner = owner
	s.mu.Unlock()
}

// Created учитывает карточку, созданную на сервере в обход Add (загрузка при синхронизации):
// добавляет её в список и в кэш пользователя. Если список в памяти не этого пользователя,
// основой служит сохранённый кэш.
func (s *CardService) Created(c model.Card) {
	creds := s.session.Credentials()
	if creds.Token == "" {
		return
	}
	if c.UserID == 0 {
		c.UserID = creds.UserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != creds.UserID {
		cached, err := readList(s.store, repo.UserCacheKey(creds.UserID), s.logger)
		if err != nil {
			s.logger.Warnw("read card cache failed", "user_id", creds.UserID, "error", err)
			return
		}
		s.cards = cached
		s.owner = creds.UserID
	}
	if indexOf(s.cards, c.ID) >= 0 {
		return
	}
	s.cards = append(s.cards, c)
	s.writeCacheLocked(creds.UserID)
}

// nextLocalIDLocked id локальной карточки: unix-миллисекунды, строго больше выданных ранее.
func (s *CardService) nextLocalIDLocked() int64 {
	id := s.now().UnixMilli()
	for _, c := range s.cards {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *CardService) writeCacheLocked(userID int64) {
	if err := writeList(s.store, repo.UserCacheKey(userID), s.cards); err != nil {
		s.logger.Warnw("write card cache failed", "user_id", userID, "error", err)
	}
}

func indexOf(cards []model.Card, id int64) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// readList читает список карточек по ключу. Повреждённое значение удаляется и
// заменяется пустым списком; ошибкой это не считается.
func readList(store repo.LocalStore, key string, logger *zap.SugaredLogger) ([]model.Card, error) {
	raw, ok, err := store.Get(key)
	if err != nil {
		if !errors.Is(err, repo.ErrCorruptValue) {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
	} else if !ok {
		return []model.Card{}, nil
	}
	var cards []model.Card
	if err == nil {
		cards, err = card.DecodeList(raw)
	}
	if err != nil {
		logger.Warnw("corrupt local card list, clearing", "key", key, "error", err)
		if rmErr := store.Remove(key); rmErr != nil {
			logger.Warnw("remove corrupt key failed", "key", key, "error", rmErr)
		}
		return []model.Card{}, nil
	}
	return cards, nil
}

func writeList(store repo.LocalStore, key string, cards []model.Card) error {
	raw, err := card.EncodeList(cards)
	if err != nil {
		return err
	}
	return store.Set(key, raw)
}

// PendingLocalCards число карточек, созданных без входа и ещё не перенесённых в аккаунт.
func PendingLocalCards(store repo.LocalStore) (int, error) {
	cards, err := readList(store, repo.UnauthCardsKey, zap.NewNop().Sugar())
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}
