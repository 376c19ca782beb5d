package repo

import (
	"CardWallet/internal/model"
	"context"

	"gorm.io/gorm"
)

// CardRepository контракт доступа к карточкам. Все операции ограничены владельцем userID.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	ListByUser(ctx context.Context, userID int64) ([]model.Card, error)
	// GetByID возвращает gorm.ErrRecordNotFound, если карточки нет или она чужая.
	GetByID(ctx context.Context, userID, id int64) (*model.Card, error)
	// Update применяет updates (имя колонки -> значение) и возвращает обновлённую запись.
	Update(ctx context.Context, userID, id int64, updates map[string]any) (*model.Card, error)
	Delete(ctx context.Context, userID, id int64) error
}

type cardRepo struct {
	db *gorm.DB
}

// NewCardRepository создаёт реализацию репозитория карточек.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepo{db: db}
}

func (r *cardRepo) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// ListByUser возвращает карточки пользователя в порядке создания.
func (r *cardRepo) ListByUser(ctx context.Context, userID int64) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepo) GetByID(ctx context.Context, userID, id int64) (*model.Card, error) {
	var c model.Card
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cardRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (*model.Card, error) {
	var out model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&out).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&out).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *cardRepo) Delete(ctx context.Context, userID, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Card{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
