// Package card содержит чистую логику над карточками клиента:
// нормализацию, маппинг серверных полей, семантическое сравнение и ключ сопоставления при синхронизации.
package card

import (
	"CardWallet/internal/cli/model"

	"go.uber.org/zap"
)

var sugar = zap.NewNop().Sugar()

// SetLogger задаёт логгер пакета (предупреждения нормализатора).
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		sugar = l
	}
}

// Normalize гарантирует допустимый тип карточки: неизвестный или пустой тип заменяется на "other".
// Остальные поля не трогает, повторный вызов ничего не меняет.
func Normalize(c model.Card) model.Card {
	if c.Type.Valid() {
		return c
	}
	name := c.Name
	if name == "" {
		name = "Unknown Card"
	}
	sugar.Warnw("invalid card type, defaulting to other", "type", string(c.Type), "card", name)
	c.Type = model.TypeOther
	return c
}

// NormalizeAll нормализует список карточек на месте и возвращает его же.
func NormalizeAll(cards []model.Card) []model.Card {
	for i := range cards {
		cards[i] = Normalize(cards[i])
	}
	return cards
}
