package card

import (
	"CardWallet/internal/cli/model"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt сохранённое значение не является списком карточек.
var ErrCorrupt = errors.New("stored card list is corrupt")

// DecodeList разбирает JSON-массив карточек из локального хранилища и нормализует каждую.
// Элемент с нестроковым type не считается порчей: тип просто сбрасывается в "other".
func DecodeList(raw []byte) ([]model.Card, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out := make([]model.Card, 0, len(items))
	for i, item := range items {
		c, err := decodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrCorrupt, i, err)
		}
		out = append(out, Normalize(c))
	}
	return out, nil
}

func decodeOne(item json.RawMessage) (model.Card, error) {
	var c model.Card
	err := json.Unmarshal(item, &c)
	if err == nil {
		return c, nil
	}
	// повторная попытка без поля type
	var fields map[string]json.RawMessage
	if mErr := json.Unmarshal(item, &fields); mErr != nil {
		return model.Card{}, err
	}
	if _, ok := fields["type"]; !ok {
		return model.Card{}, err
	}
	delete(fields, "type")
	stripped, mErr := json.Marshal(fields)
	if mErr != nil {
		return model.Card{}, mErr
	}
	c = model.Card{}
	if err := json.Unmarshal(stripped, &c); err != nil {
		return model.Card{}, err
	}
	return c, nil
}

// EncodeList сериализует список для записи в локальное хранилище; nil пишется как [].
func EncodeList(cards []model.Card) ([]byte, error) {
	if cards == nil {
		cards = []model.Card{}
	}
	return json.Marshal(cards)
}
