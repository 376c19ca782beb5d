package repo

import (
	"errors"
	"fmt"
)

// Ключи локального хранилища.
const (
	// UnauthCardsKey карточки, созданные без входа в аккаунт.
	UnauthCardsKey = "cardwallet_local_unauth_cards"

	userCacheKeyPrefix = "cardwallet_cards_user_"
)

// ErrCorruptValue значение есть, но прочитать его нельзя (например, не расшифровывается).
var ErrCorruptValue = errors.New("corrupt stored value")

// UserCacheKey ключ кэша серверного списка карточек пользователя.
func UserCacheKey(userID int64) string {
	return fmt.Sprintf("%s%d", userCacheKeyPrefix, userID)
}

// LocalStore определяет порт локального key/value хранилища клиента.
// Значения хранятся как есть (JSON-массивы карточек), последняя запись выигрывает.
type LocalStore interface {
	// Get возвращает значение и признак его наличия.
	Get(key string) ([]byte, bool, error)
	// Set записывает значение, заменяя предыдущее.
	Set(key string, value []byte) error
	// Remove удаляет ключ; отсутствие ключа не ошибка.
	Remove(key string) error
	Close() error
}
