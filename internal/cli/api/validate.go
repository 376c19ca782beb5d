package api

import (
	"CardWallet/internal/cli/model"
	"strings"
)

// ValidateCard проверяет карточку перед созданием или обновлением.
// Для визиток и «моей карточки» обязательно имя, компания обязательна всегда.
func ValidateCard(c model.Card, requireID bool) error {
	if requireID && c.ID == 0 {
		return &ValidationError{Field: "id", Message: "Card ID is required"}
	}
	if (c.Type == model.TypeBusiness || c.IsMyCard) && strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required for business cards"}
	}
	if strings.TrimSpace(c.Company) == "" {
		return &ValidationError{Field: "company", Message: "Company/Club name is required"}
	}
	return nil
}
