package api

import (
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	"context"
	"fmt"
	"net/http"
)

// ListCards GET /api/cards; ответ нормализуется.
func (c *Client) ListCards(ctx context.Context, token string, userID int64) ([]model.Card, error) {
	body, err := c.do(ctx, "list cards", http.MethodGet, "/api/cards", token, nil)
	if err != nil {
		return nil, err
	}
	cards, err := card.FromServerList(body, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// CreateCard POST /api/cards.
func (c *Client) CreateCard(ctx context.Context, token string, userID int64, in model.Card) (model.Card, error) {
	if err := ValidateCard(in, false); err != nil {
		return model.Card{}, err
	}
	body, err := c.do(ctx, "create card", http.MethodPost, "/api/cards", token, card.ToServer(in))
	if err != nil {
		return model.Card{}, err
	}
	return card.FromServerJSON(body, userID), nil
}

// UpdateCard PUT /api/cards/{id}; отправляется полная карточка.
func (c *Client) UpdateCard(ctx context.Context, token string, userID int64, in model.Card) (model.Card, error) {
	if err := ValidateCard(in, true); err != nil {
		return model.Card{}, err
	}
	path := fmt.Sprintf("/api/cards/%d", in.ID)
	body, err := c.do(ctx, "update card", http.MethodPut, path, token, card.ToServer(in))
	if err != nil {
		return model.Card{}, err
	}
	return card.FromServerJSON(body, userID), nil
}

// DeleteCard DELETE /api/cards/{id}.
func (c *Client) DeleteCard(ctx context.Context, token string, id int64) error {
	if id == 0 {
		return &ValidationError{Field: "id", Message: "Card ID is required"}
	}
	_, err := c.do(ctx, "delete card", http.MethodDelete, fmt.Sprintf("/api/cards/%d", id), token, nil)
	return err
}
