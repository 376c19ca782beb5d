package handlers

import (
	"CardWallet/internal/middleware"
	"CardWallet/internal/model"
	"CardWallet/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CardHandler CRUD карточек текущего пользователя.
type CardHandler struct {
	CardService *service.CardService
	Logger      *zap.SugaredLogger
}

func NewCardHandler(cardService *service.CardService, logger *zap.SugaredLogger) *CardHandler {
	return &CardHandler{CardService: cardService, Logger: logger}
}

// List GET /api/cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	cards, err := h.CardService.List(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("List: service error", "user_id", userID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve cards.")
		return
	}
	if cards == nil {
		cards = []model.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// Get GET /api/cards/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	c, err := h.CardService.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, "Get", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var in service.CardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	c, err := h.CardService.Create(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, "Create", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update PUT /api/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	var in service.CardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	c, err := h.CardService.Update(r.Context(), userID, id, in)
	if err != nil {
		h.writeError(w, "Update", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete DELETE /api/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	if err := h.CardService.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, "Delete", userID, err)
		return
	}
	writeMessage(w, http.StatusOK, "Card deleted successfully.")
}

func cardID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid card id.")
		return 0, false
	}
	return id, true
}

// writeError маппит ошибки сервиса в HTTP-статусы.
func (h *CardHandler) writeError(w http.ResponseWriter, op string, userID int64, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrUnsupportedType):
		writeMessage(w, http.StatusUnprocessableEntity, "Unsupported card type.")
	case errors.Is(err, service.ErrCardNotFound):
		writeMessage(w, http.StatusNotFound, "Card not found or access denied.")
	default:
		h.Logger.Errorw(op+": service error", "user_id", userID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}
