package handlers

import (
	"CardWallet/internal/config"
	"CardWallet/internal/middleware"
	"CardWallet/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler регистрация, вход и удаление аккаунта.
type UserHandler struct {
	UserService *service.UserService
	CardService *service.CardService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, cardService *service.CardService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, CardService: cardService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// Register POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeMessage(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrEmailTaken):
			writeMessage(w, http.StatusConflict, "User with this email already exists.")
		default:
			h.Logger.Errorw("Register: service error", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Could not register user.")
		}
		return
	}

	h.Logger.Infow("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully.",
		"userId":  user.ID,
	})
}

// Login POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeMessage(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
		default:
			h.Logger.Errorw("Login: service error", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Server error during login.")
		}
		return
	}

	token, err := middleware.IssueToken(user.ID, user.Email, h.Config.AuthSecret, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Errorw("Login: failed to issue token", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error during login.")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: user.ID, Email: user.Email})
}

// DeleteAccount DELETE /api/auth/account и DELETE /api/users/me
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	deleted, err := h.UserService.DeleteAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found for deletion.")
			return
		}
		h.Logger.Errorw("DeleteAccount: service error", "user_id", userID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error during account deletion.")
		return
	}
	h.CardService.Forget(userID)

	h.Logger.Infow("account deleted", "user_id", userID, "cards", deleted)
	writeMessage(w, http.StatusOK, "Account and associated cards deleted successfully.")
}
