package service

import (
	"CardWallet/internal/model"
	"CardWallet/internal/repo"
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLen минимальная длина пароля при регистрации.
const MinPasswordLen = 6

// UserService регистрация, вход и удаление аккаунта.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validation("Email and password are required.")
	}
	if len(password) < MinPasswordLen {
		return nil, validation("Password must be at least 6 characters long.")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, &model.User{Email: email, PasswordHash: string(hash)})
}

// Login проверяет пару email/пароль.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validation("Email and password are required.")
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureUser возвращает существующего пользователя или регистрирует нового (для seed).
func (s *UserService) EnsureUser(ctx context.Context, email, password string) (*model.User, bool, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil && u != nil {
		return u, false, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	u, err = s.Register(ctx, email, password)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// DeleteAccount удаляет пользователя вместе со всеми его карточками.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeleteUserWithCards(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return n, nil
}
