package service

import "errors"

var (
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials — неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound — пользователь не найден (например, уже удалён).
	ErrUserNotFound = errors.New("user not found")
	// ErrCardNotFound — карточки нет или она принадлежит другому пользователю.
	ErrCardNotFound = errors.New("card not found or access denied")
	// ErrUnsupportedType — cardType не входит в список допустимых.
	ErrUnsupportedType = errors.New("unsupported card type")
)

// ValidationError ошибка входных данных; Message показывается клиенту как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validation(msg string) error { return &ValidationError{Message: msg} }
