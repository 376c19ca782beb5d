package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError карточка не прошла проверку до отправки на сервер.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError транспортный сбой: сервер недоступен, соединение оборвалось.
// Такие ошибки повторяются с экспоненциальной задержкой.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// APIError сервер ответил статусом вне 2xx.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// IsNetwork сообщает, является ли err (или что-то в цепочке) NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf возвращает HTTP-статус APIError из цепочки или 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// IsNotFound ответ 404.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsUnauthorized ответ 401 (токен истёк или отозван).
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
