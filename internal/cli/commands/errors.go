package commands

import (
	"CardWallet/internal/cli/api"
	"CardWallet/internal/cli/service"
	"errors"
	"fmt"
)

// Describe переводит ошибку в сообщение для пользователя по её виду.
func Describe(err error) string {
	var ve *api.ValidationError
	var ae *api.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, service.ErrCardNotFound), api.IsNotFound(err):
		return "card no longer exists"
	case api.IsUnauthorized(err):
		return "session expired or invalid credentials, please login again"
	case api.IsNetwork(err):
		return "server is unreachable, will retry; your changes are kept"
	case errors.Is(err, service.ErrNotAuthenticated):
		return "you are not logged in (run: login <email> <password>)"
	case errors.Is(err, service.ErrStaleSession):
		return "session ended while the request was in flight; result discarded"
	case errors.As(err, &ae):
		if ae.Message != "" {
			return fmt.Sprintf("server error (%d): %s", ae.Status, ae.Message)
		}
		return fmt.Sprintf("server error (%d)", ae.Status)
	}
	return err.Error()
}
