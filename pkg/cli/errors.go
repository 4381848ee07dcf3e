package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iboying/activestore/pkg/request"
)

// Common CLI errors
var (
	ErrNoAPIURL     = errors.New("api url not configured - set --api-url, ACTIVESTORE_API_URL or api.url")
	ErrUnknownModel = errors.New("unknown model")
	ErrNoData       = errors.New("--data is required")
)

// formatAPIError turns status errors into a one-line message with a hint.
// Other errors are returned unchanged.
func formatAPIError(err error) error {
	var se *request.StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w\n\nSuggestion: pass a token with --token or ACTIVESTORE_TOKEN", err)
	case http.StatusNotFound:
		return fmt.Errorf("%w\n\nSuggestion: check the model's namespace and parents (activestore models)", err)
	default:
		return err
	}
}
