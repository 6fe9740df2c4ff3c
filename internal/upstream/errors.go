package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthMissing indicates no bearer token was configured; it short-circuits
// before any network call is attempted.
var ErrAuthMissing = errors.New("upstream: missing authentication token")

// ErrorCategory buckets upstream failures for user-facing messaging.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryPermission ErrorCategory = "permission"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryConflict   ErrorCategory = "conflict"
	CategoryServer     ErrorCategory = "server"
)

// APIError represents a non-2xx response from the fleet API. It is never
// retried automatically.
type APIError struct {
	StatusCode int
	Category   ErrorCategory
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: status %d (%s)", e.StatusCode, e.Category)
	}
	return fmt.Sprintf("upstream: status %d (%s): %s", e.StatusCode, e.Category, e.Message)
}

// LocalizedMessage returns the French UI string for the error category.
func (e *APIError) LocalizedMessage() string {
	switch e.Category {
	case CategoryValidation:
		return "Données invalides"
	case CategoryAuth:
		return "Session expirée, veuillez vous reconnecter"
	case CategoryPermission:
		return "Accès refusé"
	case CategoryNotFound:
		return "Ressource introuvable"
	case CategoryConflict:
		return "Conflit de données"
	default:
		return "Erreur serveur"
	}
}

func categorize(status int) ErrorCategory {
	switch status {
	case http.StatusBadRequest:
		return CategoryValidation
	case http.StatusUnauthorized:
		return CategoryAuth
	case http.StatusForbidden:
		return CategoryPermission
	case http.StatusNotFound:
		return CategoryNotFound
	case http.StatusConflict:
		return CategoryConflict
	default:
		return CategoryServer
	}
}
