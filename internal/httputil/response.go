package httputil

import (
	"encoding/json"
	"net/http"
	"net/url"

	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details any                 `json:"details,omitempty"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	WriteJSON(w, StatusFromCode(appErr.Code), ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// Flash kinds carried on redirect query strings.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// RedirectWithFlash sends a 303 to path carrying a one-shot message in the query string.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	target := path
	if message != "" {
		target += "?" + url.Values{kind: {message}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeMissingRequired,
		apperrors.ErrCodeMissingImage,
		apperrors.ErrCodeUnsupportedFileType:
		return http.StatusBadRequest

	case apperrors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized

	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	case apperrors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge

	case apperrors.ErrCodeMailDeliveryFailed:
		return http.StatusBadGateway

	case apperrors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
