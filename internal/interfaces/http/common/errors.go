package common

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"github.com/sngm3741/qr-review/api/internal/prompt"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

// StatusFromError maps domain errors to an HTTP status and a client-facing message.
func StatusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid owner identifier"
	case errors.Is(err, domain.ErrInvalidCategory), errors.Is(err, domain.ErrInvalidReviewURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, prompt.ErrInvalidSampleSize):
		return http.StatusBadRequest, "invalid prompt count"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "business not found"
	case errors.Is(err, redirect.ErrUnavailable):
		return http.StatusConflict, redirect.UnavailableNotice
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrCounterUpdateFailed):
		return http.StatusServiceUnavailable, "store unavailable, please retry later"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request timed out"
	case errors.Is(err, qrcode.ErrEncoding):
		return http.StatusInternalServerError, "QR code could not be generated"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// WriteDomainError logs server-side failures and writes the mapped status.
func WriteDomainError(logger *log.Logger, w http.ResponseWriter, op string, err error) {
	status, message := StatusFromError(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Printf("%s failed: %v", op, err)
	}
	WriteError(logger, w, status, message)
}
