package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"invalid transition", NewInvalidTransitionError("bad edge"), http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"conflict", NewConflictError("taken"), http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden},
		{"signature", NewInvalidSignatureError("hash"), http.StatusBadRequest},
		{"provider", NewProviderError("down"), http.StatusBadGateway},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestGetAppError_Wrapped(t *testing.T) {
	base := NewConflictError("ticket already assigned")
	wrapped := fmt.Errorf("assign: %w", base)

	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.Equal(t, base, GetAppError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "not_found: ticket not found", NewNotFoundError("ticket not found").Error())
	assert.Equal(t, "validation_error: bad amount (must be positive)",
		NewValidationError("bad amount", "must be positive").Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry 'PB20260101-0001' for key 'batch_number'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: payment_batches.batch_number")))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
