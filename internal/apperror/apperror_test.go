package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad rank %d", 9), http.StatusBadRequest},
		{"not found", NotFound("order %d not found", 1), http.StatusNotFound},
		{"conflict", Conflict("order already redeemed"), http.StatusConflict},
		{"unauthorized", Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{"store", Store("find order", errors.New("socket closed")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("collect: %w", NotFound("order 3 not found")), http.StatusNotFound},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestStoreErrorsHideCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := Store("adjust wallet", cause)

	assert.Equal(t, "internal storage error", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindStore))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "ticket 4 not found", PublicMessage(NotFound("ticket %d not found", 4)))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}
