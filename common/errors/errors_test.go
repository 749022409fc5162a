package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized},
		{"missing header", MissingHeader("Authorization"), http.StatusUnauthorized},
		{"access denied", AccessDenied(), http.StatusForbidden},
		{"validation", ValidationError("x"), http.StatusBadRequest},
		{"missing field", MissingField("title"), http.StatusBadRequest},
		{"not found", NotFound("Event"), http.StatusNotFound},
		{"already exists", AlreadyExists("Event"), http.StatusConflict},
		{"database", DatabaseError(stderrors.New("x")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestAsAppError_FollowsWrapChain(t *testing.T) {
	inner := NotFound("Event")
	wrapped := fmt.Errorf("repository: %w", inner)

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Same(t, inner, appErr)
	assert.True(t, IsCode(wrapped, ErrCodeNotFound))
	assert.False(t, IsCode(wrapped, ErrCodeAccessDenied))
}

func TestToAppError_WrapsPlainErrors(t *testing.T) {
	plain := stderrors.New("socket closed")

	appErr := ToAppError(plain)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[E3001] Event not found", NotFound("Event").Error())
	assert.Equal(t, "[E9002] Database error: boom", DatabaseError(stderrors.New("boom")).Error())
}
