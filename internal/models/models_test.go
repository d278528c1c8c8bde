package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceNotFoundError(t *testing.T) {
	err := NewResourceNotFoundError("User with given id is not found on server: 42")
	wrapped := fmt.Errorf("in GetUser(): %w", err)

	assert.ErrorIs(t, wrapped, ErrResourceNotFound)

	var notFound *ResourceNotFoundError
	assert.True(t, errors.As(wrapped, &notFound))
	assert.Equal(t, "User with given id is not found on server: 42", notFound.Error())

	assert.Equal(t, "Resource not found on server", NewResourceNotFoundError("").Error())
	assert.False(t, errors.Is(errors.New("other"), ErrResourceNotFound))
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", StatusName(http.StatusNotFound))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", StatusName(http.StatusInternalServerError))
	assert.Equal(t, "MULTI_STATUS", StatusName(http.StatusMultiStatus))
	assert.Equal(t, "NON_AUTHORITATIVE_INFORMATION", StatusName(http.StatusNonAuthoritativeInfo))
	assert.Equal(t, "", StatusName(999))
	assert.Equal(t, "NOT_FOUND", NewNotFoundResponse("x").Status)
}
