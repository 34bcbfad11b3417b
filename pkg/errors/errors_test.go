package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "student not found"))

	got := FromError(wrapped)

	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, "student not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(errors.New("connection refused"))

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Contains(t, got.Error(), "connection refused")
}

func TestCloneMatchesWithIs(t *testing.T) {
	clone := Clone(ErrConflict, "email already registered")

	assert.True(t, errors.Is(clone, ErrConflict))
	assert.False(t, errors.Is(clone, ErrNotFound))
	assert.Equal(t, "conflict", ErrConflict.Message)
}

func TestNilSafety(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
	assert.Nil(t, FromError(nil))
	assert.Nil(t, Clone(nil, "x"))
}
