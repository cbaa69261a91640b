package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("signup: %w", &ValidationError{Field: "username", Message: "trop court"})

	assert.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "trop court", vErr.Message)
	assert.Equal(t, "signup: username: trop court", err.Error())
}
