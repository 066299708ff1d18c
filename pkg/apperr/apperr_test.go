package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := InvalidTransition("Draft", "Received")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindInvalidTransition, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("transition failed: %w", NotFound("purchase order"))
	assert.True(t, Is(err, KindNotFound))
}

func TestInsufficientStockCarriesSKUs(t *testing.T) {
	err := InsufficientStock([]string{"TS-RED-M", "TS-BLUE-S"})
	assert.True(t, Is(err, KindInsufficientStock))

	var domainErr *Error
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, []string{"TS-RED-M", "TS-BLUE-S"}, domainErr.SKUs)
	assert.Contains(t, err.Error(), "TS-RED-M")
}

func TestValidationFields(t *testing.T) {
	err := ValidationFields(map[string]string{"email": "must be a valid email"})
	assert.True(t, Is(err, KindValidation))

	var domainErr *Error
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "must be a valid email", domainErr.Fields["email"])
}
