package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
)

type createItemRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Warmth      int    `json:"warmth"      validate:"gte=1,lte=5"`
	Category    string `json:"category"    validate:"required,oneof=TOP PANTS SHOES HAT"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(createItemRequest{Description: "Blue raincoat", Warmth: 3, Category: "TOP"})
	assert.NoError(t, err)
}

func TestValidateReturnsDomainErrorWithFieldDetails(t *testing.T) {
	v := New()
	err := v.Validate(createItemRequest{Warmth: 9, Category: "CAPE"})
	require.Error(t, err)

	domainErr := domainerrors.AsError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "warmth")
	assert.Contains(t, fields, "category")
}
