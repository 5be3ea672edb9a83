package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

func TestXHandleNormalization(t *testing.T) {
	assert.Equal(t, "@bitmind", usecase.NormalizeXHandle("bitmind"))
	assert.Equal(t, "@bitmind", usecase.NormalizeXHandle("@bitmind"))
	assert.Equal(t, "@bitmind", usecase.NormalizeXHandle("  bitmind  "))
	assert.Equal(t, "", usecase.NormalizeXHandle(""))
	assert.Equal(t, "", usecase.NormalizeXHandle("   "))
}

func TestXHandleValidation(t *testing.T) {
	valid := []string{
		"@a",
		"@bitmind",
		"@Bit_Mind_42",
		"@abcdefghij12345", // exactly 15 chars after @
		"",                 // empty stays unset, still valid
	}
	for _, h := range valid {
		assert.NoError(t, usecase.ValidateXHandle(h), "expected %q to be valid", h)
	}

	invalid := []string{
		"@",
		"@abcdefghij123456", // 16 chars after @
		"@has space",
		"@has-dash",
		"@émoji",
		"no-at-sign", // ValidateXHandle expects normalized input
		"@@double",
	}
	for _, h := range invalid {
		assert.Error(t, usecase.ValidateXHandle(h), "expected %q to be invalid", h)
	}
}
