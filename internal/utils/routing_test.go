package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRoutingNumber(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"021000021", true},  // JPMorgan Chase
		{"011401533", true},  // Citizens Bank
		{"091000019", true},  // Wells Fargo MN
		{"021000020", false}, // checksum off by one
		{"12345678", false},  // too short
		{"1234567890", false},
		{"02100002a", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateRoutingNumber(tt.number), "number %q", tt.number)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("123456"))
	assert.False(t, IsNumeric("12a"))
	assert.False(t, IsNumeric(""))
}
