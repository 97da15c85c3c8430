package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://app.saltbee.example", "*.saltbee.example"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"exact match", "https://app.saltbee.example", true},
		{"subdomain wildcard", "https://staging.saltbee.example", true},
		{"bare domain does not match wildcard", "https://saltbee.example", false},
		{"suffix lookalike rejected", "https://evilsaltbee.example", false},
		{"unknown origin", "https://other.example", false},
		{"empty origin", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, allowed))
		})
	}

	assert.True(t, originAllowed("https://anywhere.example", []string{"*"}))
}
