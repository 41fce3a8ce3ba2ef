package keyspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice@example.com"},
		{"a+b@example.com", "a%2Bb@example.com"},
		{"weird/name@example.com", "weird%2Fname@example.com"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeEmail(tt.email), tt.email)
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "alice@example.com/user.json", UserKey("alice@example.com"))
	assert.Equal(t, "alice@example.com/personas/", PersonaPrefix("alice@example.com"))
	assert.Equal(t, "alice@example.com/personas/work", PersonaKey("alice@example.com", "work"))
}

func TestPersonaID(t *testing.T) {
	assert.Equal(t, "work", PersonaID("alice@example.com/personas/work"))
	assert.Equal(t, "bare", PersonaID("bare"))
}
