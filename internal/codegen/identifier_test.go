package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "counter", "counter"},
		{"mixed case lowered", "CamelCase", "camelcase"},
		{"spaces collapse", "My Variable", "my_variable"},
		{"dots and dashes collapse", "a--b..c", "a_b_c"},
		{"surrounding whitespace trimmed", "  spaced  ", "spaced"},
		{"leading digit guarded", "2nd value", "v_2nd_value"},
		{"symbols only fall back", "!!!", "var"},
		{"empty falls back", "", "var"},
		{"cyrillic transliterated", "переменная", "peremennaya"},
		{"decomposed yo loses its diaeresis", "Счётчик", "schetchik"},
		{"hard sign dropped", "подъезд", "podezd"},
		{"accents stripped", "héllo wörld", "hello_world"},
		{"shcha expands", "щука", "shchuka"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeIdentifier(tt.in))
		})
	}
}
