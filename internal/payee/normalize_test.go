package payee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "ACME Corp", "acme corp"},
		{"collapses whitespace", "  ACME \t  Corp  ", "acme corp"},
		{"folds diacritics", "Živnostenská Banka", "zivnostenska banka"},
		{"czech accents", "Pekařství U Nováků", "pekarstvi u novaku"},
		{"blank", "   ", ""},
		{"empty", "", ""},
		{"already normalized", "acme", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_DiacriticVariantsCollide(t *testing.T) {
	// The whole point of folding: both spellings address the same key.
	assert.Equal(t, Normalize("Kavárna Slavia"), Normalize("KAVARNA SLAVIA"))
}

func TestNormalizeIBAN(t *testing.T) {
	assert.Equal(t, "CZ6508000000192000145399", NormalizeIBAN("cz65 0800 0000 1920 0014 5399"))
	assert.Equal(t, "", NormalizeIBAN("   "))
}
