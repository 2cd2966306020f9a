package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases and splits", "NETFLIX.COM Payment", []string{"netflix", "com", "payment"}},
		{"drops short tokens", "a BC d ef", []string{"bc", "ef"}},
		{"digits survive", "VS 20240101", []string{"vs", "20240101"}},
		{"punctuation only", "-- ** //", []string{}},
		{"empty", "", []string{}},
		{"unicode letters kept together", "kavárna slavia", []string{"kavárna", "slavia"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}
