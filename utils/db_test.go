package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		q    string
		want string
	}{
		{"polo", "%polo%"},
		{"%", `%\%%`},
		{"a_b", `%a\_b%`},
		{`50\50`, `%50\\50%`},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPattern(tt.q))
		})
	}
}
