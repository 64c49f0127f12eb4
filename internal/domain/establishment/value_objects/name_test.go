package value_objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "Lycée Pasteur", "Lycée Pasteur", false},
		{"collapses whitespace", "  Lycée   Pasteur  ", "Lycée Pasteur", false},
		{"minimum length", "AB", "AB", false},
		{"too short", "A", "", true},
		{"too long", strings.Repeat("a", 151), "", true},
		{"empty", "", "", true},
		{"only whitespace", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := NewName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, name.String())
		})
	}
}

func TestNameEquals(t *testing.T) {
	a, err := NewName("Lycée Pasteur")
	require.NoError(t, err)
	b, err := NewName("lycée pasteur")
	require.NoError(t, err)
	c, err := NewName("Collège Moulin")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}
