package value_objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "pasteur", "pasteur", false},
		{"hyphenated", "lycee-saint-exupery", "lycee-saint-exupery", false},
		{"with digits", "college-2024", "college-2024", false},
		{"minimum length", "ab", "ab", false},
		{"normalizes case", "Pasteur", "pasteur", false},
		{"normalizes accents", "lycée", "lycee", false},
		{"trims whitespace", "  pasteur  ", "pasteur", false},
		{"too short", "a", "", true},
		{"too long", strings.Repeat("a", 64), "", true},
		{"leading hyphen", "-pasteur", "", true},
		{"trailing hyphen", "pasteur-", "", true},
		{"double hyphen", "lycee--pasteur", "", true},
		{"inner spaces", "lycee pasteur", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := NewSlug(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slug.String())
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Lycée Saint-Exupéry", "lycee-saint-exupery"},
		{"Collège Jean Moulin", "college-jean-moulin"},
		{"  École   du   Centre  ", "ecole-du-centre"},
		{"L'Institut (privé)", "l-institut-prive"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			slug, err := Slugify(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slug.String())
		})
	}

	t.Run("fails when nothing slugifiable remains", func(t *testing.T) {
		_, err := Slugify("!!!")
		assert.Error(t, err)
	})
}

func TestSlugEquals(t *testing.T) {
	a, err := NewSlug("pasteur")
	require.NoError(t, err)
	b, err := NewSlug("pasteur")
	require.NoError(t, err)
	c, err := NewSlug("moulin")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}
