package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized(t *testing.T) {
	svc := NewMarkdownService()

	t.Run("renders basic markdown", func(t *testing.T) {
		out, err := svc.ToHTMLSanitized("# Bienvenue\n\nNotre **lycée** vous accueille.")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "Bienvenue")
		assert.Contains(t, out, "<strong>lycée</strong>")
	})

	t.Run("strips script tags", func(t *testing.T) {
		out, err := svc.ToHTMLSanitized("Hello <script>alert('xss')</script> world")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "alert")
	})

	t.Run("strips event handler attributes", func(t *testing.T) {
		out, err := svc.ToHTMLSanitized(`<img src="x" onerror="alert(1)">`)
		require.NoError(t, err)
		assert.NotContains(t, out, "onerror")
	})

	t.Run("keeps links with safe schemes", func(t *testing.T) {
		out, err := svc.ToHTMLSanitized("[site](https://example.org)")
		require.NoError(t, err)
		assert.Contains(t, out, `href="https://example.org"`)

		out, err = svc.ToHTMLSanitized("[bad](javascript:alert(1))")
		require.NoError(t, err)
		assert.NotContains(t, out, "javascript:")
	})
}
