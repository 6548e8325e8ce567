package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderArticle(t *testing.T) {
	doc, err := RenderArticle("My Title", "# Heading\n\nFirst *paragraph*.\n\nSecond paragraph.")
	require.NoError(t, err)

	assert.True(t, len(doc) > 0)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestRenderArticle_Empty(t *testing.T) {
	doc, err := RenderArticle("", "")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}
