package subject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NormalizeVariants(t *testing.T) {
	n, err := Parse("  tom   HANKS ")
	require.NoError(t, err)

	assert.Equal(t, []string{"tom", "hanks"}, n.Tokens)
	assert.Equal(t, "tom_hanks", n.Slug())
	assert.Equal(t, "Tom_Hanks", n.WikiSlug())
	assert.Equal(t, "Tom Hanks", n.Display())
	assert.Equal(t, "tom_hanks_filmography.csv", n.ExportFileName())
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(" \t ")
	assert.True(t, errors.Is(err, ErrEmpty), "期望 ErrEmpty，实际 %v", err)
}

func TestDisplay_MixedCaseInput(t *testing.T) {
	n, err := Parse("ROBERT de NIRO")
	require.NoError(t, err)
	assert.Equal(t, "Robert De Niro", n.Display())
	assert.Equal(t, "robert_de_niro", n.Slug())
}
