package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"xpslots/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tokens, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	topRanked := 0
	categories := make(map[entities.TokenCategory]bool)
	for _, token := range tokens {
		categories[token.Category] = true
		if token.HasTopRank(3) {
			topRanked++
		}
	}
	assert.Equal(t, 3, topRanked)
	assert.Len(t, categories, 5)
	assert.Equal(t, "DOGE", tokens[0].Symbol)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, loaded)
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tokens:
  - symbol: AAA
    name: Alpha
    category: cat
    rank: 1
  - symbol: BBB
    name: Beta
    category: nft
`), 0o600))

	tokens, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	assert.Equal(t, "Alpha", tokens[0].Name)
	require.NotNil(t, tokens[0].Rank)
	assert.Equal(t, 1, *tokens[0].Rank)
	assert.Equal(t, entities.TokenCategoryNFT, tokens[1].Category)
	assert.Nil(t, tokens[1].Rank)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog file")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: "catalog is empty",
		},
		{
			name:    "no tokens",
			doc:     "tokens: []",
			wantErr: "catalog is empty",
		},
		{
			name:    "unknown category",
			doc:     "tokens:\n  - {symbol: X, name: X, category: fish}",
			wantErr: "unknown category",
		},
		{
			name:    "duplicate symbol",
			doc:     "tokens:\n  - {symbol: X, name: X, category: cat}\n  - {symbol: X, name: Y, category: dog}",
			wantErr: "duplicate token symbol",
		},
		{
			name:    "zero rank",
			doc:     "tokens:\n  - {symbol: X, name: X, category: cat, rank: 0}",
			wantErr: "non-positive rank",
		},
		{
			name:    "unknown field",
			doc:     "tokens:\n  - {symbol: X, name: X, category: cat, colour: red}",
			wantErr: "failed to decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
