package entities

import "fmt"

// TokenCategory is the category tag shown on a reel symbol
type TokenCategory string

// The closed set of token categories
const (
	TokenCategoryCat  TokenCategory = "cat"
	TokenCategoryDog  TokenCategory = "dog"
	TokenCategoryMeme TokenCategory = "meme"
	TokenCategoryDefi TokenCategory = "defi"
	TokenCategoryNFT  TokenCategory = "nft"
)

// IsValid returns true if the category is one of the known categories
func (c TokenCategory) IsValid() bool {
	switch c {
	case TokenCategoryCat, TokenCategoryDog, TokenCategoryMeme, TokenCategoryDefi, TokenCategoryNFT:
		return true
	}
	return false
}

// Token is a catalog entry that can land on a reel.
// Rank is the market-cap rank and is nil when unranked.
type Token struct {
	Symbol   string        `json:"symbol" yaml:"symbol"`
	Name     string        `json:"name" yaml:"name"`
	Category TokenCategory `json:"category" yaml:"category"`
	Rank     *int          `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// HasTopRank returns true if the token is ranked at or above maxRank
func (t Token) HasTopRank(maxRank int) bool {
	return t.Rank != nil && *t.Rank <= maxRank
}

// ValidateCatalog checks a token catalog for unknown categories, duplicate symbols and invalid ranks
func ValidateCatalog(tokens []Token) error {
	seen := make(map[string]struct{}, len(tokens))
	for i, token := range tokens {
		if token.Symbol == "" {
			return fmt.Errorf("token %d has no symbol", i)
		}
		if _, dup := seen[token.Symbol]; dup {
			return fmt.Errorf("duplicate token symbol %q", token.Symbol)
		}
		seen[token.Symbol] = struct{}{}

		if !token.Category.IsValid() {
			return fmt.Errorf("token %q has unknown category %q", token.Symbol, token.Category)
		}
		if token.Rank != nil && *token.Rank <= 0 {
			return fmt.Errorf("token %q has non-positive rank %d", token.Symbol, *token.Rank)
		}
	}
	return nil
}
