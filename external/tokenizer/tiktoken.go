package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/tiktoken-go/tokenizer"
)

// TiktokenCounter measures prompt size with the GPT-4 encoding for every provider.
// For non-OpenAI models the count is an approximation.
type TiktokenCounter struct {
	codec tokenizer.Codec
}

func NewTiktokenCounter() (llm.TokenCounter, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec: %w", err)
	}
	return &TiktokenCounter{codec: codec}, nil
}

func (c *TiktokenCounter) CountTokens(text string) int {
	count, err := c.codec.Count(text)
	if err != nil {
		return utf8.RuneCountInString(text) / 4
	}
	return count
}
