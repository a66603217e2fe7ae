package tokenizer

import (
	"errors"
)

// CountResult captures the outcome of counting a piece of text.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText estimates tokens for text using counter. Empty text counts as zero tokens
// without consulting the counter.
func CountText(counter Counter, text string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	if text == "" {
		return CountResult{Tokens: 0, Counted: true}, nil
	}
	tokens, err := counter.CountString(text)
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
