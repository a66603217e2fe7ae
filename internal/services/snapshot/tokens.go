package snapshot

import (
	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/tokenizer"
)

// tokenTally sums token estimates across files. The first counting failure
// disables the estimate for the rest of the run.
type tokenTally struct {
	counter tokenizer.Counter
	model   string
	logger  *zap.Logger
	total   int
	failed  bool
}

func newTokenTally(counter tokenizer.Counter, model string, logger *zap.Logger) *tokenTally {
	return &tokenTally{counter: counter, model: model, logger: logger}
}

func (tally *tokenTally) available() bool {
	return tally.counter != nil && !tally.failed
}

func (tally *tokenTally) add(text string) {
	if !tally.available() {
		return
	}
	countResult, countError := tokenizer.CountText(tally.counter, text)
	if countError != nil {
		tally.failed = true
		tally.logger.Warn(logTokenFailureMessage, zap.String(logFieldTokenizer, tally.counter.Name()), zap.Error(countError))
		return
	}
	if countResult.Counted {
		tally.total += countResult.Tokens
	}
}
