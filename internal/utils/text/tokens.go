package text

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the BPE used by the gpt-4o family and the Claude-compatible estimate.
const tokenEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// EstimateTokens returns the number of BPE tokens in s. If the encoding
// cannot be loaded (e.g. offline without a tiktoken cache) it falls back to
// the rule of thumb of one token per four runes.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}

	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(tokenEncoding)
		if encodingErr != nil {
			slog.Debug("tiktoken encoding unavailable, using rune estimate",
				slog.String("encoding", tokenEncoding),
				slog.Any("error", encodingErr))
		}
	})

	if encodingErr != nil {
		return (CountRunes(s) + 3) / 4
	}
	return len(encoding.Encode(s, nil, nil))
}
