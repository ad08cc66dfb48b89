// Package text provides the text-processing core of the summarizer:
// normalization of raw document text, sentence-aligned chunking with overlap,
// and character/token counting helpers shared by the LLM adapters.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// All lengths in this package (max lengths, chunk sizes, overlaps, offsets)
// are measured in runes, so multi-byte characters are never split.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("fièvre")    // returns 6
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}
