package text

import (
	"regexp"
	"strings"
	"unicode"
)

// sentenceCutRatio is the fraction of maxLength a period must reach
// for Prepare to cut there instead of hard-truncating.
const sentenceCutRatio = 0.8

// paragraphBreak matches a newline, any whitespace, then another newline.
var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Prepare cleans raw document text into the canonical form used for chunking
// and prompting.
//
// Characters outside the allow-set (letters, digits, marks, underscore,
// whitespace and the punctuation `. , ; : ! ? ( ) - = [ ]`) are removed, so
// section markers such as "=== notes.txt ===" and "[Assessment]" survive.
// Runs of horizontal whitespace collapse to one space, blank-line runs
// collapse to a single "\n\n" paragraph break, and the result is trimmed.
//
// When maxLength > 0 and the cleaned text is longer, it is truncated to
// maxLength runes; if the last '.' in the truncated text sits at or beyond
// 80% of maxLength the text is cut just after that period instead.
//
// Prepare is pure and idempotent: Prepare(Prepare(s, 0), 0) == Prepare(s, 0).
func Prepare(text string, maxLength int) string {
	cleaned := filterChars(normalizeLineEndings(text))
	cleaned = collapseHorizontalSpace(cleaned)
	cleaned = paragraphBreak.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	if maxLength > 0 {
		cleaned = truncateAtSentence(cleaned, maxLength)
	}

	return strings.TrimSpace(cleaned)
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func isAllowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '_', '.', ',', ';', ':', '!', '?', '(', ')', '-', '=', '[', ']':
		return true
	}
	return false
}

func filterChars(s string) string {
	return strings.Map(func(r rune) rune {
		if isAllowed(r) {
			return r
		}
		return -1
	}, s)
}

// collapseHorizontalSpace turns every run of non-newline whitespace into a single space.
func collapseHorizontalSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if r != '\n' && unicode.IsSpace(r) {
			if !inRun {
				b.WriteRune(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func truncateAtSentence(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	runes = runes[:maxLength]
	lastPeriod := -1
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '.' {
			lastPeriod = i
			break
		}
	}

	if lastPeriod >= 0 && float64(lastPeriod) >= sentenceCutRatio*float64(maxLength) {
		runes = runes[:lastPeriod+1]
	}
	return string(runes)
}
