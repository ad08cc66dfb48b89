package text

// boundarySearchWindow is how far past the proposed cut FindSentenceBoundary looks.
const boundarySearchWindow = 500

// sentenceTerminators are checked in priority order. The first pattern that
// occurs anywhere in the window wins, even if a later pattern occurs earlier.
var sentenceTerminators = [...][2]rune{
	{'.', ' '},
	{'?', ' '},
	{'!', ' '},
	{'.', '\n'},
	{'?', '\n'},
	{'!', '\n'},
}

// FindSentenceBoundary returns the rune offset just after the first sentence
// terminator found in the 500-rune window starting at position. Terminators
// are a '.', '?' or '!' followed by a space or newline, tried in that priority
// order. If none occurs in the window, position is returned unchanged and the
// caller ends up cutting mid-sentence.
func FindSentenceBoundary(text string, position int) int {
	return findBoundary([]rune(text), position)
}

func findBoundary(runes []rune, position int) int {
	if position < 0 {
		position = 0
	}
	limit := min(position+boundarySearchWindow, len(runes))

	for _, term := range sentenceTerminators {
		for i := position; i+1 < limit; i++ {
			if runes[i] == term[0] && runes[i+1] == term[1] {
				return i + len(term)
			}
		}
	}
	return position
}
