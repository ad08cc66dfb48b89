package text

// Default chunking parameters, in runes.
const (
	DefaultChunkSize = 4000
	DefaultOverlap   = 200
)

// Chunk is a contiguous piece of normalized text. Start and End are rune
// offsets into the source text, End exclusive.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// Split divides text into ordered, overlapping, sentence-aligned pieces.
// See SplitChunks for the exact rules.
func Split(text string, chunkSize, overlap int) []string {
	chunks := SplitChunks(text, chunkSize, overlap)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// SplitChunks divides text into chunks of roughly chunkSize runes.
//
// Text no longer than chunkSize is returned whole as a single chunk.
// Otherwise each chunk runs from the current start to the sentence boundary
// found at start+chunkSize, and the next chunk starts overlap runes before
// that cut. Dropping the first overlap runes of every chunk after the first
// and concatenating reproduces the input exactly.
//
// Out-of-range parameters are clamped: chunkSize to at least 1 and overlap
// into [0, chunkSize).
func SplitChunks(text string, chunkSize, overlap int) []Chunk {
	chunkSize, overlap = clampChunkParams(chunkSize, overlap)

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []Chunk{{Index: 0, Start: 0, End: len(runes), Text: text}}
	}

	var chunks []Chunk
	add := func(start, end int) {
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
	}

	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			add(start, len(runes))
			break
		}

		cut := findBoundary(runes, end)
		add(start, cut)

		next := cut - overlap
		if next < 0 {
			break
		}
		if next >= len(runes)-1 {
			// Stop rather than emit a one-rune chunk, but never drop unseen text.
			if cut < len(runes) {
				add(next, len(runes))
			}
			break
		}
		start = next
	}

	return chunks
}

func clampChunkParams(chunkSize, overlap int) (int, int) {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return chunkSize, overlap
}
