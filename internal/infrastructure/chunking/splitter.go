package chunking

// Splitter cuts text into fixed-size rune windows. Chunks are contiguous and
// non-overlapping: concatenating them in order reproduces the input exactly,
// which the summarization pipeline relies on. Splits land wherever the window
// ends, with no sentence or word boundary awareness.
type Splitter struct {
	chunkSize int
}

const defaultChunkSize = 500000

func NewSplitter(chunkSize int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Splitter{chunkSize: chunkSize}
}

func (s *Splitter) Size() int { return s.chunkSize }

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]string, 0, (len(runes)+s.chunkSize-1)/s.chunkSize)
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
