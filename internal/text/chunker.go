package text

// Chunk is a contiguous piece of a document, the unit of retrieval.
type Chunk struct {
	Index int
	Text  string
}

// Split cuts text into ordered chunks of at most maxSize runes, where each
// chunk shares exactly overlap trailing runes with the head of the next one.
// Chunk ends prefer natural boundaries (paragraph break, sentence end, word
// break) over hard cuts. Concatenating the chunks with the overlapping prefix
// of every chunk after the first removed reproduces the input exactly.
//
// Requires maxSize > 0 and 0 <= overlap < maxSize. Empty input yields nil.
func Split(text string, maxSize, overlap int) []Chunk {
	if maxSize <= 0 || overlap < 0 || overlap >= maxSize {
		return nil
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= maxSize {
		return []Chunk{{Index: 0, Text: text}}
	}

	var chunks []Chunk
	start := 0
	for {
		end := start + maxSize
		if end >= len(runes) {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:])})
			break
		}

		cut := cutPoint(runes, start, end, overlap)
		chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:cut])})
		start = cut - overlap
	}
	return chunks
}

// cutPoint picks where the chunk starting at start should end. It scans
// backwards from the hard limit looking for a paragraph break, then a line
// break, then a sentence end, then a word break. The scan floor keeps the cut
// past the overlap region so the next chunk always makes progress, and within
// the last quarter of the window so chunks stay reasonably full.
func cutPoint(runes []rune, start, end, overlap int) int {
	floor := start + overlap + 1
	if q := end - (end-start)/4; q > floor {
		floor = q
	}

	for i := end - 1; i >= floor; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= floor; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 2; i >= floor; i-- {
		if isSentenceEnd(runes[i]) && isSpace(runes[i+1]) {
			return i + 1
		}
	}
	for i := end - 1; i >= floor; i-- {
		if isSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
