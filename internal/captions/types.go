package captions

// Segment is sentence-grouped engine output with explicit bounds. Engines in
// this family always populate both timestamps.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Word is a single timestamped token from a word-resolution engine. Either
// bound may be nil when the engine could not align the token.
type Word struct {
	Text  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Chunk is pre-segmented engine output whose bounds may be missing. Unlike
// words, a chunk with missing timestamps is still emitted after the fallback
// rules fill the gaps.
type Chunk struct {
	Text  string   `json:"text"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Cue is one timed caption entry. Indices are 1-based and contiguous over the
// emitted sequence.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}
