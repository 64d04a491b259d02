package captions

import "strings"

// MaxCueSpan bounds how long a word-merged cue may run, measured from the
// cue's own start. Word-resolution engines emit no sentence boundaries, so
// cues are cut on a fixed span to stay readable. Deliberately crude: a token
// arriving within 3s of the previous word but past 3s of the cue start still
// opens a new cue.
const MaxCueSpan = 3.0

// chunkFallbackSpan is the assumed duration of a chunk whose end timestamp is
// missing.
const chunkFallbackSpan = 3.0

// AssembleSegments converts segment-resolution engine output into cues, one
// per segment, timestamps copied verbatim.
//
// A segment whose text trims to empty still emits a cue with blank text. That
// matches the long-standing behavior of this pipeline; downstream consumers
// tolerate blank cues, so it is preserved rather than filtered.
func AssembleSegments(segments []Segment) []Cue {
	cues := make([]Cue, 0, len(segments))
	for i, segment := range segments {
		cues = append(cues, Cue{
			Index: i + 1,
			Start: segment.Start,
			End:   segment.End,
			Text:  strings.TrimSpace(segment.Text),
		})
	}
	return cues
}

// AssembleWords merges word-resolution tokens into bounded cues. A single
// forward pass keeps one open cue: a token joins it while the token's end
// stays within MaxCueSpan of the cue's start, otherwise the cue is emitted
// and the token seeds the next one.
//
// Tokens missing either timestamp are dropped entirely; they contribute no
// text and do not disturb assembly of their neighbors. Input where every
// token is unaligned yields zero cues.
func AssembleWords(words []Word) []Cue {
	var cues []Cue
	var open *Cue

	for _, word := range words {
		if word.Start == nil || word.End == nil {
			continue
		}
		text := strings.TrimSpace(word.Text)
		if open == nil {
			open = &Cue{Start: *word.Start, End: *word.End, Text: text}
			continue
		}
		if *word.End-open.Start <= MaxCueSpan {
			open.End = *word.End
			if text != "" {
				if open.Text != "" {
					open.Text += " "
				}
				open.Text += text
			}
			continue
		}
		open.Index = len(cues) + 1
		cues = append(cues, *open)
		open = &Cue{Start: *word.Start, End: *word.End, Text: text}
	}

	if open != nil {
		open.Index = len(cues) + 1
		cues = append(cues, *open)
	}
	return cues
}

// AssembleChunks converts pre-segmented chunks into cues, repairing missing
// timestamps: a missing start falls back to the previous cue's end (0 for the
// first chunk), a missing end falls back to start + 3s.
func AssembleChunks(chunks []Chunk) []Cue {
	cues := make([]Cue, 0, len(chunks))
	lastKnown := 0.0
	for i, chunk := range chunks {
		start := lastKnown
		if chunk.Start != nil {
			start = *chunk.Start
		}
		end := start + chunkFallbackSpan
		if chunk.End != nil {
			end = *chunk.End
		}
		lastKnown = end
		cues = append(cues, Cue{
			Index: i + 1,
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(chunk.Text),
		})
	}
	return cues
}
