package captions_test

import (
	"strings"
	"testing"

	"subburn/internal/captions"
)

func ptr(v float64) *float64 { return &v }

func TestAssembleSegmentsCopiesBoundsAndIndexes(t *testing.T) {
	segments := []captions.Segment{
		{Text: "  Hello there.  ", Start: 0.5, End: 2.25},
		{Text: "Second line", Start: 2.25, End: 4},
		{Text: "Third", Start: 4, End: 6.5},
	}
	cues := captions.AssembleSegments(segments)
	if len(cues) != len(segments) {
		t.Fatalf("got %d cues, want %d", len(cues), len(segments))
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Errorf("cue %d has index %d, want %d", i, cue.Index, i+1)
		}
		if cue.Start != segments[i].Start || cue.End != segments[i].End {
			t.Errorf("cue %d bounds %v-%v, want %v-%v", i, cue.Start, cue.End, segments[i].Start, segments[i].End)
		}
	}
	if cues[0].Text != "Hello there." {
		t.Errorf("text not trimmed: %q", cues[0].Text)
	}
}

func TestAssembleSegmentsEmitsBlankCues(t *testing.T) {
	// Blank segments still consume an index; this quirk is load-bearing for
	// consumers that count cues against engine segments.
	cues := captions.AssembleSegments([]captions.Segment{
		{Text: "one", Start: 0, End: 1},
		{Text: "   ", Start: 1, End: 2},
		{Text: "three", Start: 2, End: 3},
	})
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if cues[1].Text != "" {
		t.Errorf("blank segment text = %q, want empty", cues[1].Text)
	}
	if cues[2].Index != 3 {
		t.Errorf("index after blank cue = %d, want 3", cues[2].Index)
	}
}

func TestAssembleWordsRespectsSpanCap(t *testing.T) {
	// Ten words spaced one second apart: every cue must span at most 3s from
	// its own start, so at least 3 cues come out.
	var words []captions.Word
	for i := 0; i < 10; i++ {
		words = append(words, captions.Word{
			Text:  "w",
			Start: ptr(float64(i)),
			End:   ptr(float64(i + 1)),
		})
	}
	cues := captions.AssembleWords(words)
	if len(cues) < 3 {
		t.Fatalf("got %d cues, want at least 3", len(cues))
	}
	for _, cue := range cues {
		if span := cue.End - cue.Start; span > captions.MaxCueSpan {
			t.Errorf("cue %d spans %.2fs, cap is %.2fs", cue.Index, span, captions.MaxCueSpan)
		}
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Errorf("cue index %d, want %d", cue.Index, i+1)
		}
	}
}

func TestAssembleWordsJoinsWithSpaces(t *testing.T) {
	words := []captions.Word{
		{Text: "hello", Start: ptr(0.0), End: ptr(0.4)},
		{Text: "there", Start: ptr(0.5), End: ptr(0.9)},
		{Text: "friend", Start: ptr(1.0), End: ptr(1.4)},
	}
	cues := captions.AssembleWords(words)
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	if cues[0].Text != "hello there friend" {
		t.Errorf("text = %q", cues[0].Text)
	}
	if cues[0].Start != 0 || cues[0].End != 1.4 {
		t.Errorf("bounds %v-%v, want 0-1.4", cues[0].Start, cues[0].End)
	}
}

func TestAssembleWordsSkipsUnalignedTokens(t *testing.T) {
	words := []captions.Word{
		{Text: "kept", Start: ptr(0.0), End: ptr(0.5)},
		{Text: "dropped", Start: nil, End: ptr(0.9)},
		{Text: "dropped", Start: ptr(1.0), End: nil},
		{Text: "also", Start: ptr(1.2), End: ptr(1.6)},
	}
	cues := captions.AssembleWords(words)
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	if strings.Contains(cues[0].Text, "dropped") {
		t.Errorf("unaligned token leaked into cue text: %q", cues[0].Text)
	}
	if cues[0].Text != "kept also" {
		t.Errorf("text = %q, want %q", cues[0].Text, "kept also")
	}
}

func TestAssembleWordsAllUnalignedYieldsNoCues(t *testing.T) {
	words := []captions.Word{
		{Text: "a", Start: nil, End: nil},
		{Text: "b", Start: ptr(1.0), End: nil},
	}
	if cues := captions.AssembleWords(words); len(cues) != 0 {
		t.Fatalf("got %d cues, want 0", len(cues))
	}
}

func TestAssembleWordsCapMeasuredFromCueStart(t *testing.T) {
	// The third word arrives within 3s of the second but past 3s of the cue
	// start; the cap is measured from the cue start, so it must open a new cue.
	words := []captions.Word{
		{Text: "a", Start: ptr(0.0), End: ptr(0.5)},
		{Text: "b", Start: ptr(2.0), End: ptr(2.8)},
		{Text: "c", Start: ptr(3.5), End: ptr(4.0)},
	}
	cues := captions.AssembleWords(words)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].Text != "a b" || cues[1].Text != "c" {
		t.Errorf("cue texts %q / %q", cues[0].Text, cues[1].Text)
	}
}

func TestAssembleChunksFallbackTimestamps(t *testing.T) {
	chunks := []captions.Chunk{
		{Text: "first", Start: nil, End: ptr(2.0)},       // missing start -> 0
		{Text: "second", Start: ptr(2.0), End: nil},      // missing end -> start+3
		{Text: "third", Start: nil, End: nil},            // start -> previous end (5), end -> 8
		{Text: "fourth", Start: ptr(9.0), End: ptr(9.5)}, // explicit bounds kept
	}
	cues := captions.AssembleChunks(chunks)
	if len(cues) != 4 {
		t.Fatalf("got %d cues, want 4", len(cues))
	}
	expect := []struct{ start, end float64 }{
		{0, 2}, {2, 5}, {5, 8}, {9, 9.5},
	}
	for i, want := range expect {
		if cues[i].Start != want.start || cues[i].End != want.end {
			t.Errorf("cue %d bounds %v-%v, want %v-%v", i+1, cues[i].Start, cues[i].End, want.start, want.end)
		}
	}
}

func TestAssembleChunksEmptyInput(t *testing.T) {
	if cues := captions.AssembleChunks(nil); len(cues) != 0 {
		t.Fatalf("got %d cues, want 0", len(cues))
	}
}
