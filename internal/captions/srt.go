package captions

import (
	"fmt"
	"io"
	"strings"

	"subburn/internal/timecode"
)

// WriteSRT renders cues in SRT form: index, timestamp pair, text, blank line.
func WriteSRT(w io.Writer, cues []Cue) error {
	for _, cue := range cues {
		_, err := fmt.Fprintf(
			w,
			"%d\n%s --> %s\n%s\n\n",
			cue.Index,
			timecode.Format(cue.Start),
			timecode.Format(cue.End),
			cue.Text,
		)
		if err != nil {
			return fmt.Errorf("write srt cue %d: %w", cue.Index, err)
		}
	}
	return nil
}

// WriteTranscript renders the plain-text transcript, one cue text per line.
func WriteTranscript(w io.Writer, cues []Cue) error {
	for _, cue := range cues {
		if _, err := fmt.Fprintf(w, "%s\n", cue.Text); err != nil {
			return fmt.Errorf("write transcript line %d: %w", cue.Index, err)
		}
	}
	return nil
}

// RenderSRT returns the SRT serialization as a string.
func RenderSRT(cues []Cue) string {
	var sb strings.Builder
	_ = WriteSRT(&sb, cues)
	return sb.String()
}

// RenderTranscript returns the transcript serialization as a string.
func RenderTranscript(cues []Cue) string {
	var sb strings.Builder
	_ = WriteTranscript(&sb, cues)
	return sb.String()
}
