// Package asr shells out to a whisper-style transcription CLI and parses its
// timed JSON output.
//
// Engines come in two families. Segment engines return sentence-grouped
// segments plus word-level timestamps; chunked engines return phrase chunks
// whose bounds may be missing. The captions package turns either shape into
// subtitle cues.
package asr
