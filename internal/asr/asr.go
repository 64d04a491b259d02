package asr

import (
	"context"

	"subburn/internal/captions"
)

// Request describes a single transcription run.
type Request struct {
	// AudioPath is the extracted audio file to transcribe.
	AudioPath string
	// OutputDir is where the engine writes its output files.
	OutputDir string
	// Language is an ISO 639-1 code or "auto" for engine-side detection.
	Language string
}

// Result is the raw timed output of an engine run. Exactly one of the three
// shapes is populated depending on the engine family.
type Result struct {
	// Segments carry sentence-grouped output from segment-family engines.
	Segments []captions.Segment
	// Words carry word-level timestamps from segment-family engines run with
	// word alignment enabled.
	Words []captions.Word
	// Chunks carry phrase-level output from chunked-family engines. Chunk
	// bounds may be missing.
	Chunks []captions.Chunk
	// Text is the full plain-text transcription.
	Text string
	// Language is the language the engine detected or was told to use.
	Language string
}

// Engine transcribes audio into timed text.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
	// Family reports which output shape the engine produces, "segment" or
	// "chunked".
	Family() string
}
