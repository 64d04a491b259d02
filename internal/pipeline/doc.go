// Package pipeline turns a video into a subtitled render: fingerprint the
// source, extract audio, transcribe, optionally translate, serialize the
// subtitle/transcript pair, and burn the captions in with ffmpeg.
//
// Every derived artifact is cached by content fingerprint, so reprocessing
// the same video skips whichever stages already have output. The Processor
// holds the stage logic; the Runner wraps it with queue status transitions.
package pipeline
