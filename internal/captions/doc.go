// Package captions assembles raw speech-recognition output into timed caption
// cues and serializes them as SRT subtitles and plain transcripts.
//
// Three input shapes are supported: segment-resolution output with explicit
// bounds, word-resolution tokens that must be merged into bounded cues, and
// pre-segmented chunks whose timestamps may be missing. Assembly is a pure,
// deterministic transformation; the same input always yields the same cue
// sequence, so serialized outputs are byte-for-byte reproducible.
package captions
