// Package artifacts is the content-addressed cache for everything the
// pipeline derives from a video: the input copy, extracted audio, the
// subtitle/transcript pair, and the final render.
//
// Files are keyed by the SHA-256 of the source bytes, so renaming or moving
// a video never invalidates its cache entries. Subtitles and transcript are
// treated as a single unit: cache hits require both.
package artifacts
