// Package translate talks to a LibreTranslate-compatible service and shields
// the caption pipeline from its failures.
//
// The Interceptor guarantees that translation can only improve output, never
// lose it: a failed request leaves the original text in place. Batch cue
// translation runs with bounded parallelism and an optional request rate cap.
package translate
