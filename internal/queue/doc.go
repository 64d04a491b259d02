// Package queue persists the processing queue in SQLite.
//
// Items move pending -> transcribing -> transcribed -> rendering ->
// completed, or land in failed with a recorded error. The store applies WAL
// mode and retries busy errors so the watch loop and CLI can share one
// database.
package queue
