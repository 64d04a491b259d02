// Package preflight verifies the environment before processing starts:
// required binaries on PATH, cache directory access, and free disk space.
package preflight
