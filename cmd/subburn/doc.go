// Command subburn is the CLI for the subtitle pipeline: process a video
// directly, queue videos for the watch loop, and inspect configuration,
// cache, and queue state.
package main
