// Package ffmpeg wraps the ffmpeg binary for the two jobs the pipeline
// needs: pulling an MP3 audio track out of a video and burning styled
// subtitles into a new render. All output files are written to a temporary
// path and promoted by rename.
package ffmpeg
