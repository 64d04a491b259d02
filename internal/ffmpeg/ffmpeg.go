package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subburn/internal/services"
)

// Transcoder runs ffmpeg for audio extraction and subtitle burn-in.
type Transcoder struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// New creates a transcoder using the given ffmpeg binary. An empty binary
// falls back to "ffmpeg" on PATH.
func New(binary string) *Transcoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	t.commandRunner = runner
}

func (t *Transcoder) run(ctx context.Context, args ...string) error {
	if t.commandRunner != nil {
		return t.commandRunner(ctx, t.binary, args...)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// runToFile executes ffmpeg writing to a temporary sibling of dest and
// promotes the result with a rename, so readers never observe partial output.
func (t *Transcoder) runToFile(ctx context.Context, dest string, args func(tmp string) []string) error {
	if dest == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "run", "destination required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "ensure destination dir", err)
	}
	tmp := dest + ".tmp" + filepath.Ext(dest)
	defer os.Remove(tmp)

	if err := t.run(ctx, args(tmp)...); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "promote output", err)
	}
	return nil
}

// ExtractAudio pulls the audio track of source into an MP3 file suitable for
// transcription.
func (t *Transcoder) ExtractAudio(ctx context.Context, source, dest string) error {
	if source == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "extract audio", "source required", nil)
	}
	return t.runToFile(ctx, dest, func(tmp string) []string {
		return []string{
			"-y",
			"-i", source,
			"-vn",
			"-acodec", "libmp3lame",
			"-q:a", "2",
			tmp,
		}
	})
}

// Burn renders source to dest applying the supplied filter graph, which
// carries the scale, subtitles, and watermark stages. Audio is copied
// untouched.
func (t *Transcoder) Burn(ctx context.Context, source, dest, filterGraph string) error {
	if source == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "burn", "source required", nil)
	}
	if filterGraph == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "burn", "filter graph required", nil)
	}
	return t.runToFile(ctx, dest, func(tmp string) []string {
		return []string{
			"-y",
			"-i", source,
			"-vf", filterGraph,
			"-c:a", "copy",
			tmp,
		}
	})
}
