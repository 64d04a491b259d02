package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"subburn/internal/captions"
	"subburn/internal/services"
)

// ExecConfig configures an engine that shells out to a whisper-style CLI.
type ExecConfig struct {
	// Binary is the transcription executable, e.g. "whisper".
	Binary string
	// Model selects the model size: base, small, medium, large.
	Model string
	// Family is "segment" or "chunked" and decides both the CLI flags and
	// which output shape gets parsed.
	Family string
	// TimeoutSeconds bounds a single run. Zero disables the limit.
	TimeoutSeconds int
}

// ExecEngine runs a transcription CLI and parses its JSON output.
type ExecEngine struct {
	cfg           ExecConfig
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewExecEngine creates an engine for the given configuration.
func NewExecEngine(cfg ExecConfig) *ExecEngine {
	if cfg.Binary == "" {
		cfg.Binary = "whisper"
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	if cfg.Family == "" {
		cfg.Family = "segment"
	}
	return &ExecEngine{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *ExecEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Family reports the engine's output shape.
func (e *ExecEngine) Family() string {
	return e.cfg.Family
}

// Model returns the configured model name for logging.
func (e *ExecEngine) Model() string {
	return e.cfg.Model
}

func (e *ExecEngine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs the CLI against the request's audio file and parses the
// JSON it writes next to it.
func (e *ExecEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	var result Result

	if req.AudioPath == "" {
		return result, services.Wrap(services.ErrValidation, "asr", "transcribe", "audio path required", nil)
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(req.AudioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrExternalTool, "asr", "transcribe", "ensure output dir", err)
	}

	if e.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	args := e.buildArgs(req.AudioPath, outputDir, req.Language)
	if err := e.run(ctx, e.cfg.Binary, args...); err != nil {
		return result, services.Wrap(services.ErrExternalTool, "asr", "transcribe", e.cfg.Binary, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	parsed, err := parseOutput(jsonPath, e.cfg.Family)
	if err != nil {
		return result, services.Wrap(services.ErrExternalTool, "asr", "transcribe", "parse engine output", err)
	}
	return parsed, nil
}

func (e *ExecEngine) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 16)
	args = append(args, source,
		"--model", e.cfg.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
	)
	if language != "" && language != "auto" {
		args = append(args, "--language", language)
	}
	switch e.cfg.Family {
	case "chunked":
		args = append(args, "--chunked_output", "True")
	default:
		args = append(args, "--word_timestamps", "True")
	}
	return args
}

// engineOutput mirrors the JSON the CLI writes. Segment engines populate
// segments (with optional per-word timing); chunked engines populate chunks,
// whose timestamp pair may contain nulls.
type engineOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Word  string   `json:"word"`
			Start *float64 `json:"start"`
			End   *float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
	Chunks []struct {
		Text      string     `json:"text"`
		Timestamp []*float64 `json:"timestamp"`
	} `json:"chunks"`
}

func parseOutput(path, family string) (Result, error) {
	var result Result

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", path, err)
	}
	var out engineOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return result, fmt.Errorf("decode %s: %w", path, err)
	}

	result.Text = strings.TrimSpace(out.Text)
	result.Language = out.Language

	if family == "chunked" {
		for _, chunk := range out.Chunks {
			c := captions.Chunk{Text: chunk.Text}
			if len(chunk.Timestamp) > 0 {
				c.Start = chunk.Timestamp[0]
			}
			if len(chunk.Timestamp) > 1 {
				c.End = chunk.Timestamp[1]
			}
			result.Chunks = append(result.Chunks, c)
		}
		return result, nil
	}

	for _, seg := range out.Segments {
		result.Segments = append(result.Segments, captions.Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
		for _, word := range seg.Words {
			result.Words = append(result.Words, captions.Word{
				Text:  word.Word,
				Start: word.Start,
				End:   word.End,
			})
		}
	}
	return result, nil
}
