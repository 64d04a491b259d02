package asr_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subburn/internal/asr"
	"subburn/internal/services"
)

func writeEngineOutput(t *testing.T, dir, base, payload string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, base+".json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write engine output: %v", err)
	}
}

func TestTranscribeSegmentFamily(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := asr.NewExecEngine(asr.ExecConfig{Model: "base", Family: "segment"})
	var gotArgs []string
	engine.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "whisper" {
			t.Errorf("binary = %q", name)
		}
		gotArgs = args
		writeEngineOutput(t, dir, "clip", `{
			"text": "hello world",
			"language": "en",
			"segments": [
				{"start": 0.0, "end": 1.5, "text": "hello world",
				 "words": [
					{"word": "hello", "start": 0.0, "end": 0.7},
					{"word": "world", "start": 0.8, "end": 1.5}
				 ]}
			]
		}`)
		return nil
	})

	result, err := engine.Transcribe(context.Background(), asr.Request{AudioPath: audio, Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(result.Segments) != 1 || result.Segments[0].End != 1.5 {
		t.Errorf("segments = %+v", result.Segments)
	}
	if len(result.Words) != 2 || result.Words[0].Text != "hello" {
		t.Errorf("words = %+v", result.Words)
	}
	if result.Text != "hello world" || result.Language != "en" {
		t.Errorf("text=%q language=%q", result.Text, result.Language)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--model base") || !strings.Contains(joined, "--language en") {
		t.Errorf("args = %q", joined)
	}
	if !strings.Contains(joined, "--word_timestamps") {
		t.Errorf("segment family should request word timestamps: %q", joined)
	}
}

func TestTranscribeChunkedFamilyToleratesNullBounds(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := asr.NewExecEngine(asr.ExecConfig{Family: "chunked"})
	engine.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		writeEngineOutput(t, dir, "clip", `{
			"text": "a b",
			"chunks": [
				{"text": "a", "timestamp": [0.0, 2.0]},
				{"text": "b", "timestamp": [null, null]}
			]
		}`)
		return nil
	})

	result, err := engine.Transcribe(context.Background(), asr.Request{AudioPath: audio})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("chunks = %+v", result.Chunks)
	}
	if result.Chunks[0].Start == nil || *result.Chunks[0].End != 2.0 {
		t.Errorf("first chunk bounds = %+v", result.Chunks[0])
	}
	if result.Chunks[1].Start != nil || result.Chunks[1].End != nil {
		t.Errorf("null bounds should stay nil: %+v", result.Chunks[1])
	}
}

func TestTranscribeRunnerFailure(t *testing.T) {
	engine := asr.NewExecEngine(asr.ExecConfig{})
	engine.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		return errors.New("model not found")
	})

	_, err := engine.Transcribe(context.Background(), asr.Request{AudioPath: filepath.Join(t.TempDir(), "x.mp3")})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("tool diagnostics lost: %v", err)
	}
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	engine := asr.NewExecEngine(asr.ExecConfig{})
	_, err := engine.Transcribe(context.Background(), asr.Request{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCacheReturnsSameEngine(t *testing.T) {
	built := 0
	cache := asr.NewCache(func(family, model string) asr.Engine {
		built++
		return asr.NewExecEngine(asr.ExecConfig{Family: family, Model: model})
	})

	a := cache.Get("segment", "base")
	b := cache.Get("segment", "base")
	c := cache.Get("chunked", "base")
	if a != b {
		t.Error("same pair should reuse the engine")
	}
	if a == c {
		t.Error("different family should build a new engine")
	}
	if built != 2 {
		t.Errorf("factory called %d times", built)
	}
}
