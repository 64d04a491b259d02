package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subburn/internal/artifacts"
	"subburn/internal/asr"
	"subburn/internal/captions"
	"subburn/internal/config"
	"subburn/internal/pipeline"
	"subburn/internal/queue"
	"subburn/internal/watch"
)

type stubTranscoder struct{}

func (stubTranscoder) ExtractAudio(_ context.Context, _, dest string) error {
	return os.WriteFile(dest, []byte("mp3"), 0o644)
}

func (stubTranscoder) Burn(_ context.Context, _, dest, _ string) error {
	return os.WriteFile(dest, []byte("mp4"), 0o644)
}

type stubEngine struct{}

func (stubEngine) Transcribe(_ context.Context, _ asr.Request) (asr.Result, error) {
	return asr.Result{
		Segments: []captions.Segment{{Text: "hi", Start: 0, End: 1}},
		Text:     "hi",
	}, nil
}

func (stubEngine) Family() string { return "segment" }

type stubEngines struct{}

func (stubEngines) Get(_, _ string) asr.Engine { return stubEngine{} }

type harness struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	qstore  *queue.Store
	watcher *watch.Watcher
	source  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Watch.PollIntervalSeconds = 1
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	store, err := artifacts.NewStore(cfg.Paths.CacheDir)
	if err != nil {
		t.Fatal(err)
	}
	qstore, err := queue.OpenPath(filepath.Join(dir, "queue.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = qstore.Close() })

	processor := pipeline.NewProcessor(&cfg, store, stubEngines{}, stubTranscoder{}, nil, nil)
	runner := pipeline.NewRunner(processor, qstore, nil)
	watcher, err := watch.New(&cfg, runner, qstore, nil)
	if err != nil {
		t.Fatal(err)
	}

	source := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(source, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &harness{cfg: &cfg, runner: runner, qstore: qstore, watcher: watcher, source: source}
}

func TestRunProcessesPendingAndStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	item, err := h.qstore.NewFile(ctx, h.source, "clip", queue.TaskTranscribe, "en")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- h.watcher.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for {
		loaded, err := h.qstore.GetByID(ctx, item.ID)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Status == queue.StatusCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("item never completed, status %s", loaded.Status)
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.watcher.Run(ctx) }()

	// Wait for the lock file to exist before starting the competitor.
	deadline := time.After(5 * time.Second)
	for {
		if _, err := os.Stat(h.watcher.LockPath()); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("lock file never appeared")
		case <-time.After(20 * time.Millisecond):
		}
	}
	time.Sleep(100 * time.Millisecond)

	second, err := watch.New(h.cfg, h.runner, h.qstore, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Run(ctx); err == nil {
		t.Error("second instance over the same lock should refuse to run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first watcher did not stop")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := watch.New(nil, nil, nil, nil); err == nil {
		t.Error("nil collaborators accepted")
	}
}
