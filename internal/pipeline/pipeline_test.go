package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subburn/internal/artifacts"
	"subburn/internal/asr"
	"subburn/internal/captions"
	"subburn/internal/config"
	"subburn/internal/pipeline"
	"subburn/internal/queue"
)

type fakeTranscoder struct {
	extracted int
	burns     int
	lastGraph string
	burnErr   error
}

func (f *fakeTranscoder) ExtractAudio(_ context.Context, _, dest string) error {
	f.extracted++
	return os.WriteFile(dest, []byte("mp3"), 0o644)
}

func (f *fakeTranscoder) Burn(_ context.Context, _, dest, filterGraph string) error {
	if f.burnErr != nil {
		return f.burnErr
	}
	f.burns++
	f.lastGraph = filterGraph
	return os.WriteFile(dest, []byte("mp4"), 0o644)
}

type fakeEngine struct {
	family string
	result asr.Result
	err    error
	runs   int
}

func (f *fakeEngine) Transcribe(_ context.Context, _ asr.Request) (asr.Result, error) {
	f.runs++
	return f.result, f.err
}

func (f *fakeEngine) Family() string { return f.family }

type fakeEngines struct {
	engine     *fakeEngine
	lastFamily string
}

func (f *fakeEngines) Get(family, _ string) asr.Engine {
	f.lastFamily = family
	f.engine.family = family
	return f.engine
}

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) TranslateCues(_ context.Context, cues []captions.Cue, _ string) []captions.Cue {
	f.calls++
	out := make([]captions.Cue, len(cues))
	copy(out, cues)
	for i := range out {
		out[i].Text = strings.ToUpper(out[i].Text)
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func segmentResult() asr.Result {
	return asr.Result{
		Segments: []captions.Segment{
			{Text: "hello there", Start: 0, End: 1.5},
			{Text: "general kenobi", Start: 1.5, End: 3},
		},
		Words: []captions.Word{
			{Text: "hello", Start: ptr(0.0), End: ptr(0.7)},
			{Text: "there", Start: ptr(0.8), End: ptr(1.5)},
			{Text: "general", Start: ptr(1.5), End: ptr(2.2)},
			{Text: "kenobi", Start: ptr(2.3), End: ptr(3.0)},
		},
		Text: "hello there general kenobi",
	}
}

type fixture struct {
	cfg        *config.Config
	store      *artifacts.Store
	qstore     *queue.Store
	transcoder *fakeTranscoder
	engines    *fakeEngines
	translator *fakeTranslator
	runner     *pipeline.Runner
	source     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	store, err := artifacts.NewStore(cfg.Paths.CacheDir)
	if err != nil {
		t.Fatalf("artifacts store: %v", err)
	}
	qstore, err := queue.OpenPath(filepath.Join(dir, "queue.db"))
	if err != nil {
		t.Fatalf("queue store: %v", err)
	}
	t.Cleanup(func() { _ = qstore.Close() })

	source := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(source, []byte("video content"), 0o644); err != nil {
		t.Fatal(err)
	}

	transcoder := &fakeTranscoder{}
	engines := &fakeEngines{engine: &fakeEngine{result: segmentResult()}}
	translator := &fakeTranslator{}
	processor := pipeline.NewProcessor(&cfg, store, engines, transcoder, translator, nil)

	return &fixture{
		cfg:        &cfg,
		store:      store,
		qstore:     qstore,
		transcoder: transcoder,
		engines:    engines,
		translator: translator,
		runner:     pipeline.NewRunner(processor, qstore, nil),
		source:     source,
	}
}

func (f *fixture) enqueue(t *testing.T, task queue.Task, lang string) *queue.Item {
	t.Helper()
	item, err := f.qstore.NewFile(context.Background(), f.source, "talk", task, lang)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return item
}

func TestRunTranscribeProducesAllArtifacts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.enqueue(t, queue.TaskTranscribe, "en")

	outcome, err := f.runner.Run(ctx, item)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if outcome.CueCount != 2 {
		t.Errorf("cue count = %d", outcome.CueCount)
	}
	if !f.store.HasCaptionPair(outcome.Fingerprint) || !f.store.HasRender(outcome.Fingerprint) {
		t.Error("artifacts missing after run")
	}
	srt, transcript, err := f.store.ReadCaptionPair(outcome.Fingerprint)
	if err != nil {
		t.Fatalf("ReadCaptionPair: %v", err)
	}
	if !strings.Contains(srt, "00:00:00,000 --> 00:00:01,500") || !strings.Contains(srt, "hello there") {
		t.Errorf("srt = %q", srt)
	}
	if !strings.Contains(transcript, "general kenobi") {
		t.Errorf("transcript = %q", transcript)
	}

	loaded, err := f.qstore.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != queue.StatusCompleted {
		t.Errorf("status = %s", loaded.Status)
	}
	if loaded.RenderedFile == "" || loaded.SubtitleFile == "" || loaded.TranscriptFile == "" || loaded.AudioFile == "" {
		t.Errorf("artifact paths not recorded: %+v", loaded)
	}
	if f.translator.calls != 0 {
		t.Error("transcription must not invoke the translator")
	}
	if !strings.Contains(f.transcoder.lastGraph, "subtitles=") || !strings.Contains(f.transcoder.lastGraph, "force_style='") {
		t.Errorf("filter graph = %q", f.transcoder.lastGraph)
	}
}

func TestRunTranslateUsesWordCuesAndTranslator(t *testing.T) {
	f := newFixture(t)
	item := f.enqueue(t, queue.TaskTranslate, "es")

	outcome, err := f.runner.Run(context.Background(), item)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.translator.calls != 1 {
		t.Errorf("translator calls = %d", f.translator.calls)
	}
	// All four words land within the 3s cap, so word assembly yields one cue.
	if outcome.CueCount != 1 {
		t.Errorf("cue count = %d", outcome.CueCount)
	}
	srt, _, err := f.store.ReadCaptionPair(outcome.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(srt, "HELLO THERE GENERAL KENOBI") {
		t.Errorf("translated text missing: %q", srt)
	}
}

func TestRunSecondPassServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.runner.Run(ctx, f.enqueue(t, queue.TaskTranscribe, "en")); err != nil {
		t.Fatalf("first run: %v", err)
	}
	runs := f.engines.engine.runs
	burns := f.transcoder.burns

	outcome, err := f.runner.Run(ctx, f.enqueue(t, queue.TaskTranscribe, "en"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !outcome.CachedCaptions || !outcome.CachedRender {
		t.Errorf("expected cache hits: %+v", outcome)
	}
	if f.engines.engine.runs != runs || f.transcoder.burns != burns {
		t.Error("cache hit should not re-run external tools")
	}
}

func TestRunRoutesChunkedOnlyLanguage(t *testing.T) {
	f := newFixture(t)
	start, end := 0.0, 2.0
	f.engines.engine.result = asr.Result{
		Chunks: []captions.Chunk{
			{Text: "akwaaba", Start: &start, End: &end},
			{Text: "wo ho te sen"},
		},
	}
	item := f.enqueue(t, queue.TaskTranscribe, "ak")

	outcome, err := f.runner.Run(context.Background(), item)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.engines.lastFamily != "chunked" {
		t.Errorf("family = %q", f.engines.lastFamily)
	}
	if outcome.CueCount != 2 {
		t.Errorf("cue count = %d", outcome.CueCount)
	}
	srt, _, err := f.store.ReadCaptionPair(outcome.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	// The second chunk has no timestamps: start falls back to the previous
	// end, duration to 3s.
	if !strings.Contains(srt, "00:00:02,000 --> 00:00:05,000") {
		t.Errorf("fallback timing missing: %q", srt)
	}
}

func TestRunFailureMarksItemFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.transcoder.burnErr = errors.New("ffmpeg: filter parse error")
	item := f.enqueue(t, queue.TaskTranscribe, "en")

	if _, err := f.runner.Run(ctx, item); err == nil {
		t.Fatal("expected failure")
	}
	loaded, err := f.qstore.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != queue.StatusFailed {
		t.Errorf("status = %s", loaded.Status)
	}
	if !strings.Contains(loaded.ErrorMessage, "filter parse error") {
		t.Errorf("error message = %q", loaded.ErrorMessage)
	}
	// Captions survived the render failure, so a retry can reuse them.
	if !f.store.HasCaptionPair(loaded.Fingerprint) {
		t.Error("caption pair should persist across render failure")
	}
}

func TestRunDegradesToEmptyCaptionsOnEngineFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.engines.engine.err = errors.New("whisper: model load failed")
	item := f.enqueue(t, queue.TaskTranscribe, "en")

	outcome, err := f.runner.Run(ctx, item)
	if err != nil {
		t.Fatalf("engine failure must not abort the run: %v", err)
	}
	if outcome.CueCount != 0 {
		t.Errorf("cue count = %d, want 0", outcome.CueCount)
	}
	// The empty pair is still written so the run completes and is cacheable.
	if !f.store.HasCaptionPair(outcome.Fingerprint) {
		t.Error("caption pair missing after degraded run")
	}
	srt, transcript, err := f.store.ReadCaptionPair(outcome.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if srt != "" || transcript != "" {
		t.Errorf("degraded pair not empty: srt=%q transcript=%q", srt, transcript)
	}

	loaded, err := f.qstore.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != queue.StatusCompleted {
		t.Errorf("status = %s, want %s", loaded.Status, queue.StatusCompleted)
	}
}

func TestRunRequestSkipsRenderWithoutBurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.enqueue(t, queue.TaskTranscribe, "en")

	req, err := pipeline.RequestFromConfig(f.cfg, queue.TaskTranscribe, "en")
	if err != nil {
		t.Fatal(err)
	}
	req.Burn = false

	outcome, err := f.runner.RunRequest(ctx, item, req)
	if err != nil {
		t.Fatalf("RunRequest: %v", err)
	}
	if f.transcoder.burns != 0 {
		t.Errorf("burns = %d, want 0", f.transcoder.burns)
	}
	if outcome.RenderPath != "" || f.store.HasRender(outcome.Fingerprint) {
		t.Error("render produced without --burn")
	}
	if !f.store.HasCaptionPair(outcome.Fingerprint) {
		t.Error("caption pair missing")
	}

	loaded, err := f.qstore.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != queue.StatusCompleted {
		t.Errorf("status = %s", loaded.Status)
	}
	if loaded.RenderedFile != "" {
		t.Errorf("rendered file recorded without burn: %q", loaded.RenderedFile)
	}
}

func TestRunRequestExtractsMP3(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.enqueue(t, queue.TaskTranscribe, "en")

	req, err := pipeline.RequestFromConfig(f.cfg, queue.TaskTranscribe, "en")
	if err != nil {
		t.Fatal(err)
	}
	req.Burn = false
	req.ExtractMP3 = true

	outcome, err := f.runner.RunRequest(ctx, item, req)
	if err != nil {
		t.Fatalf("RunRequest: %v", err)
	}
	if outcome.AudioPath == "" || !f.store.HasAudio(outcome.Fingerprint) {
		t.Errorf("audio artifact missing: %+v", outcome)
	}
	// The transcription stage already extracted audio as its intermediate,
	// so the action phase serves it from cache.
	if !outcome.CachedAudio {
		t.Error("expected the transcription intermediate to be reused")
	}

	loaded, err := f.qstore.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AudioFile != outcome.AudioPath {
		t.Errorf("audio file = %q, want %q", loaded.AudioFile, outcome.AudioPath)
	}
}

func TestRunNextHonorsQueueOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	processed, err := f.runner.RunNext(ctx)
	if err != nil || processed {
		t.Fatalf("empty queue: processed=%v err=%v", processed, err)
	}

	item := f.enqueue(t, queue.TaskTranscribe, "en")
	processed, err = f.runner.RunNext(ctx)
	if err != nil {
		t.Fatalf("RunNext: %v", err)
	}
	if !processed {
		t.Fatal("expected an item to be processed")
	}
	loaded, _ := f.qstore.GetByID(ctx, item.ID)
	if loaded.Status != queue.StatusCompleted {
		t.Errorf("status = %s", loaded.Status)
	}
}

func TestRequestFromConfigRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Scale = "4k"
	if _, err := pipeline.RequestFromConfig(&cfg, queue.TaskTranscribe, "en"); err == nil {
		t.Error("bad scale accepted")
	}

	cfg = config.Default()
	cfg.Render.Background = "glow"
	if _, err := pipeline.RequestFromConfig(&cfg, queue.TaskTranscribe, "en"); err == nil {
		t.Error("bad background accepted")
	}

	cfg = config.Default()
	if _, err := pipeline.RequestFromConfig(&cfg, queue.TaskTranscribe, "klingon"); err == nil {
		t.Error("unsupported language accepted")
	}
}
