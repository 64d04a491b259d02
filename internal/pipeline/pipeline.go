package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"subburn/internal/artifacts"
	"subburn/internal/asr"
	"subburn/internal/captions"
	"subburn/internal/config"
	"subburn/internal/language"
	"subburn/internal/logging"
	"subburn/internal/overlay"
	"subburn/internal/queue"
	"subburn/internal/services"
)

// Transcoder is the slice of the ffmpeg wrapper the pipeline needs.
type Transcoder interface {
	ExtractAudio(ctx context.Context, source, dest string) error
	Burn(ctx context.Context, source, dest, filterGraph string) error
}

// EngineProvider hands out transcription engines per (family, model) pair.
type EngineProvider interface {
	Get(family, model string) asr.Engine
}

// Translator rewrites cue text into the target language, keeping originals
// for cues it cannot translate.
type Translator interface {
	TranslateCues(ctx context.Context, cues []captions.Cue, source string) []captions.Cue
}

// Request carries the per-run options resolved from config and CLI flags.
// Burn and ExtractMP3 select the action phase: captions are always produced,
// the rendered copy and the standalone MP3 only on request.
type Request struct {
	Task       queue.Task
	Language   string // spoken language code or "auto"
	Burn       bool
	ExtractMP3 bool
	Scale      overlay.ScaleTarget
	Style      overlay.StyleParams
	Watermark  overlay.Watermark
}

// RequestFromConfig builds the default request for a task from the render
// section of the configuration.
func RequestFromConfig(cfg *config.Config, task queue.Task, lang string) (Request, error) {
	scale, ok := overlay.ParseScaleTarget(cfg.Render.Scale)
	if !ok {
		return Request{}, services.Wrap(services.ErrConfiguration, "pipeline", "request", "unknown scale "+cfg.Render.Scale, nil)
	}
	background, ok := overlay.ParseBackground(cfg.Render.Background)
	if !ok {
		return Request{}, services.Wrap(services.ErrConfiguration, "pipeline", "request", "unknown background "+cfg.Render.Background, nil)
	}
	if lang == "" {
		lang = cfg.ASR.Language
	}
	normalized, ok := language.Normalize(lang)
	if !ok {
		return Request{}, services.Wrap(services.ErrValidation, "pipeline", "request", "unsupported language "+lang, nil)
	}
	return Request{
		Task:     task,
		Language: normalized,
		Burn:     true,
		Scale:    scale,
		Style: overlay.StyleParams{
			FontName:    cfg.Render.FontName,
			FontSize:    cfg.Render.FontSize,
			TextColor:   cfg.Render.TextColor,
			StrokeWidth: cfg.Render.StrokeWidth,
			StrokeColor: cfg.Render.StrokeColor,
			Background:  background,
			ShadowWidth: cfg.Render.ShadowWidth,
			ShadowColor: cfg.Render.ShadowColor,
			BoxColor:    cfg.Render.BoxColor,
			BoxOpacity:  cfg.Render.BoxOpacity,
		},
		Watermark: overlay.Watermark{
			Text:     cfg.Render.WatermarkText,
			FontSize: cfg.Render.WatermarkSize,
			Opacity:  cfg.Render.WatermarkOpacity,
		},
	}, nil
}

// Outcome summarizes what a Process run produced and which stages were
// served from cache.
type Outcome struct {
	Fingerprint    string
	SubtitlePath   string
	TranscriptPath string
	RenderPath     string
	AudioPath      string
	CueCount       int
	CachedCaptions bool
	CachedRender   bool
	CachedAudio    bool
}

// Processor drives a queue item through fingerprinting, transcription,
// optional translation, and subtitle burn-in.
type Processor struct {
	cfg        *config.Config
	store      *artifacts.Store
	engines    EngineProvider
	transcoder Transcoder
	translator Translator
	logger     *slog.Logger
}

// NewProcessor wires a processor from its collaborators. translator may be
// nil when translation is never requested.
func NewProcessor(cfg *config.Config, store *artifacts.Store, engines EngineProvider, transcoder Transcoder, translator Translator, logger *slog.Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		store:      store,
		engines:    engines,
		transcoder: transcoder,
		translator: translator,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs the full pipeline for one item, updating its artifact paths
// and leaving status transitions to the caller.
func (p *Processor) Process(ctx context.Context, item *queue.Item, req Request) (Outcome, error) {
	var outcome Outcome

	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	if item.ID != 0 {
		ctx = services.WithItemID(ctx, item.ID)
	}

	fingerprint, input, err := p.stageIntake(ctx, item)
	if err != nil {
		return outcome, err
	}
	outcome.Fingerprint = fingerprint
	outcome.SubtitlePath = p.store.SubtitlePath(fingerprint)
	outcome.TranscriptPath = p.store.TranscriptPath(fingerprint)
	item.Fingerprint = fingerprint

	cueCount, cached, err := p.stageCaptions(ctx, item, req, fingerprint)
	if err != nil {
		return outcome, err
	}
	outcome.CueCount = cueCount
	outcome.CachedCaptions = cached
	item.SubtitleFile = outcome.SubtitlePath
	item.TranscriptFile = outcome.TranscriptPath

	if req.ExtractMP3 {
		cachedAudio, err := p.stageExtract(ctx, fingerprint)
		if err != nil {
			return outcome, err
		}
		outcome.AudioPath = p.store.AudioPath(fingerprint)
		outcome.CachedAudio = cachedAudio
		item.AudioFile = outcome.AudioPath
	}

	if req.Burn {
		cachedRender, err := p.stageRender(ctx, req, fingerprint, input)
		if err != nil {
			return outcome, err
		}
		outcome.RenderPath = p.store.RenderPath(fingerprint)
		outcome.CachedRender = cachedRender
		item.RenderedFile = outcome.RenderPath
	}

	logging.WithContext(ctx, p.logger).InfoContext(ctx, "processing complete",
		logging.String("render", outcome.RenderPath),
		logging.Int("cues", outcome.CueCount),
		logging.Bool("captions_cached", outcome.CachedCaptions),
		logging.Bool("render_cached", outcome.CachedRender))
	return outcome, nil
}

// stageIntake fingerprints the source and imports it into the cache.
func (p *Processor) stageIntake(ctx context.Context, item *queue.Item) (string, string, error) {
	ctx = services.WithStage(ctx, "intake")
	log := logging.WithContext(ctx, p.logger)

	fingerprint := item.Fingerprint
	if fingerprint == "" {
		var err error
		fingerprint, err = artifacts.Fingerprint(item.SourcePath)
		if err != nil {
			return "", "", services.Wrap(services.ErrNotFound, "pipeline", "intake", item.SourcePath, err)
		}
	}

	input, err := p.store.ImportInput(item.SourcePath, fingerprint)
	if err != nil {
		return "", "", services.Wrap(services.ErrTransient, "pipeline", "intake", "import source", err)
	}
	log.DebugContext(ctx, "source imported",
		logging.String("fingerprint", fingerprint),
		logging.String("input", input))
	return fingerprint, input, nil
}

// stageCaptions produces the subtitle/transcript pair, transcribing and
// translating only on a cache miss.
func (p *Processor) stageCaptions(ctx context.Context, item *queue.Item, req Request, fingerprint string) (int, bool, error) {
	ctx = services.WithStage(ctx, "transcribe")
	log := logging.WithContext(ctx, p.logger)

	if p.store.HasCaptionPair(fingerprint) {
		log.InfoContext(ctx, "caption pair served from cache")
		return 0, true, nil
	}

	audioPath := p.store.AudioPath(fingerprint)
	if !p.store.HasAudio(fingerprint) {
		input := p.store.InputPath(fingerprint)
		if err := p.transcoder.ExtractAudio(ctx, input, audioPath); err != nil {
			return 0, false, err
		}
	}
	item.AudioFile = audioPath

	family := p.cfg.ASR.Family
	if language.RequiresChunked(req.Language) {
		family = "chunked"
	}
	engine := p.engines.Get(family, p.cfg.ASR.Model)

	result, err := engine.Transcribe(ctx, asr.Request{
		AudioPath: audioPath,
		OutputDir: p.store.Root(),
		Language:  req.Language,
	})
	if err != nil {
		// Engine failure degrades to an empty cue sequence rather than
		// aborting the item: the caption pair is still written so the run
		// completes and downstream phases keep working.
		log.WarnContext(ctx, "transcription failed, emitting empty captions",
			logging.Error(err))
		result = asr.Result{}
	}

	cues := p.assemble(engine.Family(), req.Task, result)
	log.InfoContext(ctx, "transcription finished",
		logging.String("family", engine.Family()),
		logging.Int("cues", len(cues)))

	if req.Task == queue.TaskTranslate {
		if p.translator == nil {
			return 0, false, services.Wrap(services.ErrConfiguration, "pipeline", "translate", "no translator configured", nil)
		}
		tctx := services.WithStage(ctx, "translate")
		cues = p.translator.TranslateCues(tctx, cues, req.Language)
	}

	srt := captions.RenderSRT(cues)
	transcript := captions.RenderTranscript(cues)
	if err := p.store.WriteCaptionPair(fingerprint, srt, transcript); err != nil {
		return 0, false, services.Wrap(services.ErrTransient, "pipeline", "transcribe", "store caption pair", err)
	}
	return len(cues), false, nil
}

// assemble picks the cue-assembly strategy for the engine family and task.
// Translation works on word-merged cues so each translated phrase stays on
// screen long enough to read; plain transcription keeps the engine's own
// sentence grouping.
func (p *Processor) assemble(family string, task queue.Task, result asr.Result) []captions.Cue {
	if family == "chunked" {
		return captions.AssembleChunks(result.Chunks)
	}
	if task == queue.TaskTranslate && len(result.Words) > 0 {
		return captions.AssembleWords(result.Words)
	}
	return captions.AssembleSegments(result.Segments)
}

// stageExtract makes the standalone MP3 artifact available, reusing the
// transcription intermediate when it already exists.
func (p *Processor) stageExtract(ctx context.Context, fingerprint string) (bool, error) {
	ctx = services.WithStage(ctx, "extract")
	log := logging.WithContext(ctx, p.logger)

	audioPath := p.store.AudioPath(fingerprint)
	if p.store.HasAudio(fingerprint) {
		log.InfoContext(ctx, "audio served from cache")
		return true, nil
	}
	if err := p.transcoder.ExtractAudio(ctx, p.store.InputPath(fingerprint), audioPath); err != nil {
		return false, err
	}
	log.InfoContext(ctx, "audio extracted", logging.String("audio", audioPath))
	return false, nil
}

// stageRender burns the cached subtitles into a new video file.
func (p *Processor) stageRender(ctx context.Context, req Request, fingerprint, input string) (bool, error) {
	ctx = services.WithStage(ctx, "render")
	log := logging.WithContext(ctx, p.logger)

	renderPath := p.store.RenderPath(fingerprint)
	if p.store.HasRender(fingerprint) {
		log.InfoContext(ctx, "render served from cache")
		return true, nil
	}

	style, err := overlay.NewStyle(req.Style)
	if err != nil {
		return false, services.Wrap(services.ErrValidation, "pipeline", "render", "style", err)
	}
	builder := overlay.Builder{
		Scale:        req.Scale,
		SubtitlePath: p.store.SubtitlePath(fingerprint),
		Style:        style,
		Watermark:    req.Watermark,
	}
	if err := p.transcoder.Burn(ctx, input, renderPath, builder.FilterGraph()); err != nil {
		return false, err
	}
	log.InfoContext(ctx, "render complete", logging.String("render", renderPath))
	return false, nil
}
