package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"subburn/internal/logging"
	"subburn/internal/queue"
	"subburn/internal/services"
)

// Runner executes queue items and keeps their lifecycle status in sync with
// the processing stages.
type Runner struct {
	processor *Processor
	store     *queue.Store
	logger    *slog.Logger
}

// NewRunner wires a runner around a processor and the queue store.
func NewRunner(processor *Processor, store *queue.Store, logger *slog.Logger) *Runner {
	return &Runner{
		processor: processor,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "runner"),
	}
}

// RunNext picks the oldest pending item and runs it. It reports whether an
// item was found; processing failures are recorded on the item and returned.
func (r *Runner) RunNext(ctx context.Context) (bool, error) {
	item, err := r.store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	_, err = r.Run(ctx, item)
	return true, err
}

// Run drives one item with the default request resolved from config: queue
// items always burn a render, since the queue carries no per-item action
// selection.
func (r *Runner) Run(ctx context.Context, item *queue.Item) (Outcome, error) {
	req, err := RequestFromConfig(r.processor.cfg, item.Task, item.Language)
	if err != nil {
		ctx = services.WithItemID(ctx, item.ID)
		return Outcome{}, r.fail(ctx, item, err)
	}
	return r.RunRequest(ctx, item, req)
}

// RunRequest drives one item through the pipeline with an explicit request,
// moving it pending -> transcribing -> transcribed -> rendering -> completed,
// or to failed with the error message recorded. The rendering leg is skipped
// when the request does not ask for a burn.
func (r *Runner) RunRequest(ctx context.Context, item *queue.Item, req Request) (Outcome, error) {
	var outcome Outcome

	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithItemID(ctx, item.ID)
	log := logging.WithContext(ctx, r.logger)

	if err := r.mark(ctx, item, queue.StatusTranscribing); err != nil {
		return outcome, err
	}

	fingerprint, input, err := r.processor.stageIntake(ctx, item)
	if err != nil {
		return outcome, r.fail(ctx, item, err)
	}
	item.Fingerprint = fingerprint
	outcome.Fingerprint = fingerprint
	outcome.SubtitlePath = r.processor.store.SubtitlePath(fingerprint)
	outcome.TranscriptPath = r.processor.store.TranscriptPath(fingerprint)

	cueCount, cachedCaptions, err := r.processor.stageCaptions(ctx, item, req, fingerprint)
	if err != nil {
		return outcome, r.fail(ctx, item, err)
	}
	outcome.CueCount = cueCount
	outcome.CachedCaptions = cachedCaptions
	item.SubtitleFile = outcome.SubtitlePath
	item.TranscriptFile = outcome.TranscriptPath

	if err := r.mark(ctx, item, queue.StatusTranscribed); err != nil {
		return outcome, err
	}

	if req.ExtractMP3 {
		cachedAudio, err := r.processor.stageExtract(ctx, fingerprint)
		if err != nil {
			return outcome, r.fail(ctx, item, err)
		}
		outcome.AudioPath = r.processor.store.AudioPath(fingerprint)
		outcome.CachedAudio = cachedAudio
		item.AudioFile = outcome.AudioPath
	}

	if req.Burn {
		if err := r.mark(ctx, item, queue.StatusRendering); err != nil {
			return outcome, err
		}
		cachedRender, err := r.processor.stageRender(ctx, req, fingerprint, input)
		if err != nil {
			return outcome, r.fail(ctx, item, err)
		}
		outcome.RenderPath = r.processor.store.RenderPath(fingerprint)
		outcome.CachedRender = cachedRender
		item.RenderedFile = outcome.RenderPath
	}

	if err := r.mark(ctx, item, queue.StatusCompleted); err != nil {
		return outcome, err
	}
	log.InfoContext(ctx, "item completed",
		logging.String("render", outcome.RenderPath),
		logging.Bool("captions_cached", outcome.CachedCaptions),
		logging.Bool("render_cached", outcome.CachedRender))
	return outcome, nil
}

func (r *Runner) mark(ctx context.Context, item *queue.Item, status queue.Status) error {
	item.Status = status
	if err := r.store.Update(ctx, item); err != nil {
		return services.Wrap(services.ErrTransient, "runner", "update status", string(status), err)
	}
	return nil
}

func (r *Runner) fail(ctx context.Context, item *queue.Item, cause error) error {
	item.Status = queue.StatusFailed
	item.ErrorMessage = cause.Error()
	if err := r.store.Update(ctx, item); err != nil {
		logging.WithContext(ctx, r.logger).ErrorContext(ctx, "could not record failure",
			logging.Error(err))
	}
	logging.WithContext(ctx, r.logger).ErrorContext(ctx, "item failed", logging.Error(cause))
	return cause
}
