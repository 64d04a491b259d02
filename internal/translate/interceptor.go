package translate

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"subburn/internal/captions"
	"subburn/internal/logging"
)

// Translator converts a single text from a source language to the configured
// target language.
type Translator interface {
	Translate(ctx context.Context, text, source string) (string, error)
}

// Interceptor wraps a Translator so that translation failures never lose
// caption text. Any error from the underlying service yields the original
// input unchanged.
type Interceptor struct {
	translator    Translator
	logger        *slog.Logger
	maxConcurrent int
	limiter       *rate.Limiter
}

// InterceptorOptions configures concurrency and rate limiting for batch
// translation.
type InterceptorOptions struct {
	MaxConcurrent   int
	RateLimitPerMin int
}

// NewInterceptor wraps the supplied translator. A nil logger falls back to a
// no-op logger.
func NewInterceptor(translator Translator, logger *slog.Logger, opts InterceptorOptions) *Interceptor {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	var limiter *rate.Limiter
	if opts.RateLimitPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)
	}
	return &Interceptor{
		translator:    translator,
		logger:        logging.NewComponentLogger(logger, "translate"),
		maxConcurrent: maxConcurrent,
		limiter:       limiter,
	}
}

// TranslateOrOriginal attempts to translate text and returns the original
// input whenever the attempt fails for any reason. The returned bool reports
// whether the translation was applied.
func (i *Interceptor) TranslateOrOriginal(ctx context.Context, text, source string) (string, bool) {
	if text == "" {
		return text, false
	}
	translated, err := i.translator.Translate(ctx, text, source)
	if err != nil {
		i.logger.Warn("translation failed, keeping original text",
			logging.Error(err),
			logging.Int("text_length", len(text)))
		return text, false
	}
	return translated, true
}

// TranslateCues translates every cue of a caption run with bounded
// parallelism, preserving cue order and timing. Cues whose translation fails
// keep their original text, so the result always has the same shape as the
// input.
func (i *Interceptor) TranslateCues(ctx context.Context, cues []captions.Cue, source string) []captions.Cue {
	if len(cues) == 0 {
		return cues
	}

	out := make([]captions.Cue, len(cues))
	copy(out, cues)

	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.maxConcurrent)

	for idx := range out {
		g.Go(func() error {
			if i.limiter != nil {
				if err := i.limiter.Wait(gctx); err != nil {
					return nil
				}
			}
			translated, ok := i.TranslateOrOriginal(gctx, out[idx].Text, source)
			if ok {
				out[idx].Text = translated
			} else {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; failures degrade to original text.
	_ = g.Wait()

	if failed > 0 {
		i.logger.Warn("some cues kept their original text",
			logging.Int("failed", failed),
			logging.Int("total", len(out)))
	}
	return out
}
