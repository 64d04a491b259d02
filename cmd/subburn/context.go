package main

import (
	"log/slog"
	"strings"
	"sync"

	"subburn/internal/artifacts"
	"subburn/internal/asr"
	"subburn/internal/config"
	"subburn/internal/ffmpeg"
	"subburn/internal/logging"
	"subburn/internal/pipeline"
	"subburn/internal/queue"
	"subburn/internal/translate"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// environment bundles the collaborators a processing command needs.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *artifacts.Store
	queue  *queue.Store
	runner *pipeline.Runner
}

func (e *environment) Close() error {
	if e.queue != nil {
		return e.queue.Close()
	}
	return nil
}

// buildEnvironment wires the artifact store, queue, engines, transcoder, and
// translator into a ready runner.
func (c *commandContext) buildEnvironment() (*environment, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	store, err := artifacts.NewStore(cfg.Paths.CacheDir)
	if err != nil {
		return nil, err
	}
	qstore, err := queue.Open(cfg)
	if err != nil {
		return nil, err
	}

	engines := asr.NewCache(func(family, model string) asr.Engine {
		return asr.NewExecEngine(asr.ExecConfig{
			Binary:         cfg.ASRBinary(),
			Model:          model,
			Family:         family,
			TimeoutSeconds: cfg.ASR.TimeoutSeconds,
		})
	})
	transcoder := ffmpeg.New(cfg.FFmpegBinary())
	translator := translate.NewInterceptor(
		translate.NewClient(translate.Config{
			BaseURL:        cfg.Translate.BaseURL,
			TargetLanguage: cfg.Translate.TargetLanguage,
			TimeoutSeconds: cfg.Translate.TimeoutSeconds,
		}),
		logger,
		translate.InterceptorOptions{
			MaxConcurrent:   cfg.Translate.MaxConcurrent,
			RateLimitPerMin: cfg.Translate.RateLimitPerMin,
		},
	)

	processor := pipeline.NewProcessor(cfg, store, engines, transcoder, translator, logger)
	runner := pipeline.NewRunner(processor, qstore, logger)

	return &environment{
		cfg:    cfg,
		logger: logger,
		store:  store,
		queue:  qstore,
		runner: runner,
	}, nil
}
