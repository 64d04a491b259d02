package config

import (
	"fmt"
	"strings"
)

var validModels = map[string]struct{}{
	"base": {}, "small": {}, "medium": {}, "large": {},
}

var validFamilies = map[string]struct{}{
	"segment": {}, "chunked": {},
}

var validBackgrounds = map[string]struct{}{
	"none": {}, "shadow": {}, "box": {},
}

var validScales = map[string]struct{}{
	"": {}, "none": {}, "original": {}, "1080p": {}, "720p": {}, "480p": {},
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		problems = append(problems, "paths.cache_dir must be set")
	}
	if _, ok := validFamilies[c.ASR.Family]; !ok {
		problems = append(problems, fmt.Sprintf("asr.family %q not one of segment, chunked", c.ASR.Family))
	}
	if _, ok := validModels[c.ASR.Model]; !ok {
		problems = append(problems, fmt.Sprintf("asr.model %q not one of base, small, medium, large", c.ASR.Model))
	}
	if c.ASR.TimeoutSeconds < 0 {
		problems = append(problems, "asr.timeout_seconds must not be negative")
	}
	if c.Translate.MaxConcurrent < 1 {
		problems = append(problems, "translate.max_concurrent must be at least 1")
	}
	if c.Translate.RateLimitPerMin < 1 {
		problems = append(problems, "translate.rate_limit_per_min must be at least 1")
	}
	if _, ok := validScales[c.Render.Scale]; !ok {
		problems = append(problems, fmt.Sprintf("render.scale %q not one of none, 1080p, 720p, 480p", c.Render.Scale))
	}
	if _, ok := validBackgrounds[c.Render.Background]; !ok {
		problems = append(problems, fmt.Sprintf("render.background %q not one of none, shadow, box", c.Render.Background))
	}
	if c.Render.BoxOpacity < 0 || c.Render.BoxOpacity > 100 {
		problems = append(problems, "render.box_opacity must be within [0,100]")
	}
	if c.Render.WatermarkOpacity < 0 || c.Render.WatermarkOpacity > 1 {
		problems = append(problems, "render.watermark_opacity must be within [0,1]")
	}
	if c.Watch.PollIntervalSeconds < 1 {
		problems = append(problems, "watch.poll_interval_seconds must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
