package config

import "strings"

// normalize expands paths and canonicalizes enum-like string fields.
func (c *Config) normalize() error {
	var err error
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.ASR.Family = strings.ToLower(strings.TrimSpace(c.ASR.Family))
	c.ASR.Model = strings.ToLower(strings.TrimSpace(c.ASR.Model))
	c.ASR.Language = strings.ToLower(strings.TrimSpace(c.ASR.Language))
	if c.ASR.Language == "" {
		c.ASR.Language = "auto"
	}

	c.Translate.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translate.BaseURL), "/")
	c.Translate.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Translate.TargetLanguage))

	c.Render.Scale = strings.ToLower(strings.TrimSpace(c.Render.Scale))
	c.Render.Background = strings.ToLower(strings.TrimSpace(c.Render.Background))

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
