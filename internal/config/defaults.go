package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default returns the repository defaults before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   "~/.local/share/subburn/logs",
		},
		ASR: ASR{
			Family:         "segment",
			Model:          "base",
			Language:       "auto",
			TimeoutSeconds: 0,
		},
		Translate: Translate{
			BaseURL:         "http://127.0.0.1:5000",
			TargetLanguage:  "en",
			TimeoutSeconds:  15,
			MaxConcurrent:   4,
			RateLimitPerMin: 120,
		},
		Render: Render{
			Scale:            "720p",
			FontName:         "Arial",
			FontSize:         24,
			TextColor:        "#FFFFFF",
			StrokeWidth:      2,
			StrokeColor:      "#000000",
			Background:       "none",
			ShadowWidth:      2,
			ShadowColor:      "#000000",
			BoxColor:         "#000000",
			BoxOpacity:       80,
			WatermarkText:    "",
			WatermarkSize:    24,
			WatermarkOpacity: 0.5,
		},
		Watch: Watch{
			PollIntervalSeconds: 5,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subburn")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/subburn"
	}
	return filepath.Join(home, ".cache", "subburn")
}
