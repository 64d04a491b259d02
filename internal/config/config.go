package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// ASR contains configuration for the transcription engine.
type ASR struct {
	// Family selects the engine family: "segment" engines return
	// sentence-grouped output, "chunked" engines return word/chunk
	// timestamps that require client-side assembly.
	Family string `toml:"family"`
	// Model is the model size: base, small, medium, large.
	Model string `toml:"model"`
	// Binary overrides the transcription executable name.
	Binary string `toml:"binary"`
	// Language is the default spoken language ("" or "auto" auto-detects).
	Language string `toml:"language"`
	// TimeoutSeconds bounds a single transcription run. Zero means no limit.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Translate contains configuration for the external translation service.
type Translate struct {
	BaseURL         string `toml:"base_url"`
	TargetLanguage  string `toml:"target_language"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	MaxConcurrent   int    `toml:"max_concurrent"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
}

// Render contains default caption styling and watermark settings. Every
// field can be overridden per request from the CLI.
type Render struct {
	Scale            string  `toml:"scale"`
	FontName         string  `toml:"font_name"`
	FontSize         int     `toml:"font_size"`
	TextColor        string  `toml:"text_color"`
	StrokeWidth      int     `toml:"stroke_width"`
	StrokeColor      string  `toml:"stroke_color"`
	Background       string  `toml:"background"` // none, shadow, box
	ShadowWidth      int     `toml:"shadow_width"`
	ShadowColor      string  `toml:"shadow_color"`
	BoxColor         string  `toml:"box_color"`
	BoxOpacity       int     `toml:"box_opacity"`
	WatermarkText    string  `toml:"watermark_text"`
	WatermarkSize    int     `toml:"watermark_size"`
	WatermarkOpacity float64 `toml:"watermark_opacity"`
}

// Watch contains configuration for the queue polling loop.
type Watch struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subburn.
type Config struct {
	Paths     Paths     `toml:"paths"`
	ASR       ASR       `toml:"asr"`
	Translate Translate `toml:"translate"`
	Render    Render    `toml:"render"`
	Watch     Watch     `toml:"watch"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subburn/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subburn.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the transcoder executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// ASRBinary returns the transcription executable name.
func (c *Config) ASRBinary() string {
	if strings.TrimSpace(c.ASR.Binary) != "" {
		return c.ASR.Binary
	}
	return "whisper"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
