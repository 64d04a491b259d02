package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// Config captures the runtime settings required to talk to the translation
// service (a LibreTranslate-compatible endpoint).
type Config struct {
	BaseURL        string
	TargetLanguage string
	TimeoutSeconds int
}

// Client wraps the translation HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a translation client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TargetLanguage: strings.TrimSpace(cfg.TargetLanguage),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "http://127.0.0.1:5000"
	}
	if client.cfg.TargetLanguage == "" {
		client.cfg.TargetLanguage = "en"
	}
	return client
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("translate request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Translate sends a single text to the service and returns the translated
// form. Source "auto" lets the service detect the input language.
func (c *Client) Translate(ctx context.Context, text, source string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if source == "" {
		source = "auto"
	}

	payload := translateRequest{
		Query:  text,
		Source: source,
		Target: c.cfg.TargetLanguage,
		Format: "text",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("translate request: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("translate request: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("translate request: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var parsed translateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("translate request: parse response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("translate request: service error: %s", parsed.Error)
	}
	result := strings.TrimSpace(parsed.TranslatedText)
	if result == "" {
		return "", errors.New("translate request: empty translation")
	}
	return result, nil
}

// TargetLanguage returns the configured output language code.
func (c *Client) TargetLanguage() string {
	return c.cfg.TargetLanguage
}
