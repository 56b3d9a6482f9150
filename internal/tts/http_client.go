package tts

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/lessonforge/lessonforge/internal/audio"
)

// DefaultMaxRetryAttempts is the retry budget for synthesis API calls.
const DefaultMaxRetryAttempts uint = 3

// HTTPClient synthesizes speech through a Polly-style HTTP endpoint and
// stores the returned MP3 in the shared cache.
type HTTPClient struct {
	httpClient       *resty.Client
	cache            *Cache
	sampleRate       int
	maxRetryAttempts uint
}

// SynthesizeRequest is the JSON body sent to the synthesis endpoint.
type SynthesizeRequest struct {
	Text         string `json:"text"`
	VoiceID      string `json:"voice_id"`
	OutputFormat string `json:"output_format"`
	SampleRate   string `json:"sample_rate"`
	LanguageCode string `json:"language_code,omitempty"`
	Engine       string `json:"engine,omitempty"`
}

// NewHTTPClient creates a synthesis client against baseURL, authenticated
// with a bearer token when apiKey is non-empty.
func NewHTTPClient(baseURL, apiKey string, sampleRate int, cache *Cache, retryAttempts uint) *HTTPClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	client.SetHeader("Content-Type", "application/json")

	return &HTTPClient{
		httpClient:       client,
		cache:            cache,
		sampleRate:       sampleRate,
		maxRetryAttempts: retryAttempts,
	}
}

// Close releases the underlying HTTP client.
func (c *HTTPClient) Close() error {
	return c.httpClient.Close()
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	// Server errors and rate limiting.
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

// Synthesize implements Synthesizer. Cached clips are returned without
// touching the network.
func (c *HTTPClient) Synthesize(ctx context.Context, voice, text string) (audio.Clip, error) {
	text = NormalizeText(text)
	path := c.cache.Path(voice, text)

	if !c.cache.Has(voice, text) {
		if err := c.cache.EnsureDir(); err != nil {
			return audio.Clip{}, fmt.Errorf("cache.EnsureDir > %w", err)
		}
		if err := retry.Do(
			func() error {
				if err := c.synthesize(ctx, voice, text, path); err != nil {
					if !isRetryableError(err) {
						return retry.Unrecoverable(err)
					}
					return err
				}
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(c.maxRetryAttempts+1),
		); err != nil {
			return audio.Clip{}, fmt.Errorf("synthesize %q with voice %s > %w", text, voice, err)
		}
	}

	duration, err := c.cache.Duration(ctx, path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("cache.Duration > %w", err)
	}
	return audio.Clip{Path: path, Voice: voice, Text: text, Duration: duration}, nil
}

func (c *HTTPClient) synthesize(ctx context.Context, voice, text, outputPath string) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(SynthesizeRequest{
			Text:         text,
			VoiceID:      voice,
			OutputFormat: "mp3",
			SampleRate:   fmt.Sprintf("%d", c.sampleRate),
			Engine:       "neural",
		}).
		Post("/v1/speech")
	if err != nil {
		return fmt.Errorf("httpClient.R().Post > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	if err := os.WriteFile(outputPath, response.Bytes(), 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", outputPath, err)
	}
	return nil
}
