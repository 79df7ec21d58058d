package geminiservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini: api key is not configured")

	// ErrNoContent is returned when Gemini answers without any candidate text,
	// including candidates withheld by safety or recitation filters.
	ErrNoContent = errors.New("gemini: no content found in response")
)

// blockedFinishReasons mark candidates whose content was withheld.
var blockedFinishReasons = map[genai.FinishReason]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

// Config describes how to reach the Gemini API.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// HTTPClient is used for outbound calls when set.
	HTTPClient *http.Client
}

// Client generates text from a single prompt. It is safe for concurrent use
// and is meant to be created once at startup.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient builds a Client backed by the Gemini Developer API.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{genai: gc, model: cfg.Model}, nil
}

// Generate sends prompt as a single user message and returns the text of the
// first candidate. It makes exactly one call; the caller's context bounds it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	log.Debug().Str("model", c.model).Int("prompt_chars", len(prompt)).Msg("Calling Gemini API...")

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoContent
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrNoContent
	}
	if blockedFinishReasons[candidate.FinishReason] {
		return "", fmt.Errorf("%w: finish reason %s", ErrNoContent, candidate.FinishReason)
	}

	text := resp.Text()
	log.Info().
		Str("model", c.model).
		Dur("latency", time.Since(start)).
		Int("output_chars", len(text)).
		Msg("Gemini API call succeeded")

	return text, nil
}
