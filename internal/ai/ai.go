/*
Package ai performs web-grounded queries against the Gemini API and normalizes
the answer and its grounding citations into a types.GroundedResult.
*/
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shanehull/shotime/internal/config"
	"github.com/shanehull/shotime/internal/types"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	NoInformationText = "No information available."
	OverloadedText    = "Failed to fetch data. The AI service is currently overloaded. Please try again later."
	FailedText        = "Failed to fetch data."
)

// RetryPolicy bounds the attempts made for one prompt. The wait before attempt
// n+1 is BaseDelay * 2^(n-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * time.Duration(1<<(attempt-1))
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client issues grounded search prompts. Fetch never returns an error; every
// failure resolves to a degraded GroundedResult.
type Client struct {
	models generator
	model  string
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
	logger *zap.Logger
}

// NewClient validates cfg and builds a Gemini client for it.
func NewClient(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newClient(gc.Models, cfg.Model, logger), nil
}

func newClient(models generator, model string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = config.DefaultModel
	}
	return &Client{
		models: models,
		model:  model,
		policy: DefaultRetryPolicy(),
		sleep:  sleepContext,
		logger: logger.Named("ai"),
	}
}

// WithRetryPolicy replaces the retry policy and returns the client.
func (c *Client) WithRetryPolicy(p RetryPolicy) *Client {
	c.policy = p
	return c
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Fetch(ctx context.Context, prompt string) types.GroundedResult {
	c.logger.Info("initializing grounded request", zap.String("model", c.model))

	maxAttempts := c.policy.MaxAttempts
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), groundedConfig())
		if err == nil {
			result := normalize(resp)
			c.logger.Info("grounded request succeeded",
				zap.Int("attempt", attempt),
				zap.Int("citations", len(result.Citations)))
			return result
		}

		retryable := IsRetryable(err)
		c.logger.Warn("gemini API error",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Bool("retryable", retryable),
			zap.Error(err))

		if !retryable {
			return degraded(FailedText)
		}
		if attempt == maxAttempts {
			return degraded(OverloadedText)
		}

		delay := c.policy.Delay(attempt)
		c.logger.Info("retrying", zap.Duration("delay", delay))
		if err := c.sleep(ctx, delay); err != nil {
			c.logger.Warn("retry wait interrupted", zap.Error(err))
			return degraded(FailedText)
		}
	}

	return degraded(FailedText)
}

// groundedConfig enables Google Search grounding. A response schema or MIME type
// cannot be combined with the search tool, so neither is set.
func groundedConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
}

func normalize(resp *genai.GenerateContentResponse) types.GroundedResult {
	result := types.GroundedResult{
		Text:      NoInformationText,
		Citations: []types.Citation{},
	}
	if resp == nil {
		return result
	}

	if text := resp.Text(); text != "" {
		result.Text = text
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return result
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return result
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		result.Citations = append(result.Citations, types.Citation{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return result
}

func degraded(text string) types.GroundedResult {
	return types.GroundedResult{
		Text:      text,
		Citations: []types.Citation{},
	}
}

// IsRetryable reports whether err is a Gemini API error with status 429 or 503.
func IsRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableCode(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableCode(apiErrPtr.Code)
	}
	return false
}

func retryableCode(code int) bool {
	return code == http.StatusServiceUnavailable || code == http.StatusTooManyRequests
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
