package suggest

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/ByLCY/vitae/cv"
)

// ErrEmptyJobDescription is returned when there is nothing to analyze.
var ErrEmptyJobDescription = errors.New("job description is empty")

// Client turns job descriptions into suggestions.
type Client struct {
	gen Generator
}

// NewClient wraps a Generator.
func NewClient(gen Generator) *Client {
	return &Client{gen: gen}
}

// Suggest analyzes the job description, optionally against the candidate profile.
func (c *Client) Suggest(ctx context.Context, jobDescription string, profile *cv.Profile) (*Suggestion, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if c.gen == nil {
		return nil, errors.New("no generator configured")
	}

	raw, err := c.gen.GenerateJSON(ctx, BuildPrompt(jobDescription, profile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate CV suggestions")
	}

	s, err := Parse(raw)
	if err != nil {
		slog.Warn("unparseable suggestion response", "error", err, "bytes", len(raw))
		return nil, err
	}
	slog.Info("suggestions generated",
		"key_skills", len(s.KeySkills),
		"experience", len(s.Experience),
		"with_profile", profile != nil,
	)
	return s, nil
}

// Parse decodes a model response, tolerating markdown code fences.
func Parse(raw string) (*Suggestion, error) {
	text := cleanJSONBlock(raw)
	if text == "" {
		return nil, errors.New("empty suggestion response")
	}
	var s Suggestion
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse suggestion response")
	}
	return &s, nil
}

// Close releases the generator.
func (c *Client) Close() error {
	if c.gen == nil {
		return nil
	}
	return c.gen.Close()
}
