package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// DefaultModel is the default Gemini model used for digest generation.
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// Client wraps the Gemini API for the digest job's completion calls.
type Client struct {
	modelName   string
	temperature float32
	gClient     *genai.Client
}

// NewClient creates an LLM client. The API key is required; the model name
// falls back to DefaultModel when empty.
func NewClient(ctx context.Context, apiKey, modelName string, temperature float32) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		modelName:   modelName,
		temperature: temperature,
		gClient:     gClient,
	}, nil
}

// ModelName returns the model this client generates with.
func (c *Client) ModelName() string {
	return c.modelName
}

func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Complete generates a text completion for a single prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	return c.generate(ctx, prompt, config)
}

// CompleteJSON generates a completion constrained to JSON output and decodes
// it into out. A response that does not decode is a hard failure.
func (c *Client) CompleteJSON(ctx context.Context, prompt string, out any) error {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
	}

	text, err := c.generate(ctx, prompt, config)
	if err != nil {
		return err
	}

	// Some models wrap JSON in a fenced code block despite the MIME hint.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("failed to parse JSON completion: %w", err)
	}
	return nil
}

// CompleteBatch generates completions for every prompt of one logical batch.
// The result slice has the same length and order as prompts: result i always
// belongs to prompt i. Downstream positional assignment depends on this.
func (c *Client) CompleteBatch(ctx context.Context, prompts []string) ([]string, error) {
	results := make([]string, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		g.Go(func() error {
			text, err := c.Complete(gctx, prompt)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
