package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client generates conversational replies with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("GEMINI_API_KEY"); !ok {
			return nil, fmt.Errorf("gemini api key not found")
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c := &Client{client: client, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reply generates a single text reply for the prompt. A response without any
// text parts yields an empty string, not an error.
func (c *Client) Reply(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply through gemini: %w", err)
	}
	return strings.TrimSpace(response.Text()), nil
}
