package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrEmptyCompletion = errors.New("completion has no choices")

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

func New(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// ChatWithArticle answers a reader's question with the article as context.
func (c *Client) ChatWithArticle(ctx context.Context, title, category, content, userMessage string) (string, error) {
	system := fmt.Sprintf(
		"You are an article assistant. Answer questions about the article below.\n\n"+
			"Title: %s\n\nCategory: %s\n\nContent:\n%s",
		title, category, content,
	)

	return c.complete(ctx, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: userMessage},
	})
}

// GenerateArticle asks the model for an article draft as a JSON object with
// "title" and "content" fields.
func (c *Client) GenerateArticle(ctx context.Context, prompt string) (string, error) {
	system := `You are a writing assistant. Produce an article for the given topic as a JSON object with exactly two string fields: "title" and "content". Respond with the JSON only.`

	return c.complete(ctx, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	})
}

func (c *Client) complete(ctx context.Context, messages []message) (string, error) {
	const op = "clients.gpt.complete"

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}

	return completion.Choices[0].Message.Content, nil
}
