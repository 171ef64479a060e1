package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/observability"
	"github.com/websketch/websketch/pkg/retry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient is a Proposer backed by an OpenAI-compatible chat-completions
// endpoint. BaseURL may point at any compatible server.
type OpenAIClient struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	http        *http.Client
	retry       retry.Policy
}

// Option configures an OpenAIClient.
type Option func(*OpenAIClient)

// WithBaseURL overrides the API base URL, e.g. for a local proxy.
func WithBaseURL(url string) Option {
	return func(c *OpenAIClient) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAIClient) { c.http = client }
}

// WithRetryPolicy overrides the retry policy for transient failures.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *OpenAIClient) { c.retry = p }
}

// NewOpenAIClient creates a Proposer for the given model and temperature.
func NewOpenAIClient(apiKey, model string, temperature float64, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		baseURL:     defaultBaseURL,
		http:        &http.Client{Timeout: 60 * time.Second},
		retry:       retry.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Propose implements Proposer.
func (c *OpenAIClient) Propose(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
}

// ProposeWithImage implements Proposer. The image is inlined as a base64
// data URI content part on the user turn.
func (c *OpenAIClient) ProposeWithImage(ctx context.Context, system, user string, image []byte, mimeType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: user},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
		}},
	})
}

func (c *OpenAIClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeProposer, err, "failed to encode chat request")
	}

	start := time.Now()
	observability.Model().OnInvoke(ctx, c.model, len(body))

	var content string
	err = c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.Transient(err)
		}
		defer resp.Body.Close()

		// 429 and 5xx are transient; anything else non-200 is terminal.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			return retry.Transient(fmt.Errorf("chat completions returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			var parsed chatResponse
			if json.NewDecoder(resp.Body).Decode(&parsed) == nil && parsed.Error != nil {
				return fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, parsed.Error.Message)
			}
			return fmt.Errorf("chat completions returned status %d", resp.StatusCode)
		}

		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("failed to decode chat response: %w", err)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("chat response has no choices")
		}
		content = parsed.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		observability.Model().OnError(ctx, c.model, err)
		return "", errors.Wrap(errors.ErrCodeProposer, err, "model invocation failed")
	}
	observability.Model().OnResponse(ctx, c.model, len(content), time.Since(start))
	return content, nil
}
