// Package assist proxies short compliance questions to a hosted AI
// completion API. Prompts are validated locally before any network call and
// transport failures are surfaced as-is, without retrying.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/complyhub/complyhub/internal/shared"
)

// MaxPromptLength is enforced locally; longer prompts never reach the
// provider.
const MaxPromptLength = 250

// Completer produces a completion for a prompt. Satisfied by Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls the completion API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type completionRequest struct {
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Complete sends one prompt and returns the completion. One attempt only.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/complete", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: completion API returned status %d", shared.ErrTransport, resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", shared.ErrTransport, err)
	}
	return out.Completion, nil
}

// Service validates prompts and delegates to the completer.
type Service struct {
	completer Completer
}

// NewService constructs a Service.
func NewService(completer Completer) *Service {
	return &Service{completer: completer}
}

// Complete answers one prompt. Prompts over MaxPromptLength fail validation
// before the client is touched.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", shared.ErrValidation)
	}
	if len([]rune(prompt)) > MaxPromptLength {
		return "", fmt.Errorf("%w: prompt exceeds %d characters", shared.ErrValidation, MaxPromptLength)
	}
	return s.completer.Complete(ctx, prompt)
}
