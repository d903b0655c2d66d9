// Package gemini is the gateway to the external text-generation provider.
//
// The client is a pure request/response adapter: it holds no conversational
// state, applies a bounded timeout to every call, and reports failures as
// the classified errors in errors.go so callers can map them precisely.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"glow/internal/config"
	"glow/internal/domain/services"
)

// Client calls the Gemini generateContent API.
type Client struct {
	baseURL    string
	apiKey     string
	persona    *config.Persona
	httpClient *http.Client
	logger     *slog.Logger
}

var _ services.ResponseGenerator = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client. The client's Timeout is the
// per-call bound; callers replacing it keep that responsibility.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Gemini gateway client.
func NewClient(apiKey string, persona *config.Persona, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		apiKey:     apiKey,
		persona:    persona,
		httpClient: &http.Client{Timeout: config.GenerateTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gemini API types.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends the prompt plus ordered history and returns the generated
// text. The persona system instruction is prepended to every request; an
// empty generated text is a successful call, not an error.
func (c *Client) Generate(ctx context.Context, prompt string, history []services.PromptMessage) (string, error) {
	body, err := json.Marshal(c.buildRequest(prompt, history))
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.persona.Model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		// Bounded read: enough for the provider's error object, no more
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		c.logger.Error("provider rejected generation request",
			"status", httpResp.StatusCode,
			"body", string(snippet),
		)
		return "", fmt.Errorf("%w: status %d", ErrRejected, httpResp.StatusCode)
	}

	var resp geminiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformed)
	}

	text := ""
	if parts := resp.Candidates[0].Content.Parts; len(parts) > 0 {
		text = parts[0].Text
	}

	return text, nil
}

// buildRequest assembles the contents array: persona instruction, canned
// acknowledgement, the ordered history, then the current prompt. Gemini
// names the assistant role "model".
func (c *Client) buildRequest(prompt string, history []services.PromptMessage) geminiRequest {
	contents := make([]geminiContent, 0, len(history)+3)

	contents = append(contents,
		geminiContent{Role: "user", Parts: []geminiPart{{Text: c.persona.SystemPrompt}}},
		geminiContent{Role: "model", Parts: []geminiPart{{Text: c.persona.Acknowledgement}}},
	)

	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: prompt}},
	})

	return geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.persona.Generation.Temperature,
			TopK:            c.persona.Generation.TopK,
			TopP:            c.persona.Generation.TopP,
			MaxOutputTokens: c.persona.Generation.MaxOutputTokens,
		},
	}
}

// isTimeout distinguishes the bounded-timeout case from other transport
// failures. Both the http.Client timeout and a context deadline land here.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
