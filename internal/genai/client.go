// Package genai is a minimal client for the Gemini generative-language API,
// covering the two calls the benchmark needs: countTokens and
// generateContent.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// defaultBaseURL is the default Gemini API base URL.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// EnvAPIKey names the environment variable holding the API credential.
const EnvAPIKey = "GEMINI_API_KEY"

// HTTPDoer abstracts HTTP clients used by the API client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the Gemini API. The zero value is not usable; construct via
// New or FromEnv.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    HTTPDoer
}

// TokenCount is the result of a countTokens call.
type TokenCount struct {
	TotalTokens int `json:"totalTokens"`
}

// UsageMetadata reports token usage attached to a generation response.
// Counts may be absent; absent values stay zero.
type UsageMetadata struct {
	PromptTokenCount int `json:"promptTokenCount"`
	TotalTokenCount  int `json:"totalTokenCount"`
}

// GenerateResult is the result of a generateContent call. Raw retains the
// unmodified response body for audit persistence.
type GenerateResult struct {
	Text  string
	Usage UsageMetadata
	Raw   json.RawMessage
}

// FromEnv builds a client from the process environment. A missing
// credential is an error; callers treat it as fatal before any work begins.
func FromEnv(client HTTPDoer) (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if apiKey == "" {
		return nil, fmt.Errorf("%s is required", EnvAPIKey)
	}
	return New(apiKey, "", client)
}

// New constructs a client with explicit settings.
func New(apiKey, baseURL string, client HTTPDoer) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    client,
	}, nil
}

type contentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
}

// CountTokens returns the model's token count for the content.
func (c *Client) CountTokens(ctx context.Context, model, text string) (TokenCount, error) {
	body, err := c.post(ctx, model, "countTokens", text)
	if err != nil {
		return TokenCount{}, err
	}
	var count TokenCount
	if err := json.Unmarshal(body, &count); err != nil {
		return TokenCount{}, fmt.Errorf("decode countTokens response: %w", err)
	}
	return count, nil
}

// GenerateContent submits the content for generation and returns the text,
// usage metadata, and raw response payload.
func (c *Client) GenerateContent(ctx context.Context, model, text string) (GenerateResult, error) {
	body, err := c.post(ctx, model, "generateContent", text)
	if err != nil {
		return GenerateResult{}, err
	}
	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return GenerateResult{}, fmt.Errorf("decode generateContent response: %w", err)
	}
	result := GenerateResult{
		Usage: decoded.UsageMetadata,
		Raw:   json.RawMessage(body),
	}
	var builder strings.Builder
	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			builder.WriteString(p.Text)
		}
		break
	}
	result.Text = builder.String()
	return result, nil
}

func (c *Client) post(ctx context.Context, model, method, text string) ([]byte, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	payload, err := json.Marshal(contentRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:%s", c.BaseURL, model, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini %s error: %s", method, strings.TrimSpace(string(body)))
	}
	return body, nil
}
