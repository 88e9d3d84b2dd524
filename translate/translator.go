// Package translate normalizes extracted product records into a target
// language. The structural walk is deterministic; only the per-string
// translation goes over the network, and any failure there falls back to the
// original text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client translates a single string into the target language.
type Client interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Value recursively translates every leaf string of a JSON-shaped value,
// preserving structure: maps keep their keys, slices keep their order, and
// anything that is not a string, map or slice passes through unchanged. A
// failed translation keeps the original string rather than propagating the
// error, so a flaky translator degrades the output instead of breaking it.
func Value(ctx context.Context, c Client, v any, targetLanguage string) any {
	switch value := v.(type) {
	case string:
		translated, err := c.Translate(ctx, value, targetLanguage)
		if err != nil {
			return value
		}
		return translated
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = Value(ctx, c, item, targetLanguage)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = Value(ctx, c, item, targetLanguage)
		}
		return out
	default:
		return value
	}
}

// GoogleClient calls the public Google translate endpoint.
type GoogleClient struct {
	baseURL string
	client  *http.Client
}

// NewGoogleClient creates a translate client against the given base URL.
func NewGoogleClient(baseURL string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Translate translates text into the target language, auto-detecting the
// source language.
func (g *GoogleClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLanguage)
	params.Set("dt", "t")
	params.Set("q", text)

	endpoint := fmt.Sprintf("%s/translate_a/single?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call translate service: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate service returned status %d: %s", resp.StatusCode, string(body))
	}

	return parseTranslateResponse(body)
}

// parseTranslateResponse picks the translated segments out of the endpoint's
// nested-array response: [[["<translated>", "<original>", ...], ...], ...].
func parseTranslateResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse translate response: %v", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var out strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			out.WriteString(text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no translated segments in response")
	}
	return out.String(), nil
}

// HealthCheck translates a trivial string to verify the service responds.
func (g *GoogleClient) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := g.Translate(ctx, "ok", "en"); err != nil {
		return fmt.Errorf("translate health check failed: %v", err)
	}
	return nil
}
