// Package transliterate converts Latin-script input to Tamil through the
// Google Input Tools endpoint.
package transliterate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Transliterator converts Latin text to Tamil.
type Transliterator interface {
	Transliterate(ctx context.Context, text string) (string, error)
}

// Client calls the transliteration endpoint. Outbound requests share a
// token-bucket limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for baseURL. A non-positive rps disables
// throttling.
func NewClient(baseURL string, timeout time.Duration, rps float64) *Client {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Transliterate returns the first Tamil candidate for text. When the
// response carries no candidate the input is returned unchanged. Blank
// input returns "" without a request.
func (c *Client) Transliterate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("transliteration throttled: %w", err)
	}

	params := url.Values{}
	params.Set("text", text)
	params.Set("itc", "ta-t-i0-und")
	params.Set("num", "1")
	params.Set("cp", "0")
	params.Set("cs", "1")
	params.Set("ie", "utf-8")
	params.Set("oe", "utf-8")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transliteration request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("transliteration status %d", resp.StatusCode)
	}

	var payload []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode transliteration: %w", err)
	}

	if candidate, ok := firstCandidate(payload); ok {
		return candidate, nil
	}
	return text, nil
}

// firstCandidate extracts payload[1][0][1][0] from
// ["SUCCESS",[["amma",["அம்மா"],...]]].
func firstCandidate(payload []interface{}) (string, bool) {
	if len(payload) < 2 {
		return "", false
	}
	groups, ok := payload[1].([]interface{})
	if !ok || len(groups) == 0 {
		return "", false
	}
	group, ok := groups[0].([]interface{})
	if !ok || len(group) < 2 {
		return "", false
	}
	candidates, ok := group[1].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", false
	}
	s, ok := candidates[0].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
