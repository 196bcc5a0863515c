package vkapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	BaseURL    = "https://api.vk.com/method"
	apiVersion = "5.131"
)

// ErrInvalidInterval is returned for intervals outside the set VK accepts.
var ErrInvalidInterval = errors.New("invalid stats interval")

var validIntervals = map[string]bool{
	"day":     true,
	"week":    true,
	"month":   true,
	"forever": true,
}

// Client is a VK API client for the utils.* link methods.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a VK client with a service access token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (used in tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// call performs a GET to a VK method and unwraps the response envelope.
func call[T any](c *Client, method string, params url.Values) (*T, error) {
	params.Set("access_token", c.token)
	params.Set("v", apiVersion)

	resp, err := c.httpClient.Get(c.baseURL + "/" + method + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var envelope apiResponse[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("VK API error %d: %s", envelope.Error.ErrorCode, envelope.Error.ErrorMsg)
	}
	if envelope.Response == nil {
		return nil, fmt.Errorf("VK API: empty response for %s", method)
	}
	return envelope.Response, nil
}

// Shorten creates a tracked short link for longURL. Not idempotent: each call
// creates a distinct link with its own stats key.
func (c *Client) Shorten(longURL string, private bool) (string, error) {
	params := url.Values{}
	params.Set("url", longURL)
	if private {
		params.Set("private", "1")
	} else {
		params.Set("private", "0")
	}

	link, err := call[shortLink](c, "utils.getShortLink", params)
	if err != nil {
		return "", err
	}
	return link.ShortURL, nil
}

// GetLinkStats fetches click statistics for a short link over the given
// interval (day, week, month or forever). Accepts both the full
// https://vk.cc/XXX form and the bare key.
func (c *Client) GetLinkStats(shortURL, interval string) (*LinkStats, error) {
	if !validIntervals[interval] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInterval, interval)
	}

	params := url.Values{}
	params.Set("key", extractKey(shortURL))
	params.Set("interval", interval)

	return call[LinkStats](c, "utils.getLinkStats", params)
}

func extractKey(shortURL string) string {
	key := strings.TrimPrefix(shortURL, "https://vk.cc/")
	return strings.TrimPrefix(key, "http://vk.cc/")
}
