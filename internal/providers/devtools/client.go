// Package devtools talks to the HTTP side of the Chrome DevTools Protocol
// endpoint exposed by a browser started with --remote-debugging-port.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoWebSocket is returned when the endpoint answers without a debugger URL.
var ErrNoWebSocket = errors.New("devtools endpoint reported no webSocketDebuggerUrl")

// VersionInfo is the payload of GET /json/version.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	V8Version            string `json:"V8-Version"`
	WebKitVersion        string `json:"WebKit-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Client probes DevTools endpoints. It never retries: a failed probe is
// reported to the caller as is.
type Client struct {
	resty *resty.Client
}

// NewClient creates a probe client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "TerminAI-Bridge/1.0")
	return &Client{resty: r}
}

// Version fetches /json/version from endpoint (http://host:port).
func (c *Client) Version(ctx context.Context, endpoint string) (*VersionInfo, error) {
	var info VersionInfo
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&info).
		Get(strings.TrimRight(endpoint, "/") + "/json/version")
	if err != nil {
		return nil, fmt.Errorf("devtools probe failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("devtools probe failed: HTTP %d from %s", resp.StatusCode(), endpoint)
	}
	if info.WebSocketDebuggerURL == "" {
		return nil, ErrNoWebSocket
	}
	return &info, nil
}

// Probe checks endpoint speaks DevTools and returns the browser version.
func (c *Client) Probe(ctx context.Context, endpoint string) (string, error) {
	info, err := c.Version(ctx, endpoint)
	if err != nil {
		return "", err
	}
	return info.Browser, nil
}
