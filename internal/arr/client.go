package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkarr/internal/config"
	"checkarr/internal/logging"
	"checkarr/internal/services"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client handles HTTP communication with one *arr instance (v3 API).
type Client struct {
	name     string
	baseURL  string
	apiKey   string
	username string
	password string
	http     HTTPDoer
	logger   *slog.Logger
}

// NewClient builds a client from instance configuration.
func NewClient(name string, inst config.Instance, logger *slog.Logger) *Client {
	timeout := time.Duration(inst.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return NewClientWithDoer(name, inst, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer builds a client over a caller-supplied HTTP backend.
func NewClientWithDoer(name string, inst config.Instance, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		name:     name,
		baseURL:  strings.TrimRight(strings.TrimSpace(inst.URL), "/"),
		apiKey:   strings.TrimSpace(inst.APIKey),
		username: inst.BasicAuthUsername,
		password: inst.BasicAuthPassword,
		http:     doer,
		logger:   logging.NewComponentLogger(logger, name),
	}
}

// Name identifies the instance in logs and reports.
func (c *Client) Name() string { return c.name }

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) del(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	fullURL := fmt.Sprintf("%s/api/v3/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrAPI, c.name, endpoint, "encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return services.Wrap(services.ErrAPI, c.name, endpoint, "build request", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrAPI, c.name, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrAPI, c.name, endpoint,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrAPI, c.name, endpoint, "read response", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return services.Wrap(services.ErrAPI, c.name, endpoint, "decode response", err)
	}
	return nil
}
