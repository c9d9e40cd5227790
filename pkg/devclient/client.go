package devclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fxnlabs/device-runtime/internal/device"
)

// Client talks to a running devctl server.
type Client struct {
	baseURL string
	client  *http.Client
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *StatusError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a client for the server at baseURL. A nil client uses
// http.DefaultClient.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Health checks the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Devices returns the server's device snapshot.
func (c *Client) Devices(ctx context.Context) (device.Info, error) {
	var info device.Info
	err := c.do(ctx, http.MethodGet, "/devices", nil, &info)
	return info, err
}

// Count returns the number of devices the server sees.
func (c *Client) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/devices/count", nil, &resp)
	return resp.Count, err
}

// Current returns the server process's current device.
func (c *Client) Current(ctx context.Context) (int, error) {
	var resp struct {
		Device int `json:"device"`
	}
	err := c.do(ctx, http.MethodGet, "/devices/current", nil, &resp)
	return resp.Device, err
}

// SetCurrent makes id the server process's current device.
func (c *Client) SetCurrent(ctx context.Context, id int) error {
	body, err := json.Marshal(map[string]int{"device": id})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/devices/current", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var e struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			serr.Message = e.Error
			serr.Kind = e.Kind
		}
		return serr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
