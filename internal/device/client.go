// Package device talks to the Raspberry Pi actuator that physically
// drives the pillow pumps.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

const (
	// Short commands: on/off/status return as soon as the device acks.
	shortTimeout = 10 * time.Second
	// The full sequence inflates 50s then deflates 30s on the device's
	// own clock, so the HTTP call must outlive it.
	sequenceTimeout = 120 * time.Second
	// Longest single pillow-level actuation is 60s.
	pillowTimeout = 90 * time.Second
	// Margin added on top of a requested trigger duration.
	triggerMargin = 30 * time.Second
)

// Error wraps any transport failure or non-2xx reply from the device.
// StatusCode is zero when the device never answered.
type Error struct {
	Op         string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Client issues authenticated HTTP commands to the actuator. A single
// failed attempt surfaces immediately; retry policy belongs to callers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     internal.Logger
}

func NewClient(baseURL, apiKey string, logger internal.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// Per-call deadlines are set via context; the client itself
		// carries no timeout so long actuations are not cut short.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) PumpOn(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, "/pump/on", nil, shortTimeout)
}

func (c *Client) PumpOff(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, "/pump/off", nil, shortTimeout)
}

func (c *Client) PumpStatus(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/pump/status", nil, shortTimeout)
}

// PumpTrigger runs the pump for durationSeconds. The deadline covers the
// device-side actuation window plus margin.
func (c *Client) PumpTrigger(ctx context.Context, durationSeconds float64) (map[string]any, error) {
	body := map[string]any{"duration": durationSeconds}
	timeout := triggerMargin + time.Duration(durationSeconds*float64(time.Second))
	return c.do(ctx, http.MethodPost, "/pump/trigger", body, timeout)
}

// PumpFullSequence runs the anti-snoring inflate/deflate cycle
// (pump 1 inflate 50s, pump 2 deflate 30s).
func (c *Client) PumpFullSequence(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, "/pump/sequence", nil, sequenceTimeout)
}

// SetPillowLevel moves the pillow to level 0-3. Range validation is the
// caller's job; the client forwards whatever it is given.
func (c *Client) SetPillowLevel(ctx context.Context, level int) (map[string]any, error) {
	body := map[string]any{"level": level}
	return c.do(ctx, http.MethodPost, "/pillow/level", body, pillowTimeout)
}

func (c *Client) do(ctx context.Context, method, path string, body map[string]any, timeout time.Duration) (map[string]any, error) {
	op := method + " " + path

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.logger.Errorf("device: failed to create request for %s: %v", op, err)
		return nil, &Error{Op: op, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("device: %s failed: %v", op, err)
		return nil, &Error{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Errorf("device: %s returned %d: %s", op, resp.StatusCode, raw)
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Errorf("device: failed to decode %s response: %v", op, err)
		return nil, &Error{Op: op, Cause: err}
	}
	return decoded, nil
}
