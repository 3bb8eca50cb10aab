package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound means taskd has no task with the requested id.
var ErrNotFound = errors.New("tasks: not found")

// ErrUnavailable wraps transport-level failures reaching taskd. Timeouts
// and connection errors both land here; the caller surfaces a 5xx and
// lets the client decide whether to retry.
var ErrUnavailable = errors.New("tasks: service unavailable")

// Client is the gateway's HTTP client for the internal task service.
// Construct one per process and inject it; the embedded http.Client
// carries the request timeout.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) List(ctx context.Context, status string) ([]Task, error) {
	u := c.baseURL
	if status != "" {
		u += "?" + url.Values{"status": {status}}.Encode()
	}
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	return out.Tasks, nil
}

func (c *Client) Create(ctx context.Context, t NewTask) (Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPost, c.baseURL, t, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, t UpdateTask) (Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPut, c.baseURL, t, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("tasks: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("tasks: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: taskd returned %d", ErrUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("tasks: decode response: %w", err)
		}
	}
	return nil
}
