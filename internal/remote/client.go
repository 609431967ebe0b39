// Package remote wraps the REST todo collection: one HTTP request per call,
// no retries, every non-2xx answer surfaced as a *RemoteError.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thehappyredwolf/todo-app/internal/model"
)

const userAgent = "todo-cli"

// Draft is the body of a create call.
type Draft struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// Patch is the body of a partial update.
type Patch struct {
	Completed *bool `json:"completed,omitempty"`
}

// CompletedPatch builds a Patch that only sets the completion flag.
func CompletedPatch(v bool) Patch {
	return Patch{Completed: &v}
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // per request; zero means no deadline
	Token      func() string // bearer token source, may be nil
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to a fixed collection endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	token   func() string
	http    *http.Client
	log     zerolog.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		token:   opts.Token,
		http:    hc,
		log:     opts.Logger,
	}
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "list", http.MethodGet, "", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create posts a new record and returns what the server echoed back.
func (c *Client) Create(ctx context.Context, d Draft) (model.Todo, error) {
	var t model.Todo
	if err := c.do(ctx, "create", http.MethodPost, "", d, &t); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

// Update patches the record with the given id.
func (c *Client) Update(ctx context.Context, id int64, p Patch) (model.Todo, error) {
	var t model.Todo
	if err := c.do(ctx, "update", http.MethodPatch, idPath(id), p, &t); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, idPath(id), nil, nil)
}

func idPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	logger := c.log.With().
		Str("op", op).
		Str("method", method).
		Str("url", req.URL.String()).
		Str("request_id", reqID).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("request failed")
		return &RemoteError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug().Err(err).Msg("close response body")
		}
	}()

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Warn().Int("status", resp.StatusCode).Msg("non-2xx response")
		return &RemoteError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	// 204 and empty 2xx bodies are success; out keeps its zero value.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
