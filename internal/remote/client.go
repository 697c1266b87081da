// Package remote implements the HTTP client for the todos API. It resolves
// the shape-polymorphic wire format into canonical records at this boundary,
// so downstream merge logic never sees raw payloads. Calls are single
// attempts bounded by the configured timeout; retry is the caller's choice.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

const defaultBaseURL = "https://dummyjson.com"

// Client fetches and creates todos over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.RemoteConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "remote"),
	}
}

// NewClientWithURL creates a Client with a custom base URL and timeout
// (for testing).
func NewClientWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "remote"),
	}
}

// NewItem holds the fields sent to the remote create endpoint.
type NewItem struct {
	Text      string
	Completed bool
	OwnerID   int64
}

// FetchPage requests one page of todos. limit is the page size, skip the
// number of items to skip. Every failure is classified into the package's
// error taxonomy.
func (c *Client) FetchPage(ctx context.Context, limit, skip int) (Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	reqURL := c.baseURL + "/todos?" + q.Encode()

	c.log.DebugContext(ctx, "fetch page", slog.Int("limit", limit), slog.Int("skip", skip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("remote: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classify(err)
		c.log.WarnContext(ctx, "fetch page failed", slog.String("error", classified.Error()))
		return Page{}, classified
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Page{}, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, classify(err)
	}

	page, err := decodePage(body)
	if err != nil {
		c.log.WarnContext(ctx, "fetch page malformed", slog.String("error", err.Error()))
		return Page{}, err
	}

	c.log.DebugContext(ctx, "fetch page done",
		slog.Int("records", len(page.Records)),
		slog.Int("total", page.Total),
	)

	return page, nil
}

// Create posts a new todo to the remote source and returns the created
// record in canonical form.
func (c *Client) Create(ctx context.Context, item NewItem) (domain.Record, error) {
	payload, err := json.Marshal(map[string]any{
		"todo":      item.Text,
		"completed": item.Completed,
		"userId":    item.OwnerID,
	})
	if err != nil {
		return domain.Record{}, fmt.Errorf("remote: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/todos/add", bytes.NewReader(payload))
	if err != nil {
		return domain.Record{}, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classify(err)
		c.log.WarnContext(ctx, "create failed", slog.String("error", classified.Error()))
		return domain.Record{}, classified
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return domain.Record{}, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Record{}, classify(err)
	}

	record, err := decodeItem(body)
	if err != nil {
		return domain.Record{}, err
	}

	c.log.DebugContext(ctx, "create done", slog.Int64("id", record.ID))

	return record, nil
}
