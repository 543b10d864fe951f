// Package notion fetches block trees from the Notion REST API.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/notion2hugo/internal/apperr"
	"github.com/starford/notion2hugo/internal/block"
)

// API defaults.
const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
	DefaultBackoff = 500 * time.Millisecond
	pageSize       = 100
)

// Client talks to the Notion API. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithVersion sets the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetries sets how often a rate limited or failed request is retried
// and the initial backoff between attempts.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client authenticating with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retries:    3,
		backoff:    DefaultBackoff,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-success response from the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps a 404 to apperr.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return apperr.ErrNotFound
	}
	return nil
}

// FetchBlockTree returns the block with the given id, classified as a
// Container, with all descendants fetched recursively.
func (c *Client) FetchBlockTree(ctx context.Context, id string) (block.Block, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return block.Block{}, err
	}
	var root apiBlock
	if err := c.get(ctx, c.baseURL+"/blocks/"+id, &root); err != nil {
		return block.Block{}, fmt.Errorf("notion: fetch root %s: %w", id, err)
	}
	children, err := c.fetchChildren(ctx, id)
	if err != nil {
		return block.Block{}, err
	}
	return block.New(block.Container, root.text(), append(root.options(), block.WithChildren(children...))...), nil
}

func (c *Client) fetchChildren(ctx context.Context, id string) ([]block.Block, error) {
	raw, err := c.listChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]block.Block, 0, len(raw))
	for _, b := range raw {
		var children []block.Block
		if b.HasChildren {
			children, err = c.fetchChildren(ctx, b.ID)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, b.toBlock(children))
	}
	return out, nil
}

func (c *Client) listChildren(ctx context.Context, id string) ([]apiBlock, error) {
	var out []apiBlock
	cursor := ""
	for {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		var page childrenPage
		if err := c.get(ctx, c.baseURL+"/blocks/"+id+"/children?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("notion: list children of %s: %w", id, err)
		}
		out = append(out, page.Results...)
		if !page.HasMore || page.NextCursor == "" {
			return out, nil
		}
		cursor = page.NextCursor
	}
}

// FetchAsset downloads the file behind an image block.
func (c *Client) FetchAsset(ctx context.Context, b block.Block) ([]byte, error) {
	if b.Kind() != block.Image || b.Attributes().URL == "" {
		return nil, fmt.Errorf("notion: block %s has no asset", b.Attributes().ID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Attributes().URL, nil)
	if err != nil {
		return nil, fmt.Errorf("notion: asset request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion: fetch asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion: fetch asset: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("notion: read asset: %w", err)
	}
	return data, nil
}

// get performs an authenticated GET, retrying on 429 and 5xx responses.
func (c *Client) get(ctx context.Context, u string, out any) error {
	wait := c.backoff
	for attempt := 0; ; attempt++ {
		after, err := c.do(ctx, u, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		retryable := errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500)
		if !retryable || attempt >= c.retries {
			return err
		}
		if after > 0 {
			wait = after
		}
		c.logger.Debug("notion: retrying request",
			slog.String("url", u),
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (c *Client) do(ctx context.Context, u string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.Status = resp.StatusCode
		return retryAfter(resp.Header.Get("Retry-After")), apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return 0, nil
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
