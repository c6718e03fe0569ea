// Package remote pages job records from an HTTP feed.
package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/jobtrack/internal/source"
)

// Config configures the HTTP feed.
type Config struct {
	URL     string
	Token   string // Optional bearer token
	Timeout time.Duration
}

// Adapter implements source.Source over a feed answering
// GET <url>?cursor=<c>&limit=<n> with {"items": [...], "next_cursor": "..."}.
type Adapter struct {
	client *resty.Client
	url    string
}

type feedPage struct {
	Items      []source.JobRecord `json:"items"`
	NextCursor string             `json:"next_cursor"`
}

// NewAdapter creates a new remote feed adapter.
// Parameters:
//   - cfg: feed URL, token and timeout.
//
// Returns:
//   - *Adapter: configured adapter.
//   - error: non-nil if the URL is not absolute.
func NewAdapter(cfg Config) (*Adapter, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid feed url %q", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Adapter{client: client, url: cfg.URL}, nil
}

// GetSourceID returns "remote:" followed by the feed host.
func (a *Adapter) GetSourceID() string {
	u, _ := url.Parse(a.url)
	return "remote:" + u.Host
}

func (a *Adapter) GetDisplayName() string {
	return fmt.Sprintf("Remote feed (%s)", a.url)
}

// FetchBatch requests one page from the feed.
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]source.JobRecord, string, error) {
	var page feedPage
	req := a.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&page)
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get(a.url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to call job feed: %w", err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("job feed error: status %d", resp.StatusCode())
	}

	if page.Items == nil {
		page.Items = []source.JobRecord{}
	}
	return page.Items, page.NextCursor, nil
}
