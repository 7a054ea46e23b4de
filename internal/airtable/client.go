package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/airtable-events/internal/logger"
)

const (
	DefaultBaseURL = "https://api.airtable.com/v0/"
	UserAgent      = "airtable-events/1.0 (github.com/pfrederiksen/airtable-events)"

	// ApprovedFormula restricts listings to records cleared for publication.
	ApprovedFormula = `{Status} = "Approved"`
	SortField       = "Start"
	SortDirection   = "asc"
)

// ListParams are the query parameters of one list-records request.
type ListParams struct {
	FilterByFormula string `url:"filterByFormula"`
	SortField       string `url:"sort[0][field]"`
	SortDirection   string `url:"sort[0][direction]"`
	Offset          string `url:"offset,omitempty"`
}

// approvedParams returns the parameters for the page following offset.
func approvedParams(offset string) *ListParams {
	return &ListParams{
		FilterByFormula: ApprovedFormula,
		SortField:       SortField,
		SortDirection:   SortDirection,
		Offset:          offset,
	}
}

// Client lists approved records from one Airtable table
type Client struct {
	apiKey     string
	baseID     string
	table      string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
	metrics    *logger.Metrics
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout bounds each HTTP request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithMetrics sets where page counts and fetch timings are recorded.
func WithMetrics(m *logger.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the given credentials and table
func NewClient(apiKey, baseID, table string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseID:     baseID,
		table:      table,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		log:        logger.Default(),
		metrics:    logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListApproved fetches every approved record, following pagination until the
// server stops returning an offset. Records keep the server's order: page
// order first, then order within each page.
func (c *Client) ListApproved(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0)
	offset := ""

	for page := 1; ; page++ {
		start := time.Now()
		resp, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		elapsed := time.Since(start)

		c.metrics.IncrCounter("airtable.pages")
		c.metrics.AddCounter("airtable.records", int64(len(resp.Records)))
		c.metrics.RecordTiming("airtable.fetch", elapsed)
		c.log.Debug("Fetched page", logger.Fields{
			"page":     page,
			"records":  len(resp.Records),
			"has_more": resp.Offset != "",
			"elapsed":  elapsed.String(),
		})

		records = append(records, resp.Records...)

		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}
}

// fetchPage performs a single list request
func (c *Client) fetchPage(ctx context.Context, offset string) (*listResponse, error) {
	req, err := c.newListRequest(ctx, offset)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &page, nil
}

func (c *Client) newListRequest(ctx context.Context, offset string) (*http.Request, error) {
	req, err := sling.New().
		Base(c.baseURL).
		Get(c.tablePath()).
		Set("Authorization", "Bearer "+c.apiKey).
		Set("Accept", "application/json").
		Set("User-Agent", UserAgent).
		QueryStruct(approvedParams(offset)).
		Request()
	if err != nil {
		return nil, err
	}
	return req.WithContext(ctx), nil
}

// tablePath is relative to baseURL, which must end in a slash.
func (c *Client) tablePath() string {
	return url.PathEscape(c.baseID) + "/" + url.PathEscape(c.table)
}
