package callrail

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/calltools/callrail-exporter/internal/callrail/dto"
	httpx "github.com/calltools/callrail-exporter/internal/http"
	"github.com/calltools/callrail-exporter/internal/model"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.callrail.com/v3"

// DefaultPerPage is the page size requested from the calls listing.
const DefaultPerPage = 250

// ErrNoRecordingURL is returned when a recording reference resolves to a
// response that carries no download URL.
var ErrNoRecordingURL = errors.New("recording response had no url")

// fields is the projection list sent with every page request. Asking for
// exactly the attributes the canonical record needs keeps payloads small
// and avoids depending on undocumented fields.
var fields = []string{
	"id",
	"direction",
	"duration",
	"start_time",
	"answered",
	"voicemail",
	"customer_phone_number",
	"customer_name",
	"customer_city",
	"customer_state",
	"recording",
	"source_name",
}

// Filters bounds a fetch to an inclusive date range.
//
// Dates use the YYYY-MM-DD format the provider expects. An empty field
// leaves that side of the range unbounded.
type Filters struct {
	StartDate string
	EndDate   string
}

// PageEvent describes the completion of one page request.
type PageEvent struct {
	// Page is the 1-based page number that was fetched.
	Page int

	// Count is the number of records the page returned.
	Count int

	// Total is the running record total across all pages so far.
	Total int
}

// FetchResult is the outcome of a full paginated fetch.
//
// A fetch that hits a provider error partway through still yields the
// records accumulated up to that point; Complete and Err let callers tell
// exhausted pagination apart from a mid-fetch failure instead of carrying
// that ambiguity forward.
type FetchResult struct {
	// Calls holds the accumulated records in page order, then intra-page
	// order. The slice is built locally by the fetch loop and returned by
	// value; no state survives a fetch.
	Calls []model.CallRecord

	// Pages is the number of page requests issued.
	Pages int

	// Complete is true when pagination ran to exhaustion, false when the
	// loop stopped early on a provider error.
	Complete bool

	// Err is the provider error that stopped the loop. Nil when Complete.
	Err error
}

// Client fetches call metadata from the CallRail API.
//
// Client owns pagination: it issues successive page requests until the
// provider signals exhaustion and projects each raw entry onto the
// canonical model. It also resolves recording references into
// pre-authorized download URLs for the download manager.
//
// Example usage:
//
//	client := callrail.NewClient(apiKey, accountID)
//	client.OnPage = func(ev callrail.PageEvent) {
//	    log.Printf("page %d: %d records", ev.Page, ev.Count)
//	}
//
//	result, err := client.FetchCalls(ctx, callrail.Filters{StartDate: "2024-01-01"})
//	if err != nil {
//	    return err
//	}
//	if !result.Complete {
//	    log.Printf("partial export: %v", result.Err)
//	}
type Client struct {
	httpClient *httpx.Client
	baseURL    string
	accountID  string
	apiKey     string
	perPage    int

	// OnPage, if set, is called after every page request completes.
	// It must not block; the fetch loop suspends until it returns.
	OnPage func(PageEvent)
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPerPage overrides the requested page size.
func WithPerPage(perPage int) Option {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = httpx.NewClient(c.apiKey, timeout)
	}
}

// NewClient creates a Client for the given credential and account.
//
// The accountID is only used by FetchCalls; ResolveRecordingURL operates on
// opaque references that already identify the account.
func NewClient(apiKey, accountID string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpx.NewClient(apiKey, httpx.DefaultTimeout),
		baseURL:    DefaultBaseURL,
		accountID:  accountID,
		apiKey:     apiKey,
		perPage:    DefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCalls retrieves all calls matching the filters, one page at a time.
//
// Pages are requested in strictly increasing page-number order and records
// are accumulated in page order; the provider's sort defines the overall
// order and no independent sort is applied. The loop stops when a page
// returns zero records, or fewer records than requested — whichever comes
// first — so the common case avoids a trailing empty-page request.
//
// If a page request fails (network error, non-2xx status, malformed
// payload), the loop halts and the records gathered so far are returned
// with Complete=false and the failure recorded in Err; a partial result is
// not a hard error. Cancellation is cooperative: ctx is checked between
// page requests, and a ctx error is returned as the function error.
func (c *Client) FetchCalls(ctx context.Context, filters Filters) (*FetchResult, error) {
	result := &FetchResult{Complete: true}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			result.Complete = false
			return result, err
		}

		pageURL := c.callsURL(filters, page)

		var body dto.JSONCallPage
		if err := c.httpClient.GetJSON(ctx, pageURL, &body); err != nil {
			result.Complete = false
			result.Err = fmt.Errorf("page %d: %w", page, err)
			return result, nil
		}
		result.Pages++

		for i := range body.Calls {
			result.Calls = append(result.Calls, body.Calls[i].ToCall())
		}

		if c.OnPage != nil {
			c.OnPage(PageEvent{Page: page, Count: len(body.Calls), Total: len(result.Calls)})
		}

		if len(body.Calls) == 0 || len(body.Calls) < c.perPage {
			return result, nil
		}
	}
}

// ResolveRecordingURL resolves an opaque recording reference into a
// pre-authorized direct download URL.
//
// The reference itself requires the API credential; the returned URL does
// not, and is fetched without one.
func (c *Client) ResolveRecordingURL(ctx context.Context, recordingRef string) (string, error) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.httpClient.GetJSON(ctx, recordingRef, &body); err != nil {
		return "", fmt.Errorf("resolving recording: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%s: %w", recordingRef, ErrNoRecordingURL)
	}
	return body.URL, nil
}

// HTTPClient exposes the underlying client for unauthenticated downloads.
func (c *Client) HTTPClient() *httpx.Client {
	return c.httpClient
}

// callsURL builds the listing URL for one page. The parameter set is fully
// deterministic given the filters and page number.
func (c *Client) callsURL(filters Filters, page int) string {
	params := url.Values{}
	params.Set("fields", strings.Join(fields, ","))
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "start_time")
	if filters.StartDate != "" {
		params.Set("start_date", filters.StartDate)
	}
	if filters.EndDate != "" {
		params.Set("end_date", filters.EndDate)
	}

	return fmt.Sprintf("%s/accounts/%s/calls?%s", c.baseURL, c.accountID, params.Encode())
}
