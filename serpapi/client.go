// Package serpapi is a slimmed-down client for the SerpApi Google Events
// engine. See https://serpapi.com/google-events-api.
package serpapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/prom"
)

const (
	// DefaultBaseURL is SerpApi's public endpoint.
	DefaultBaseURL = "https://serpapi.com"

	engine = "google_events"

	// maxBody caps how much of a response we're willing to read.
	maxBody = 8 << 20
)

// Client searches for events through SerpApi.
//
// Don't construct a Client directly. Use New() instead.
type Client struct {
	// HTTP is the underlying HTTP client used to send requests.
	HTTP *http.Client
	// BaseURL can be overridden for tests. It defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is the SerpApi private key. It is sent as a query parameter and
	// never logged.
	APIKey string
	// Language is the "hl" parameter, eg. "en".
	Language string
	// Region is the "gl" parameter, a two-letter country code like "us".
	Region string
}

// New constructs a Client with the default endpoint, English results and
// US region.
func New(apiKey string) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		BaseURL:  DefaultBaseURL,
		APIKey:   apiKey,
		Language: "en",
		Region:   "us",
	}
}

// Response holds the events parsed from one search, in the order SerpApi
// returned them.
type Response struct {
	SearchID string
	// Message is SerpApi's explanation when a search came back empty, eg.
	// "Google hasn't returned any results for this query."
	Message string
	Events  []eventfinder.Event
}

// Query returns the search text sent for a location.
func Query(location string) string {
	return "Events " + strings.TrimSpace(location)
}

func (c *Client) searchURL(location string) (*url.URL, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + "/search.json")
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("engine", engine)
	q.Set("q", Query(location))
	if c.Language != "" {
		q.Set("hl", c.Language)
	}
	if c.Region != "" {
		q.Set("gl", c.Region)
	}
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	return u, nil
}

// Search fetches the events SerpApi knows about for location, usually a city
// name. It makes exactly one request. Failures are reported as *errors.Error
// with one of the Transport, Upstream, EmptyBody, Malformed or Canceled kinds.
func (c *Client) Search(ctx context.Context, location string) (Response, error) {
	const op errors.Op = "serpapi.Search"

	if strings.TrimSpace(location) == "" {
		return Response{}, errors.E(op, errors.Invalid, "empty location")
	}

	u, err := c.searchURL(location)
	if err != nil {
		return Response{}, errors.E(op, errors.Internal, err)
	}
	logger := log.FromContext(ctx).With(log.URL("url", u))

	start := time.Now()
	resp, err := c.do(ctx, u)
	kind := ""
	if err != nil {
		kind = errors.KindOf(err).String()
	}
	prom.ObserveUpstream("serpapi", kind, time.Since(start))
	if err != nil {
		logger.Debug("serpapi search failed", zap.Error(err))
		return Response{}, errors.E(op, err)
	}

	logger.Debug("serpapi search",
		zap.String("searchID", resp.SearchID),
		zap.Int("events", len(resp.Events)),
		zap.String("message", resp.Message))

	return resp, nil
}

func (c *Client) do(ctx context.Context, u *url.URL) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, errors.E(errors.Internal, err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	w, err := client.Do(req)
	if err != nil {
		return Response{}, transportErr(ctx, err)
	}
	defer w.Body.Close()

	body, err := io.ReadAll(io.LimitReader(w.Body, maxBody))
	if err != nil {
		return Response{}, transportErr(ctx, err)
	}

	if w.StatusCode/100 != 2 {
		return Response{}, errors.E(errors.Upstream, parseError(w.StatusCode, body))
	}

	resp, skipped, err := Parse(body)
	if err != nil {
		return resp, err
	}
	if skipped > 0 {
		log.FromContext(ctx).Warn("skipped malformed event results", zap.Int("count", skipped))
	}

	return resp, nil
}

// transportErr classifies a failed round trip. *url.Error is unwrapped since
// its message contains the request URL and with it the API key.
func transportErr(ctx context.Context, err error) error {
	if ue, ok := err.(*url.Error); ok {
		err = ue.Err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.E(errors.Canceled, ctxErr)
	}
	return errors.E(errors.Transport, err)
}
