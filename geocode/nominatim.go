// Package geocode resolves coordinates to the name of the locality they're in.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/geojson"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/prom"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance. Its usage
// policy requires an identifying User-Agent and at most one request per second.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client is a reverse geocoder backed by the Nominatim /reverse endpoint.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	// Language is sent as accept-language so locality names come back in the
	// same language the event search uses.
	Language string
}

// New constructs a Client for the public Nominatim instance.
func New(userAgent string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Language:  "en",
	}
}

type reverseResponse struct {
	Error   string            `json:"error"`
	Address map[string]string `json:"address"`
}

// localityKeys are the address components tried in order. Small places have
// a town or village instead of a city.
var localityKeys = []string{"city", "town", "village", "municipality", "county"}

// Locality returns the name of the city, town or village at p.
func (c *Client) Locality(ctx context.Context, p geojson.Point) (string, error) {
	const op errors.Op = "geocode.Locality"

	if !p.Valid() {
		return "", errors.E(op, errors.Invalid, fmt.Sprintf("bad coordinates %v,%v", p.Lat, p.Lng))
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")
	u := strings.TrimRight(base, "/") + "/reverse?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", errors.E(op, errors.Internal, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Language != "" {
		req.Header.Set("Accept-Language", c.Language)
	}

	start := time.Now()
	locality, err := c.do(req)
	kind := ""
	if err != nil {
		kind = errors.KindOf(err).String()
	}
	prom.ObserveUpstream("nominatim", kind, time.Since(start))
	if err != nil {
		return "", errors.E(op, err)
	}

	log.FromContext(ctx).Debug("resolved locality",
		zap.Float64("lat", p.Lat),
		zap.Float64("lng", p.Lng),
		zap.String("locality", locality))

	return locality, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	w, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return "", errors.E(errors.Canceled, ctxErr)
		}
		return "", errors.E(errors.Transport, err)
	}
	defer w.Body.Close()

	if w.StatusCode/100 != 2 {
		return "", errors.E(errors.Upstream, fmt.Sprintf("nominatim: http %d", w.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(w.Body, 1<<20))
	if err != nil {
		return "", errors.E(errors.Transport, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", errors.E(errors.EmptyBody)
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.E(errors.Malformed, err)
	}

	for _, k := range localityKeys {
		if s := strings.TrimSpace(resp.Address[k]); s != "" {
			return s, nil
		}
	}

	msg := resp.Error
	if msg == "" {
		msg = "no locality at these coordinates"
	}
	return "", errors.E(errors.NotExist, msg)
}
