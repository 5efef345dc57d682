// Package e2e contains end-to-end tests for the eventfinder package. They test
// from the rest client all the way down to the SerpApi wire format, with the
// SerpApi endpoint replaced by a local stub.
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/findrandomevents/eventfinder/geojson"
	"github.com/findrandomevents/eventfinder/rest"
	"github.com/findrandomevents/eventfinder/rest/client"
	"github.com/findrandomevents/eventfinder/serpapi"
	"github.com/findrandomevents/eventfinder/service"
	"github.com/findrandomevents/eventfinder/session"
)

// stubSerpAPI is a fake SerpApi endpoint answering with canned bodies keyed
// by the q parameter. Unknown queries get an empty events_results list.
type stubSerpAPI struct {
	mu     sync.Mutex
	bodies map[string]stubBody
}

type stubBody struct {
	Status int
	Body   string
}

func (s *stubSerpAPI) set(location string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[serpapi.Query(location)] = stubBody{status, body}
}

func (s *stubSerpAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("api_key") != "e2e-key" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid API key."}`))
		return
	}

	s.mu.Lock()
	b, ok := s.bodies[r.URL.Query().Get("q")]
	s.mu.Unlock()
	if !ok {
		b = stubBody{http.StatusOK, `{"search_metadata": {"status": "Success"}, "events_results": []}`}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.Status)
	w.Write([]byte(b.Body))
}

// stubResolver places every position in Berlin.
type stubResolver struct{}

func (stubResolver) Locality(ctx context.Context, p geojson.Point) (string, error) {
	return "Berlin", nil
}

// stubServer starts an eventfinder REST server backed by a stub SerpApi and
// returns a client for it along with the stub, so tests can set canned
// responses.
func stubServer(t *testing.T) (*client.Client, *stubSerpAPI) {
	t.Helper()

	upstream := &stubSerpAPI{bodies: map[string]stubBody{}}
	upstreamSrv := httptest.NewServer(upstream)
	t.Cleanup(upstreamSrv.Close)

	searcher := serpapi.New("e2e-key")
	searcher.BaseURL = upstreamSrv.URL

	srv := &service.Service{
		Searcher: searcher,
		Resolver: stubResolver{},
		Sessions: session.NewStore(0),
	}

	apiSrv := httptest.NewServer(rest.New(srv))
	t.Cleanup(apiSrv.Close)

	return client.New(apiSrv.URL), upstream
}

const parisEvents = `{
	"search_metadata": {"id": "abc", "status": "Success"},
	"events_results": [
		{
			"title": "Jazz at the Sunset",
			"date": {"start_date": "Dec 7", "when": "Sat, Dec 7, 8 – 11 PM"},
			"address": ["Sunset Sunside", "60 Rue des Lombards, Paris"],
			"link": "https://example.com/jazz",
			"description": "Late set.",
			"ticket_info": [{"source": "Sunset", "link": "https://example.com/t", "link_type": "tickets"}],
			"venue": {"name": "Sunset Sunside", "rating": 4.6, "reviews": 1200},
			"thumbnail": "https://example.com/thumb.jpg"
		},
		{
			"date": {"start_date": "Dec 8"}
		}
	]
}`

const tokyoEvents = `{
	"events_results": [
		{"title": "Sumo Tournament", "date": {"when": "Sun, Jan 12"}, "address": ["Ryogoku Kokugikan"]}
	]
}`

const berlinEvents = `{
	"events_results": [
		{"title": "Techno Night", "date": {"when": "Fri, Dec 6, 11 PM"}}
	]
}`
