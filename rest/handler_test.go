package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/geojson"
	"github.com/findrandomevents/eventfinder/serpapi"
	"github.com/findrandomevents/eventfinder/service"
	"github.com/findrandomevents/eventfinder/session"
)

func TestShiftPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, head, tail string
	}{
		{"/", "", "/"},
		{"", "", "/"},
		{"/sessions", "sessions", "/"},
		{"/sessions/", "sessions", "/"},
		{"/sessions/abc/events", "sessions", "/abc/events"},
		{"/a/../b/c", "b", "/c"},
	}
	for _, tt := range tests {
		head, tail := ShiftPath(tt.in)
		if head != tt.head || tail != tt.tail {
			t.Errorf("ShiftPath(%q) = %q, %q, want %q, %q", tt.in, head, tail, tt.head, tt.tail)
		}
	}
}

// echoSearcher returns one event titled after the location it was asked for.
type echoSearcher struct{}

func (echoSearcher) Search(ctx context.Context, location string) (serpapi.Response, error) {
	title := "Events in " + location
	return serpapi.Response{Events: []eventfinder.Event{{
		ID:    eventfinder.NewEventID(title, nil, "today"),
		Title: title,
		Date:  eventfinder.EventDate{When: "today"},
	}}}, nil
}

type fixedResolver string

func (r fixedResolver) Locality(ctx context.Context, p geojson.Point) (string, error) {
	return string(r), nil
}

func newTestHandler(t *testing.T) (http.Handler, eventfinder.SessionID) {
	t.Helper()

	svc := &service.Service{
		Searcher: echoSearcher{},
		Resolver: fixedResolver("Lyon"),
		Sessions: session.NewStore(0),
	}
	sess, err := svc.SessionCreate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return New(svc), sess.ID
}

func serve(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestSearchRequestForms(t *testing.T) {
	t.Parallel()

	h, sid := newTestHandler(t)
	base := "/sessions/" + string(sid)

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantQuery   string
	}{
		{"GetQuery", "GET", base + "/search?q=Paris", "", "", "Paris"},
		{"PostForm", "POST", base + "/search", "application/x-www-form-urlencoded", "q=Tokyo", "Tokyo"},
		{"PostJSON", "POST", base + "/search", "application/json", `{"q": "Oslo"}`, "Oslo"},
		{"NearbyQuery", "GET", base + "/search/nearby?lat=45.76&lng=4.83", "", "", "Lyon"},
		{"NearbyJSON", "POST", base + "/search/nearby", "application/json", `{"lat": 45.76, "lng": 4.83}`, "Lyon"},
	}

	for _, tt := range tests {
		w := serve(h, tt.method, tt.target, tt.contentType, tt.body)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d, body %s", tt.name, w.Code, w.Body)
			continue
		}

		var reply eventfinder.SearchReply
		if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if reply.Query != tt.wantQuery || reply.Result != eventfinder.SearchOK {
			t.Errorf("%s: got query %q result %q, want %q ok", tt.name, reply.Query, reply.Result, tt.wantQuery)
		}
	}
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	h, sid := newTestHandler(t)
	base := "/sessions/" + string(sid)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   errors.Response
	}{
		{
			name:   "BlankQuery",
			method: "GET",
			target: base + "/search?q=",
			want:   errors.Response{Kind: "invalid", Status: http.StatusBadRequest},
		},
		{
			name:   "BadLat",
			method: "GET",
			target: base + "/search/nearby?lat=north&lng=4.8",
			want:   errors.Response{Kind: "invalid", Status: http.StatusBadRequest},
		},
		{
			name:   "MissingPosition",
			method: "GET",
			target: base + "/search/nearby",
			want:   errors.Response{Kind: "invalid", Status: http.StatusBadRequest},
		},
		{
			name:   "BadJSON",
			method: "POST",
			target: base + "/search",
			body:   `{"q": `,
			want:   errors.Response{Kind: "invalid", Status: http.StatusBadRequest},
		},
		{
			name:   "UnknownSession",
			method: "GET",
			target: "/sessions/nope/events",
			want:   errors.Response{Kind: "not-exist", Status: http.StatusNotFound},
		},
		{
			name:   "UnknownEvent",
			method: "PUT",
			target: base + "/favorites/nope",
			want:   errors.Response{Kind: "not-exist", Status: http.StatusNotFound},
		},
	}

	for _, tt := range tests {
		contentType := ""
		if tt.body != "" {
			contentType = "application/json"
		}
		w := serve(h, tt.method, tt.target, contentType, tt.body)

		var got errors.Response
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Errorf("%s: %v (body %s)", tt.name, err, w.Body)
			continue
		}
		if w.Code != tt.want.Status {
			t.Errorf("%s: status %d, want %d", tt.name, w.Code, tt.want.Status)
		}
		got.Error = ""
		if diff := deep.Equal(got, tt.want); diff != nil {
			t.Errorf("%s: %v", tt.name, diff)
		}
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	h, sid := newTestHandler(t)

	for _, target := range []string{
		"/",
		"/nope",
		"/sessions/" + string(sid) + "/nope",
	} {
		if w := serve(h, "GET", target, "", ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", target, w.Code)
		}
	}

	// Wrong method on a known route.
	if w := serve(h, "DELETE", "/sessions/"+string(sid)+"/events", "", ""); w.Code == http.StatusOK {
		t.Errorf("DELETE events: status %d, want an error", w.Code)
	}
}

func TestFavoriteRoutes(t *testing.T) {
	t.Parallel()

	h, sid := newTestHandler(t)
	base := "/sessions/" + string(sid)

	w := serve(h, "GET", base+"/search?q=Paris", "", "")
	var reply eventfinder.SearchReply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	id := string(reply.Events[0].ID)

	steps := []struct {
		method, path string
		want         bool
	}{
		{"PUT", "/favorites/" + id, true},
		{"POST", "/favorites/" + id + "/toggle", false},
		{"POST", "/favorites/" + id + "/toggle", true},
		{"DELETE", "/favorites/" + id, false},
	}
	for _, s := range steps {
		w := serve(h, s.method, base+s.path, "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s %s: status %d, body %s", s.method, s.path, w.Code, w.Body)
		}
		var fav eventfinder.FavoriteReply
		if err := json.Unmarshal(w.Body.Bytes(), &fav); err != nil {
			t.Fatal(err)
		}
		if fav.Favorite != s.want {
			t.Errorf("%s %s: favorite = %v, want %v", s.method, s.path, fav.Favorite, s.want)
		}
	}
}
