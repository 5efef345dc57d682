package errors

import (
	"context"
	"net/http"
	"testing"

	"github.com/findrandomevents/eventfinder"
)

func TestKindPullUp(t *testing.T) {
	t.Parallel()

	inner := E(Op("Client.Search"), Malformed, "unexpected end of JSON input")
	outer := E(Op("Service.EventSearch"), eventfinder.SessionID("abc"), inner)

	if !Is(Malformed, outer) {
		t.Fatalf("Is(Malformed, %v) = false, want true", outer)
	}
	if got, want := KindOf(outer), Malformed; got != want {
		t.Fatalf("KindOf = %v, want %v", got, want)
	}

	e, ok := outer.(*Error)
	if !ok {
		t.Fatalf("E returned %T, want *Error", outer)
	}
	if e.Op != "Service.EventSearch" || e.Session != "abc" {
		t.Fatalf("outer error = %+v, want op Service.EventSearch for session abc", e)
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	err := E(Op("Service.EventGet"), eventfinder.SessionID("s1"), NotExist, "event 42")
	if got, want := err.Error(), "Service.EventGet, session s1: item does not exist: event 42"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestResponseForError(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		Name   string
		Err    error
		Status int
		Kind   Kind
	}{
		{"invalid", E(Invalid, "blank query"), http.StatusBadRequest, Invalid},
		{"not exist", E(NotExist), http.StatusNotFound, NotExist},
		{"transport", E(Transport, "dial tcp: refused"), http.StatusBadGateway, Transport},
		{"malformed", E(Op("x"), E(Malformed)), http.StatusBadGateway, Malformed},
		{"canceled", E(Canceled), http.StatusConflict, Canceled},
		{"plain", str("boom"), http.StatusInternalServerError, Other},
		{"context", context.Canceled, http.StatusConflict, Other},
	} {
		resp := ResponseForError(test.Err)
		if resp.Status != test.Status {
			t.Errorf("%s: status = %d, want %d", test.Name, resp.Status, test.Status)
		}
		if test.Kind == Other {
			continue
		}
		if back := resp.ToError(); !Is(test.Kind, back) {
			t.Errorf("%s: round trip kind = %v, want %v", test.Name, KindOf(back), test.Kind)
		}
	}
}

func TestResponseHidesUpstreamDetail(t *testing.T) {
	t.Parallel()

	err := E(Upstream, "GET https://serpapi.com/search.json?api_key=secret: 401")
	if got, want := ResponseForError(err).Error, Upstream.String(); got != want {
		t.Fatalf("error text = %q, want %q", got, want)
	}
}
