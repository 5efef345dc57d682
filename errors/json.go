package errors

import (
	"context"
	"net/http"
)

// Response is a JSON-serializable version of an Error. It can be used to
// transmit errors across the REST API.
type Response struct {
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status,omitempty"`
}

// ToError converts a Response back into an Error
func (e Response) ToError() error {
	if e.Status == http.StatusOK {
		return nil
	}
	if k, ok := kindNames[e.Kind]; ok {
		return E(k, e.Error)
	}
	switch e.Status {
	case http.StatusBadRequest:
		return E(Invalid, e.Error)
	case http.StatusNotFound:
		return E(NotExist, e.Error)
	case http.StatusConflict:
		return E(Canceled, e.Error)
	case http.StatusBadGateway:
		return E(Upstream, e.Error)
	}
	return Errorf("status %d: %s", e.Status, e.Error)
}

var kindNames = map[string]Kind{
	"invalid":   Invalid,
	"not-exist": NotExist,
	"transport": Transport,
	"upstream":  Upstream,
	"empty":     EmptyBody,
	"malformed": Malformed,
	"canceled":  Canceled,
	"internal":  Internal,
}

func kindName(k Kind) string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return ""
}

// ResponseForError constructs a Response based on an Error. Since this
// object is user-visible it's not a 1-1 mapping. Invalid requests and missing
// items explain themselves, upstream failures name their kind only, so
// nothing the search provider said (or the request URL) leaks to clients.
func ResponseForError(err error) Response {
	return Response{
		Error:  errText(err),
		Kind:   kindName(KindOf(err)),
		Status: errStatus(err),
	}
}

func errText(err error) string {
	if e, ok := err.(*Error); ok {
		switch KindOf(e) {
		case Invalid, NotExist:
			return e.Error()
		case Transport, Upstream, EmptyBody, Malformed, Canceled:
			return KindOf(e).String()
		}
	}

	return http.StatusText(errStatus(err))
}

func errStatus(err error) int {
	switch err {
	case context.Canceled:
		return http.StatusConflict
	case context.DeadlineExceeded:
		return http.StatusGatewayTimeout
	}

	switch KindOf(err) {
	case Invalid:
		return http.StatusBadRequest
	case NotExist:
		return http.StatusNotFound
	case Transport, Upstream, EmptyBody, Malformed:
		return http.StatusBadGateway
	case Canceled:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
