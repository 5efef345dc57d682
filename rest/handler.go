// Package rest contains a REST handler for eventfinder. It wraps Service in a
// web-accessible API.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/service"
)

// New creates a new REST service wrapping an eventfinder Service.
func New(service *service.Service) *Handler {
	return &Handler{
		SessionsHandler: newSessionsHandler(service),
	}
}

// Handler is an http.Handler that provides a REST interface for eventfinder.
type Handler struct {
	SessionsHandler *SessionsHandler
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var head string
	head, r.URL.Path = ShiftPath(r.URL.Path)

	switch head {
	case "sessions":
		if h.SessionsHandler != nil {
			h.SessionsHandler.ServeHTTP(w, r)
		} else {
			http.NotFound(w, r)
		}

	case "healthz":
		fmt.Fprintln(w, "ok")

	default:
		http.NotFound(w, r)
	}
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
func ShiftPath(p string) (head, tail string) {
	p = path.Clean("/" + p)
	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}

type sessionCtxMarker struct{}

var sessionCtxKey = &sessionCtxMarker{}

// withSession records the session a request is addressed to and decorates
// the request logger with it.
func withSession(r *http.Request, id eventfinder.SessionID) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, sessionCtxKey, id)
	ctx = log.ToContext(ctx, log.FromContext(ctx).With(zap.String("session", string(id))))
	return r.WithContext(ctx)
}

func sessionID(ctx context.Context) eventfinder.SessionID {
	id, _ := ctx.Value(sessionCtxKey).(eventfinder.SessionID)
	return id
}

func handleJSON(w http.ResponseWriter, r *http.Request, f func(context.Context) (interface{}, error)) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	resp, err := f(ctx)
	if err != nil {
		errResp := errors.ResponseForError(err)
		if errResp.Status >= 500 && errResp.Status != http.StatusBadGateway {
			logger.Error("internal server error", zap.Error(err))
		} else {
			logger.Warn("handler failed", zap.Error(err))
		}

		writeErrorResp(w, errResp)
		return
	}

	js, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		logger.Error("write json failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(js)
}

func writeErrorResp(w http.ResponseWriter, resp errors.Response) {
	js, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.Status)
	w.Write(js)
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && err != io.EOF {
		return errors.E(errors.Invalid, err)
	}
	return nil
}
