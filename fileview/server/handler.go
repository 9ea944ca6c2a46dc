package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"gamepanel.dev/fileview/site"
)

type handler struct {
	site atomic.Pointer[site.Site]
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s := h.site.Load()

	switch req.Method {
	case http.MethodGet:
	case http.MethodHead:
	default:
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	resp, err := route(s, req)
	switch {
	case errors.Is(err, site.ErrNotFound):
		resp = plain(http.StatusNotFound, "not found")
	case err != nil:
		log.Printf("failed to serve %v: %v", req.URL.EscapedPath(), err)
		resp = plain(http.StatusInternalServerError, err.Error())
	}

	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	if req.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(resp.body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func route(s *site.Site, req *http.Request) (response, error) {
	ctx := req.Context()
	p := req.URL.Path
	q := req.URL.Query()

	switch {
	case p == "/":
		b, err := s.RenderIndex(ctx, "/", q.Get("q"))
		return html(b), err

	case p == "/style.css":
		return response{http.StatusOK, "text/css; charset=utf-8", site.Style()}, nil

	case strings.HasPrefix(p, "/view/"):
		path := strings.TrimPrefix(p, "/view/")
		if !s.Has(path) {
			return response{}, site.ErrNotFound
		}
		b, err := s.RenderFile(ctx, "/", path)
		return html(b), err

	case p == "/diff":
		dr := site.DiffRequest{A: q.Get("a"), B: q.Get("b")}
		if !s.Has(dr.A) || !s.Has(dr.B) {
			return response{}, site.ErrNotFound
		}
		var ok bool
		if dr.Offset, ok = intParam(q.Get("offset")); !ok {
			return plain(http.StatusBadRequest, "invalid offset"), nil
		}
		if dr.Limit, ok = intParam(q.Get("limit")); !ok {
			return plain(http.StatusBadRequest, "invalid limit"), nil
		}
		b, err := s.RenderDiff(ctx, "/", dr)
		return html(b), err
	}

	return response{}, site.ErrNotFound
}

// intParam parses an optional non-negative integer query parameter.
func intParam(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil && n >= 0
}

func html(b []byte) response {
	return response{http.StatusOK, "text/html; charset=utf-8", b}
}

func plain(status int, msg string) response {
	return response{status, "text/plain; charset=utf-8", []byte(msg)}
}
