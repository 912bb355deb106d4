package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/photowall/pkg/cache"
	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/gallery"
	"github.com/matzehuels/photowall/pkg/render"
	"github.com/matzehuels/photowall/pkg/session"
)

type createRequest struct {
	Query string `json:"query"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	Query     string `json:"query,omitempty"`
	CreatedAt string `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
	}
	if q := r.URL.Query().Get("query"); q != "" {
		req.Query = q
	}
	if err := perrors.ValidateQuery(req.Query); err != nil {
		s.writeError(w, err)
		return
	}

	g := gallery.New(s.opts.Sources(req.Query), s.galleryOptions()...)
	if err := g.Mount(s.base); err != nil {
		s.writeError(w, err)
		return
	}
	sess := session.New(g, req.Query, s.opts.SessionTTL)
	if err := s.store.Add(sess); err != nil {
		sess.Close()
		s.writeError(w, err)
		return
	}
	s.log.Info("session created", "id", sess.ID, "query", req.Query, "live", s.store.Len())

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, toResponse(sess))
}

func (s *Server) galleryOptions() []gallery.Option {
	opts := append([]gallery.Option(nil), s.opts.GalleryOptions...)
	return append(opts, gallery.WithLogger(s.log))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("session closed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.scrolled(w, r)
	if !ok {
		return
	}
	data, err := render.RenderJSON(sess.Gallery.Frame(), render.WithQuery(sess.Query), render.WithCompact())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeFrame(w, r, render.FormatJSON, data)
}

// writeFrame answers with data, or 304 when the client already holds it.
func writeFrame(w http.ResponseWriter, r *http.Request, format string, data []byte) {
	etag := `"` + cache.ShortHash(data, 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Write(data)
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.scrolled(w, r)
	if !ok {
		return
	}
	opts := []render.Option{render.WithQuery(sess.Query)}
	if r.URL.Query().Get("images") != "0" {
		opts = append(opts, render.WithImages())
	}
	writeFrame(w, r, render.FormatSVG, render.RenderSVG(sess.Gallery.Frame(), opts...))
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	issued := sess.Gallery.Retry()
	writeJSON(w, http.StatusAccepted, map[string]bool{"issued": issued})
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Gallery.Relayout()
	w.WriteHeader(http.StatusNoContent)
}

// scrolled resolves the session and applies ?scroll=N or ?by=N.
func (s *Server) scrolled(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, false
	}
	q := r.URL.Query()
	if v := q.Get("scroll"); v != "" {
		top, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "scroll must be a number, got %q", v))
			return nil, false
		}
		sess.Gallery.Scroll(top)
	} else if v := q.Get("by"); v != "" {
		delta, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "by must be a number, got %q", v))
			return nil, false
		}
		sess.Gallery.ScrollBy(delta)
	}
	return sess, true
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func toResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Query:     sess.Query,
		CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= 500 {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: perrors.UserMessage(err), Code: string(code)})
}

func classify(err error) (int, perrors.Code) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return http.StatusNotFound, perrors.ErrCodeSessionNotFound
	case errors.Is(err, session.ErrLimit):
		return http.StatusServiceUnavailable, perrors.ErrCodeRateLimited
	}
	code := perrors.GetCode(err)
	switch code {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidQuery, perrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest, code
	case perrors.ErrCodeClosed:
		return http.StatusGone, code
	case "":
		return http.StatusInternalServerError, perrors.ErrCodeInternal
	default:
		return http.StatusInternalServerError, code
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
