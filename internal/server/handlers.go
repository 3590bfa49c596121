package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/view"
)

const maxFormBytes = 64 << 10

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /contact", s.handleContact)
	mux.HandleFunc("POST /validate", s.handleValidate)
	mux.HandleFunc("GET /time", s.handleTime)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}
	return mux
}

// handlePage shows the page; ?page= switches to a page first. Unknown keys
// leave the visible page unchanged.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	t, err := s.begin(r)
	if err != nil {
		s.fail(w, "begin turn", err)
		return
	}
	if key := r.URL.Query().Get("page"); key != "" {
		t.app.Click(key)
	}
	s.finish(w, r, t, http.StatusOK)
}

// handleContact submits the contact form. Invalid submissions answer 422
// with the errors rendered inline.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	t, err := s.begin(r)
	if err != nil {
		s.fail(w, "begin turn", err)
		return
	}
	f := s.cfg.Form
	t.app.Click(f.Page)
	t.doc.SetValue(f.Fields.Name, r.PostForm.Get(f.Fields.Name))
	t.doc.SetValue(f.Fields.Birthdate, r.PostForm.Get(f.Fields.Birthdate))
	// An option outside the configured ones leaves the group unchecked rather
	// than keeping the selection restored from the session.
	t.doc.Check(f.Fields.Gender, "")
	t.doc.Check(f.Fields.Gender, r.PostForm.Get(f.Fields.Gender))
	t.doc.SetValue(f.Fields.Message, r.PostForm.Get(f.Fields.Message))

	result := t.app.Submit()
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.finish(w, r, t, status)
}

type validateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type validateResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// handleValidate runs the blur check for one control and reports the message
// written to its error slot. Controls without blur validation are always
// valid.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
	if err := dec.Decode(&req); err != nil || strings.TrimSpace(req.Field) == "" {
		http.Error(w, "invalid validation request", http.StatusBadRequest)
		return
	}

	t, err := s.begin(r)
	if err != nil {
		s.fail(w, "begin turn", err)
		return
	}
	f := s.cfg.Form
	resp := validateResponse{Field: req.Field, Valid: true}

	var errorID string
	switch req.Field {
	case f.Fields.Name:
		errorID = f.Errors.Name
	case f.Fields.Message:
		errorID = f.Errors.Message
	}
	if errorID != "" {
		t.doc.SetValue(req.Field, req.Value)
		t.app.Blur(req.Field)
		resp.Error = t.doc.Text(errorID)
		resp.Valid = resp.Error == ""
	}

	if _, err := s.end(r, t); err != nil {
		s.fail(w, "end turn", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("write validation response", zap.Error(err))
	}
}

// handleTime answers the current clock display as plain text.
func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Clock.Disabled {
		http.NotFound(w, r)
		return
	}
	t, err := s.begin(r)
	if err != nil {
		s.fail(w, "begin turn", err)
		return
	}
	t.app.Tick()
	text := t.doc.Text(s.cfg.Clock.Target)
	t.app.Stop()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) finish(w http.ResponseWriter, r *http.Request, t *turn, status int) {
	snap, err := s.end(r, t)
	if err != nil {
		s.fail(w, "end turn", err)
		return
	}
	s.write(w, r, snap, t.app.CurrentPage(), status)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, snap view.Snapshot, current string, status int) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	renderer, err := s.registry.Get(format)
	if err != nil {
		http.Error(w, "unknown format", http.StatusNotAcceptable)
		return
	}

	out, err := renderer.Render(r.Context(), render.Page{
		Config:   s.cfg,
		Snapshot: snap,
		Current:  current,
		Catalog:  s.catalog,
	}, render.RenderOptions{
		Locale:     r.URL.Query().Get("lang"),
		FormAction: "/contact",
		PageHref:   "/?page=%s",
		Script:     s.script,
	})
	if err != nil {
		s.fail(w, "render page", err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
