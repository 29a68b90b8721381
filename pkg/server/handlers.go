package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/tracing"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// createRequest is the optional body of POST /sessions.
type createRequest struct {
	ID string `json:"id,omitempty"`
}

// createResponse is the body returned by POST /sessions.
type createResponse struct {
	ID       string `json:"id"`
	Restored bool   `json:"restored"`
	HTML     string `json:"html"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req createRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, errors.New("E100").WithDetail("invalid session request").Wrap(err))
			return
		}
	}

	sess, restored, err := s.sessions.Create(r.Context(), req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		ID:       sess.ID,
		Restored: restored,
		HTML:     sess.HTML(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.config.Metrics.RecordRender("error")
		s.writeError(w, err)
		return
	}
	tree, err := vdom.DecodeJSON(body)
	if err != nil {
		s.config.Metrics.RecordRender("error")
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	var span trace.Span
	if s.config.Tracer != nil {
		ctx, span = s.config.Tracer.Start(ctx, "vtree.render", attribute.String("vtree.session_id", id))
	}
	result, err := sess.Render(ctx, tree)
	if span != nil {
		if result != nil {
			span.SetAttributes(attribute.Int("vtree.ops", len(result.Ops)))
		}
		tracing.End(span, err)
	}
	if err != nil {
		s.config.Metrics.RecordRender("error")
		s.writeError(w, err)
		return
	}

	if store := s.config.Store; store != nil {
		if err := store.Save(ctx, id, tree); err != nil {
			s.logger.Warn("snapshot save failed", "session_id", id, "error", err)
		}
	}

	s.config.Metrics.RecordRender("success")
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, sess.HTML())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Close(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if store := s.config.Store; store != nil {
		if err := store.Delete(r.Context(), id); err != nil {
			s.logger.Warn("snapshot delete failed", "session_id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// readBody reads the request body up to the configured limit. An
// oversized body yields E161.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errors.New("E161").WithDetailf("limit is %d bytes", maxErr.Limit)
		}
		return nil, err
	}
	return body, nil
}

// writeError maps err to a status code and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		e = errors.Newf(errors.CategoryServer, "%s", err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, e.FormatJSON())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
