package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/koustreak/relgraph/internal/logger"
	"github.com/koustreak/relgraph/internal/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleTables serves GET /tables?schema=&format=json|yaml|table
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tables, err := s.run(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tables = detect.FilterSchema(tables, r.URL.Query().Get("schema"))

	s.write(w, r, tables, format)
}

// handleTable serves GET /tables/{schema}/{table}
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ident := detect.NewTableIdent(chi.URLParam(r, "schema"), chi.URLParam(r, "table"))

	tables, err := s.run(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, ok := detect.Find(tables, ident)
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrKindNotFound, fmt.Sprintf("table %s not found", ident)))
		return
	}

	s.write(w, r, []detect.TableDef{*t}, format)
}

func (s *Server) run(ctx context.Context) ([]detect.TableDef, error) {
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	tables, err := s.introspect(ctx)
	if err != nil {
		return nil, err
	}
	detect.Sort(tables)
	return tables, nil
}

// write renders into a buffer first so an encoding failure can still become a 500.
func (s *Server) write(w http.ResponseWriter, r *http.Request, tables []detect.TableDef, f render.Format) {
	var buf bytes.Buffer
	if err := render.Write(&buf, tables, f); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorWith("request failed", err, map[string]interface{}{
			"kind": errs.KindOf(err).String(),
		})
	}
	http.Error(w, err.Error(), status)
}

func formatParam(r *http.Request) (render.Format, error) {
	v := r.URL.Query().Get("format")
	if v == "" {
		return render.FormatJSON, nil
	}
	return render.ParseFormat(v)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
