package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"financas/internal/core"
	"financas/internal/export"
	applog "financas/internal/log"
	"financas/internal/session"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	d, err := s.svc.Reports.Dashboard(ctx, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(d).Write(w)
}

// handleReport returns the report of ?period=; unknown periods cover the
// whole ledger.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	report, err := s.svc.Reports.Report(ctx, sess.UserID, r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(report).Write(w)
}

// handleExport renders the period report as a csv, xlsx or pdf attachment.
// The file is rendered in memory so a failure still yields a JSON error.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	data, err := s.svc.Reports.ExportData(ctx, sess.UserID, q.Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, data); err != nil {
		writeError(w, r, fmt.Errorf("render %s export: %w", format, err))
		return
	}

	applog.FromContext(ctx).InfoContext(ctx, "Report exported",
		applog.FieldPeriod, string(data.Report.Period),
		applog.FieldExportFmt, string(format),
		"rows", len(data.Rows),
		"bytes", buf.Len())

	name := format.FileName(core.ParsePeriod(q.Get("period")), time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Profile

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	p, err := s.svc.Profiles.Get(ctx, sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(p).Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	p, err := s.svc.Profiles.Update(ctx, sess, body.Get("name"), body.Get("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(p).Write(w)
}
