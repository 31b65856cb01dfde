// Package server implements the thin HTTP shell around the pipeline: a
// file upload form in, a zip bundle of output artifacts out. No business
// rules live here.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"patronpipe/internal/common"
	"patronpipe/internal/csvio"
	"patronpipe/internal/etl"
)

// Upload form field names, matching the original intake form.
const (
	fieldConstituents = "c_input"
	fieldEmails       = "e_input"
	fieldDonations    = "dh_input"
)

const maxUploadBytes = 64 << 20

// Server handles file uploads and returns the packaged run output.
type Server struct {
	pipeline *etl.Pipeline
}

// New creates a server around the given pipeline.
func New(pipeline *etl.Pipeline) *Server {
	return &Server{pipeline: pipeline}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/output", s.handleOutput)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	cFile, err := formFile(r, fieldConstituents)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = cFile.Close() }()

	eFile, err := formFile(r, fieldEmails)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = eFile.Close() }()

	dhFile, err := formFile(r, fieldDonations)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = dhFile.Close() }()

	in := etl.Inputs{}
	if in.Constituents, err = csvio.LoadConstituents(cFile); err != nil {
		s.structuralError(w, runID, err)
		return
	}
	if in.Emails, err = csvio.LoadEmails(eFile); err != nil {
		s.structuralError(w, runID, err)
		return
	}
	if in.Donations, err = csvio.LoadDonations(dhFile); err != nil {
		s.structuralError(w, runID, err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), in)
	if err != nil {
		http.Error(w, "run canceled", http.StatusServiceUnavailable)
		return
	}

	if result.Failed() {
		slog.Warn("Run failed validation",
			"run_id", runID,
			"errors", len(result.Report.Records))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", csvio.ErrorsFileName))
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := csvio.WriteErrors(w, result.Report.Records); err != nil {
			slog.Error("Failed to write error report", "run_id", runID, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "patronpipe_output_"+runID+".zip"))
	if err := csvio.WriteBundle(w, result.Rows, result.TagCounts, result.Report); err != nil {
		slog.Error("Failed to write output bundle", "run_id", runID, "error", err)
		return
	}

	slog.Info("Run complete",
		"run_id", runID,
		"rows", len(result.Rows),
		"warnings", len(result.Report.Records))
}

func (s *Server) structuralError(w http.ResponseWriter, runID string, err error) {
	slog.Warn("Structural input error", "run_id", runID, "error", err)
	status := http.StatusBadRequest
	if !errors.Is(err, common.ErrStructural) && !errors.Is(err, common.ErrMissingColumn) {
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing upload field %q", field)
	}
	return f, nil
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>patronpipe</title></head>
<body>
  <h1>patronpipe</h1>
  <p>Upload the three input files to receive the normalized output bundle.</p>
  <form action="/output" method="post" enctype="multipart/form-data">
    <label>Constituents: <input type="file" name="c_input"></label><br>
    <label>Emails: <input type="file" name="e_input"></label><br>
    <label>Donation history: <input type="file" name="dh_input"></label><br>
    <button type="submit">Transform</button>
  </form>
</body>
</html>
`
