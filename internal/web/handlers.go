package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
	"github.com/JonMunkholm/linecheck/internal/logging"
)

// handleHealth reports liveness and how many run slots are busy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Runs: s.limiter.Status()})
}

// handleDetect returns structure suggestions for an uploaded file without
// validating it. Overrides in the form are applied so callers can preview
// the resolved schema.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := s.receiveUpload(w, r)
	defer cleanup()
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	plan, err := core.Suggest(up.Path, s.cfg.Sampling.Core(), overridesFrom(r))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, DetectResponse{File: up.Filename, Size: up.Size, Plan: plan})
}

// handleValidate runs the whole pipeline on an uploaded file, writes the
// report into the configured directory, and records the run.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New()
	ctx := logging.WithRunID(r.Context(), runID.String())
	r = r.WithContext(ctx)

	if err := s.limiter.Acquire(ctx); err != nil {
		respondError(w, r, err, 0)
		return
	}
	defer s.limiter.Release()

	up, cleanup, err := s.receiveUpload(w, r)
	defer cleanup()
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	logger := logging.WithFields(ctx, "file", up.Filename, "size", up.Size)
	logger.Info("validation started")

	plan, out, err := core.Execute(up.Path, s.cfg.Sampling.Core(), overridesFrom(r), core.RunOptions{
		ReportDir: s.cfg.Report.Dir,
		Source:    up.Filename,
		Process:   s.processOptions(r),
	})
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	resp := ValidateResponse{
		RunID:      runID,
		File:       up.Filename,
		Plan:       plan,
		Report:     out.Report,
		ReportPath: out.ReportPath,
		DurationMs: out.Duration.Milliseconds(),
	}
	for _, n := range plan.Notices {
		resp.Warnings = append(resp.Warnings, n.String())
	}

	// The report is already on disk; a history failure only adds a warning.
	if err := s.history.SaveRun(ctx, history.NewRun(runID, plan.Schema, out)); err != nil {
		logger.Error("history save failed", "error", err)
		resp.Warnings = append(resp.Warnings, core.FormatUserError(err))
	}

	logger.Info("validation complete",
		"total", out.Report.TotalLines,
		"incorrect", out.Report.IncorrectCount,
		"report", out.ReportPath,
	)
	writeJSON(w, http.StatusOK, resp)
}

// handleListRuns returns recent runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", history.DefaultListLimit)

	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// handleGetRun returns one run with its incorrect records.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleRunReport streams the report file written for a run.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	f, err := os.Open(run.ReportPath)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(run.ReportPath)))
	if _, err := io.Copy(w, f); err != nil {
		logging.FromContext(r.Context()).Error("report stream failed", "run_id", run.ID, "error", err)
	}
}

// lookupRun resolves the {runID} URL parameter, writing the error response
// itself when it fails.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (history.Run, bool) {
	raw := chi.URLParam(r, "runID")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %q", errInvalidRunID, raw), 0)
		return history.Run{}, false
	}

	run, err := s.history.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, r, err, 0)
		return history.Run{}, false
	}
	return run, true
}
