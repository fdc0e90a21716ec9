package web

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// HealthResponse reports liveness and run slot usage.
type HealthResponse struct {
	Status string                `json:"status"`
	Runs   core.RunLimiterStatus `json:"runs"`
}

// DetectResponse is returned by POST /api/detect.
type DetectResponse struct {
	File string    `json:"file"`
	Size int64     `json:"size"`
	Plan core.Plan `json:"plan"`
}

// ValidateResponse is returned by POST /api/validate.
type ValidateResponse struct {
	RunID      uuid.UUID   `json:"runId"`
	File       string      `json:"file"`
	Plan       core.Plan   `json:"plan"`
	Report     core.Report `json:"report"`
	ReportPath string      `json:"reportPath"`
	DurationMs int64       `json:"durationMs"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// RunsResponse is returned by GET /api/runs.
type RunsResponse struct {
	Runs []history.Run `json:"runs"`
}
