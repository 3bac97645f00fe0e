// Package api serves questionnaire validation over HTTP.
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ddqcheck/internal/extract"
	"ddqcheck/internal/llm"
	"ddqcheck/internal/pipeline"
	"ddqcheck/internal/rules"
)

// DefaultMaxUploadBytes bounds the multipart body when no limit is configured.
const DefaultMaxUploadBytes = 25 << 20

// RefinerFactory builds the refiner for one request. model may be empty.
type RefinerFactory func(ctx context.Context, model string) (*llm.Refiner, error)

// Config wires dependencies for the HTTP handler.
type Config struct {
	Engine         *rules.Engine
	Columns        extract.Columns
	Workers        int
	Refiner        RefinerFactory
	Recorder       pipeline.RunRecorder
	AllowedOrigins []string
	MaxUploadBytes int64
	// TempDir is the parent of per-request work directories. Empty uses the OS default.
	TempDir string
	Logger  *zap.Logger
}

// NewHandler builds an HTTP handler for the validation API and the upload page.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	h := &handler{
		engine:    cfg.Engine,
		columns:   cfg.Columns,
		workers:   cfg.Workers,
		refiner:   cfg.Refiner,
		recorder:  cfg.Recorder,
		maxUpload: maxUpload,
		tempDir:   cfg.TempDir,
		logger:    logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", h.handleIndex)
	mux.HandleFunc("/results", h.handleResults)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/validate", h.handleValidate)
	return withRequestLog(withCORS(mux, cfg.AllowedOrigins), logger)
}

type handler struct {
	engine    *rules.Engine
	columns   extract.Columns
	workers   int
	refiner   RefinerFactory
	recorder  pipeline.RunRecorder
	maxUpload int64
	tempDir   string
	logger    *zap.Logger
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
