package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ddqcheck/internal/extract"
	"ddqcheck/internal/finding"
	"ddqcheck/internal/llm"
	"ddqcheck/internal/pipeline"
	"ddqcheck/internal/question"
)

const (
	msgNoFile      = "No file uploaded."
	msgUnsupported = "Only XLSX or PDF files are supported."
	msgUnreadable  = "The uploaded file could not be read."
	msgNoRows      = "No rows were extracted. Check that the filled file uses the expected column layout (A=ID, B=Question, C=Answer)."
)

// uploadExtensions lists the accepted upload suffixes.
var uploadExtensions = map[string]bool{".xlsx": true, ".pdf": true}

type validateRequest struct {
	useLLM    bool
	model     string
	maxRows   int
	filename  string
	extension string
}

func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}
	response, uerr := h.validateUpload(w, r)
	if uerr != nil {
		writeError(w, uerr.status, uerr.detail)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// uploadError is a failed upload with the status and detail shown to the client.
type uploadError struct {
	status int
	detail string
}

// validateUpload runs the pipeline on the multipart upload in r.
func (h *handler) validateUpload(w http.ResponseWriter, r *http.Request) (validateResponse, *uploadError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validateResponse{}, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes.", tooLarge.Limit)}
		}
		return validateResponse{}, &uploadError{http.StatusBadRequest, "Expected a multipart form upload."}
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		return validateResponse{}, &uploadError{http.StatusBadRequest, msgNoFile}
	}
	defer file.Close()

	req, detail := parseValidateRequest(r, header.Filename)
	if detail != "" {
		return validateResponse{}, &uploadError{http.StatusBadRequest, detail}
	}

	workDir, err := os.MkdirTemp(h.tempDir, "ddqcheck-upload-*")
	if err != nil {
		return validateResponse{}, h.internalError("create work dir", err)
	}
	defer os.RemoveAll(workDir)

	uploadPath := filepath.Join(workDir, "filled"+req.extension)
	if err := saveUpload(uploadPath, file); err != nil {
		return validateResponse{}, h.internalError("save upload", err)
	}

	refiner := llm.Disabled()
	if req.useLLM && h.refiner != nil {
		refiner, err = h.refiner(r.Context(), req.model)
		if err != nil {
			return validateResponse{}, h.internalError("build refiner", err)
		}
	}

	result, err := pipeline.Run(r.Context(), pipeline.Params{
		Source:    req.filename,
		OutputDir: workDir,
		Extract:   extract.Options{Columns: h.columns, MaxRowsPerSheet: req.maxRows},
		Redact:    true,
		Workers:   h.workers,
		Engine:    h.engine,
		Refiner:   refiner,
		Recorder:  h.recorder,
		Logger:    h.logger,
		Deps: pipeline.Dependencies{
			Load: func(_ string, opts extract.Options) ([]question.Row, error) {
				rows, err := extract.Load(uploadPath, opts)
				if err != nil && !errors.Is(err, extract.ErrNoRows) {
					return nil, &unreadableError{err: err}
				}
				return rows, err
			},
		},
	})
	switch {
	case errors.Is(err, extract.ErrNoRows):
		return validateResponse{}, &uploadError{http.StatusBadRequest, msgNoRows}
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return validateResponse{}, &uploadError{http.StatusBadRequest, msgUnsupported}
	case errors.As(err, new(*unreadableError)):
		h.logger.Info("unreadable upload", zap.String("file", req.filename), zap.Error(err))
		return validateResponse{}, &uploadError{http.StatusBadRequest, msgUnreadable}
	case err != nil:
		return validateResponse{}, h.internalError("validate upload", err)
	}
	if result.RefineErr != nil {
		h.logger.Warn("llm refinement incomplete", zap.String("run_id", result.RunID), zap.Error(result.RefineErr))
	}

	response, err := buildValidateResponse(result)
	if err != nil {
		return validateResponse{}, h.internalError("read report", err)
	}
	return response, nil
}

// unreadableError marks an upload the extractor could not parse.
type unreadableError struct {
	err error
}

func (e *unreadableError) Error() string { return "read upload: " + e.err.Error() }

func (e *unreadableError) Unwrap() error { return e.err }

// parseValidateRequest reads the form fields. A non-empty detail is a client error.
func parseValidateRequest(r *http.Request, filename string) (validateRequest, string) {
	req := validateRequest{
		filename:  filepath.Base(filename),
		extension: strings.ToLower(filepath.Ext(filename)),
		model:     strings.TrimSpace(r.FormValue("llm_model")),
	}
	if !uploadExtensions[req.extension] {
		return req, msgUnsupported
	}
	if value := strings.TrimSpace(r.FormValue("use_llm")); value != "" {
		useLLM, err := strconv.ParseBool(value)
		if err != nil {
			return req, "use_llm must be a boolean."
		}
		req.useLLM = useLLM
	}
	if value := strings.TrimSpace(r.FormValue("max_rows_per_sheet")); value != "" {
		maxRows, err := strconv.Atoi(value)
		if err != nil {
			return req, "max_rows_per_sheet must be an integer."
		}
		req.maxRows = max(maxRows, 0)
	}
	return req, ""
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func buildValidateResponse(result pipeline.Result) (validateResponse, error) {
	reportCSV, err := os.ReadFile(result.Report.ReportCSV)
	if err != nil {
		return validateResponse{}, err
	}
	summaryJSON, err := os.ReadFile(result.Report.SummaryJSON)
	if err != nil {
		return validateResponse{}, err
	}
	summary := result.Summary()
	if summary.ByStatus == nil {
		summary.ByStatus = map[finding.Status]int{}
	}
	records := make([]map[string]any, len(result.Findings))
	for i, f := range result.Findings {
		records[i] = f.Record()
	}
	return validateResponse{
		RunID:       result.RunID,
		Summary:     summary,
		Report:      records,
		ReportCSV:   string(reportCSV),
		SummaryJSON: string(summaryJSON),
	}, nil
}

func (h *handler) internalError(op string, err error) *uploadError {
	h.logger.Error("validate request failed", zap.String("op", op), zap.Error(err))
	return &uploadError{http.StatusInternalServerError, "Validation failed."}
}
