package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "tsquality/internal/errors"
	"tsquality/internal/services"
	"tsquality/pkg/contracts/domain"
)

// FileField is the multipart field carrying the uploaded file
const FileField = "file"

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files
const multipartMemory = 32 << 20

// AnalysisHandler serves the upload, validation, export and defaults
// endpoints with RFC 7807 error responses
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes. upload guards the endpoints that
// accept a file.
func (h *AnalysisHandler) Routes(upload ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/defaults", h.Defaults)

	r.Group(func(r chi.Router) {
		r.Use(upload...)
		r.Post("/", h.Analyze)
		r.Post("/validate", h.Validate)
		r.Post("/export/{format}", h.Export)
	})

	return r
}

// Analyze handles POST /api/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := h.readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cleanup()

	params, err := parseParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analyzing upload",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file_name", up.Name),
		slog.Int64("size", up.Size),
		slog.String("column", params.Column))

	a, err := h.service.Analyze(r.Context(), up, params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, a.Report)
}

// Validate handles POST /api/analysis/validate. A structurally invalid
// table is answered with a 422 problem.
func (h *AnalysisHandler) Validate(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := h.readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cleanup()

	result, err := h.service.ValidateUpload(r.Context(), up)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// Export handles POST /api/analysis/export/{format}. The file is built in
// memory first so a failure can still be answered with a problem.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	file, err := services.ExportFileFor(format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("Export format %q", format)))
		return
	}

	up, cleanup, err := h.readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cleanup()

	var buf bytes.Buffer
	switch format {
	case services.FormatCSV:
		err = h.service.ExportCSV(r.Context(), up, &buf)
	case services.FormatXLSX:
		err = h.service.ExportXLSX(r.Context(), up, &buf)
	case services.FormatReport:
		var params domain.AnalysisParams
		if params, err = parseParams(r); err == nil {
			err = h.service.ExportReport(r.Context(), up, params, &buf)
		}
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "export ready",
		slog.String("format", format),
		slog.String("file_name", up.Name),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}

// Defaults handles GET /api/analysis/defaults
func (h *AnalysisHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Defaults())
}

// readUpload extracts the uploaded file. The returned cleanup closes it and
// removes any temporary files the multipart reader created.
func (h *AnalysisHandler) readUpload(r *http.Request) (services.Upload, func(), error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return services.Upload{}, nil, err
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(FileField)
	if err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, nil, services.ErrNoFile
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	cleanup := func() {
		file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}
	return services.Upload{Name: header.Filename, Size: header.Size, Body: file}, cleanup, nil
}

// parseParams reads analysis parameters from form fields or the query
// string. Absent values stay zero and are filled from the defaults.
func parseParams(r *http.Request) (domain.AnalysisParams, error) {
	params := domain.AnalysisParams{
		Column:        strings.TrimSpace(r.FormValue("column")),
		TrendBaseline: strings.TrimSpace(r.FormValue("trend_baseline")),
	}

	var err error
	if params.IQRMultiplier, err = formFloat(r, "iqr_multiplier"); err != nil {
		return params, err
	}
	if params.JumpThreshold, err = formFloat(r, "jump_threshold"); err != nil {
		return params, err
	}
	window, err := formFloat(r, "ma_window")
	if err != nil {
		return params, err
	}
	if window != float64(int(window)) {
		return params, apierrors.ErrValidation("ma_window", "ma_window must be a whole number")
	}
	params.MAWindow = int(window)

	return params, nil
}

func formFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierrors.ErrValidation(name, fmt.Sprintf("%s must be a number", name))
	}
	return f, nil
}

// fail maps service sentinels that carry no HTTP meaning of their own and
// hands everything to the error handler
func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoFile) {
		err = apierrors.ErrValidation(FileField, "A CSV, TXT or XLSX file is required")
	}
	h.errorHandler.HandleError(w, r, err)
}
