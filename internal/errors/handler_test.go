package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsquality/internal/analysis"
	"tsquality/internal/dataprocessing"
	"tsquality/internal/infrastructure"
	"tsquality/internal/shared/testutil"
	"tsquality/internal/validation"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)

	assert.NotNil(t, NewErrorHandler(nil, false).logger)
}

type rangeParams struct {
	Window int `validate:"gte=5,lte=100"`
}

func TestErrorHandler_HandleError(t *testing.T) {
	validationErr := validator.New().Struct(rangeParams{Window: 2})
	require.Error(t, validationErr)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
		wantExt    map[string]interface{}
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "api error",
			err:        InvalidRequestWithError(fmt.Errorf("no multipart boundary")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
			wantExt:    map[string]interface{}{"error_code": CodeInvalidRequest},
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("handler: %w", New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "too big")),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantTitle:  "Request Entity Too Large",
		},
		{
			name:       "structural error",
			err:        analysis.Validate(analysis.NewTable(nil, nil)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
			wantTitle:  "Invalid Data",
			wantExt:    map[string]interface{}{"reason": string(analysis.ReasonEmpty), "detail": "The uploaded file is empty"},
		},
		{
			name:       "column error",
			err:        &analysis.ColumnError{Column: "Price", Err: analysis.ErrColumnNotFound},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeColumnInvalid,
			wantTitle:  "Invalid Column",
			wantExt:    map[string]interface{}{"column": "Price"},
		},
		{
			name:       "validator errors",
			err:        fmt.Errorf("invalid params: %w", validationErr),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Validation Failed",
		},
		{
			name:       "max bytes reader",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantTitle:  "Payload Too Large",
		},
		{
			name:       "upload too large",
			err:        fmt.Errorf("%w: 11 bytes", validation.ErrFileTooLarge),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantTitle:  "Payload Too Large",
		},
		{
			name:       "extension not allowed",
			err:        validation.ErrExtensionNotAllowed,
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedMedia,
			wantTitle:  "Unsupported Media Type",
		},
		{
			name:       "unsupported parser format",
			err:        dataprocessing.ErrUnsupportedFormat,
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedMedia,
			wantTitle:  "Unsupported Media Type",
		},
		{
			name:       "empty upload",
			err:        validation.ErrEmptyFile,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Validation Failed",
		},
		{
			name:       "malformed input",
			err:        fmt.Errorf("%w: line 3", dataprocessing.ErrMalformedInput),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataMalformed,
			wantTitle:  "Malformed Input",
		},
		{
			name:       "storage app error",
			err:        NewStorageError("failed to write export", fmt.Errorf("disk full")).WithContext("format", "csv"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			wantTitle:  "Export Failed",
			wantExt:    map[string]interface{}{"format": "csv", "detail": "failed to write export"},
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("failed to parse prices.xlsx", fmt.Errorf("zip: not a valid zip file")).WithContext("file_name", "prices.xlsx"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataMalformed,
			wantTitle:  "Malformed Input",
			wantExt:    map[string]interface{}{"file_name": "prices.xlsx"},
		},
		{
			name:       "parsing app error around malformed input",
			err:        NewParsingError("failed to parse prices.csv", fmt.Errorf("%w: line 2", dataprocessing.ErrMalformedInput)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataMalformed,
			wantTitle:  "Malformed Input",
		},
		{
			name:       "config app error",
			err:        NewConfigError("failed to load configuration", fmt.Errorf("config validation failed")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
			wantExt:    map[string]interface{}{"detail": "failed to load configuration"},
		},
		{
			name:       "not found message",
			err:        fmt.Errorf("resource not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/analysis", nil)
			r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-1"))

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/analysis", body["instance"])
			assert.Equal(t, "trace-1", body["trace_id"])
			assert.NotContains(t, body, "stack")
			for k, v := range tt.wantExt {
				assert.Equal(t, v, body[k], k)
			}

			assert.True(t, logs.ContainsMessage("request failed"))
			assert.True(t, logs.ContainsAttr("component", "error_handler"))
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Empty(t, w.Body.String())
}

func TestErrorHandler_ValidationFieldErrors(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	err := validator.New().Struct(rangeParams{Window: 500})

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodPost, "/", nil), err)

	body := decodeProblem(t, w)
	fields, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]interface{})
	assert.Equal(t, "Window", field["field"])
	assert.Equal(t, "Window must be less than or equal to 100", field["message"])
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(fmt.Errorf("plain")))

	type params struct {
		Baseline string `validate:"oneof=downward none"`
		Column   string `validate:"required"`
	}
	fields := FieldErrors(validator.New().Struct(params{Baseline: "up"}))
	require.Len(t, fields, 2)
	assert.Equal(t, "Baseline must be one of: downward, none", fields[0].Message)
	assert.Equal(t, "Column is required", fields[1].Message)
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), true)
	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))

	body := decodeProblem(t, w)
	assert.Contains(t, body["stack"], "goroutine")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/panic", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeMethodNotAllowed, body["type"])
	assert.True(t, strings.Contains(body["detail"].(string), "DELETE"))
}

func TestErrorHandler_JSON(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	w := httptest.NewRecorder()
	handler.JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusAccepted, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, w.Body.String())
}
