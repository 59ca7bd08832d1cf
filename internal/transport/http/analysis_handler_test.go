package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tsquality/internal/config"
	"tsquality/internal/dataprocessing"
	apierrors "tsquality/internal/errors"
	"tsquality/internal/middleware"
	"tsquality/internal/services"
	"tsquality/internal/shared/testutil"
	"tsquality/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, up services.Upload, params domain.AnalysisParams) (*services.Analysis, error) {
	args := m.Called(up.Name, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Analysis), args.Error(1)
}

func (m *MockAnalysisService) ValidateUpload(ctx context.Context, up services.Upload) (domain.ValidationResult, error) {
	args := m.Called(up.Name)
	return args.Get(0).(domain.ValidationResult), args.Error(1)
}

func (m *MockAnalysisService) ExportCSV(ctx context.Context, up services.Upload, w io.Writer) error {
	return m.Called(up.Name, w).Error(0)
}

func (m *MockAnalysisService) ExportXLSX(ctx context.Context, up services.Upload, w io.Writer) error {
	return m.Called(up.Name, w).Error(0)
}

func (m *MockAnalysisService) ExportReport(ctx context.Context, up services.Upload, params domain.AnalysisParams, w io.Writer) error {
	return m.Called(up.Name, params, w).Error(0)
}

func (m *MockAnalysisService) Defaults() domain.AnalysisDefaults {
	return m.Called().Get(0).(domain.AnalysisDefaults)
}

func newAnalysisRouter(t *testing.T, service AnalysisServiceInterface, guards ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewAnalysisHandler(service, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/analysis", handler.Routes(guards...))
	return r
}

func realAnalysisService(t *testing.T) *services.AnalysisService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return services.NewAnalysisService(config.Default(), nil, nil, logger)
}

func postUpload(t *testing.T, h http.Handler, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := testutil.MultipartUpload(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	rec := postUpload(t, router, "/api/analysis", "prices.csv", testutil.SamplePricesCSV,
		map[string]string{"column": "Close", "ma_window": "5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decodeBody(t, rec)
	assert.Equal(t, "prices.csv", body["file_name"])

	params := body["params"].(map[string]any)
	assert.Equal(t, "Close", params["column"])
	assert.Equal(t, float64(5), params["ma_window"])
	assert.Equal(t, 1.5, params["iqr_multiplier"])

	validation := body["validation"].(map[string]any)
	assert.Equal(t, true, validation["valid"])

	outliers := body["outliers"].(map[string]any)
	assert.Equal(t, "findings", outliers["kind"])
	assert.Equal(t, float64(1), outliers["count"])

	jumps := body["jumps"].(map[string]any)
	assert.Equal(t, float64(2), jumps["count"])

	duplicates := body["duplicates"].(map[string]any)
	assert.Equal(t, float64(2), duplicates["count"])

	assert.NotContains(t, body, "errors")
}

func TestAnalysisHandler_Analyze_QueryParams(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	rec := postUpload(t, router, "/api/analysis?column=Volume&trend_baseline=none", "prices.csv", testutil.SamplePricesCSV, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	params := decodeBody(t, rec)["params"].(map[string]any)
	assert.Equal(t, "Volume", params["column"])
	assert.Equal(t, "none", params["trend_baseline"])
}

func TestAnalysisHandler_Analyze_ColumnErrorsInReport(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	rec := postUpload(t, router, "/api/analysis", "prices.csv", testutil.SamplePricesCSV,
		map[string]string{"column": "Price"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	checkErrors := body["errors"].([]any)
	require.Len(t, checkErrors, 5)
	first := checkErrors[0].(map[string]any)
	assert.Equal(t, "outliers", first["check"])
	assert.Equal(t, "column_not_found", first["kind"])
	assert.Equal(t, "error", body["outliers"].(map[string]any)["kind"])
}

func TestAnalysisHandler_Errors(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	tests := []struct {
		name           string
		path           string
		filename       string
		content        string
		fields         map[string]string
		expectedStatus int
		expectedType   string
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name:           "missing file",
			path:           "/api/analysis",
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
			check: func(t *testing.T, body map[string]any) {
				details := body["details"].(map[string]any)
				assert.Equal(t, "file", details["field"])
			},
		},
		{
			name:           "extension not allowed",
			path:           "/api/analysis",
			filename:       "prices.json",
			content:        `{"Date":"2024-01-02"}`,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedType:   apierrors.TypeUnsupportedMedia,
		},
		{
			name:           "empty file",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        "",
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "parameter out of range",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        testutil.SamplePricesCSV,
			fields:         map[string]string{"ma_window": "2", "jump_threshold": "0.9"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
			check: func(t *testing.T, body map[string]any) {
				fields := body["errors"].([]any)
				require.Len(t, fields, 2)
				assert.Equal(t, "jump_threshold", fields[0].(map[string]any)["field"])
				assert.Equal(t, "ma_window", fields[1].(map[string]any)["field"])
				assert.Equal(t, "ma_window must be greater than or equal to 5", fields[1].(map[string]any)["message"])
			},
		},
		{
			name:           "parameter not a number",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        testutil.SamplePricesCSV,
			fields:         map[string]string{"iqr_multiplier": "wide"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "iqr_multiplier", body["details"].(map[string]any)["field"])
			},
		},
		{
			name:           "fractional window",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        testutil.SamplePricesCSV,
			fields:         map[string]string{"ma_window": "7.5"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "missing date column",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        "Day,Close\n2024-01-02,10\n",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apierrors.TypeDataInvalid,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "missing_date_column", body["reason"])
				assert.Equal(t, "The file must contain a 'Date' column", body["detail"])
			},
		},
		{
			name:           "malformed csv",
			path:           "/api/analysis",
			filename:       "prices.csv",
			content:        "Date,Close\n2024-01-02,1,2\n",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apierrors.TypeDataMalformed,
		},
		{
			name:           "validate without numeric column",
			path:           "/api/analysis/validate",
			filename:       "prices.csv",
			content:        "Date,Symbol\n2024-01-02,ABC\n",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apierrors.TypeDataInvalid,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "no_numeric_column", body["reason"])
			},
		},
		{
			name:           "unknown export format",
			path:           "/api/analysis/export/pdf",
			filename:       "prices.csv",
			content:        testutil.SamplePricesCSV,
			expectedStatus: http.StatusNotFound,
			expectedType:   apierrors.TypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postUpload(t, router, tt.path, tt.filename, tt.content, tt.fields)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "json")

			body := decodeBody(t, rec)
			assert.Equal(t, tt.expectedType, body["type"])
			assert.Equal(t, float64(tt.expectedStatus), body["status"])
			assert.Equal(t, strings.SplitN(tt.path, "?", 2)[0], body["instance"])
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestAnalysisHandler_Validate(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	rec := postUpload(t, router, "/api/analysis/validate", "prices.csv", testutil.SamplePricesCSV, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"message":"Data validation successful"}`, rec.Body.String())
}

func TestAnalysisHandler_Export(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	t.Run("csv", func(t *testing.T) {
		rec := postUpload(t, router, "/api/analysis/export/csv", "prices.csv", testutil.SamplePricesCSV, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=processed_data.csv", rec.Header().Get("Content-Disposition"))
		assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Open,Close,Volume,Symbol\n2024-01-02,"))
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := postUpload(t, router, "/api/analysis/export/xlsx", "prices.csv", testutil.SamplePricesCSV, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "attachment; filename=processed_data.xlsx", rec.Header().Get("Content-Disposition"))

		table, err := dataprocessing.ParseXLSX(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, 8, table.Len())
	})

	t.Run("report", func(t *testing.T) {
		rec := postUpload(t, router, "/api/analysis/export/report", "prices.csv", testutil.SamplePricesCSV,
			map[string]string{"column": "Close"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "attachment; filename=analysis_report.txt", rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Distribution Statistics for Close:")
	})

	t.Run("structural failure answered with a problem", func(t *testing.T) {
		rec := postUpload(t, router, "/api/analysis/export/csv", "prices.csv", "Close\n1\n", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}

func TestAnalysisHandler_Defaults(t *testing.T) {
	router := newAnalysisRouter(t, realAnalysisService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	window := body["ma_window"].(map[string]any)
	assert.Equal(t, float64(30), window["default"])
	assert.Equal(t, float64(5), window["min"])
	assert.Equal(t, float64(100), window["max"])
	baseline := body["trend_baseline"].(map[string]any)
	assert.Equal(t, []any{"downward", "none"}, baseline["options"])
}

func TestAnalysisHandler_ServiceFailures(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedType   string
	}{
		{
			name: "unexpected error is not echoed",
			path: "/api/analysis",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "prices.csv", domain.AnalysisParams{}).Return(nil, errors.New("database exploded"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeInternal,
		},
		{
			name: "export write failure",
			path: "/api/analysis/export/csv",
			setupMock: func(m *MockAnalysisService) {
				m.On("ExportCSV", "prices.csv", mock.Anything).
					Return(apierrors.NewStorageError("failed to write csv export", errors.New("disk full")).WithContext("format", "csv"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeExportFailed,
		},
		{
			name: "context cancelled",
			path: "/api/analysis/validate",
			setupMock: func(m *MockAnalysisService) {
				m.On("ValidateUpload", "prices.csv").Return(domain.ValidationResult{}, context.Canceled)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedType:   apierrors.TypeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAnalysisService)
			tt.setupMock(mockService)
			router := newAnalysisRouter(t, mockService)

			rec := postUpload(t, router, tt.path, "prices.csv", testutil.SamplePricesCSV, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.expectedType, body["type"])
			assert.NotContains(t, rec.Body.String(), "database exploded")
			mockService.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_UploadGuards(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	router := newAnalysisRouter(t, realAnalysisService(t),
		middleware.ContentTypeValidator(errorHandler, "multipart/form-data"),
		middleware.MaxBodySize(64, errorHandler, logger))

	rec := postUpload(t, router, "/api/analysis", "prices.csv", testutil.SamplePricesCSV, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader("Date,Close\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	// Guards do not apply to the defaults endpoint
	req = httptest.NewRequest(http.MethodGet, "/api/analysis/defaults", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
