package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "tsquality/internal/errors"
	"tsquality/internal/infrastructure"
	"tsquality/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	var seenReqID, seenTraceID, seenChiID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenReqID = GetRequestID(r.Context())
		seenChiID = chimw.GetReqID(r.Context())
		seenTraceID = infrastructure.GetTraceID(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seenReqID, 36)
		assert.Equal(t, seenReqID, seenTraceID)
		assert.Equal(t, seenReqID, w.Header().Get(RequestIDHeader))
		assert.Equal(t, seenReqID, seenChiID)
	})

	t.Run("keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "client-123", seenReqID)
		assert.Equal(t, "client-123", w.Header().Get(RequestIDHeader))
	})
}

func TestGetRequestID_FallsBackToTraceID(t *testing.T) {
	ctx := infrastructure.WithTraceID(context.Background(), "trace-9")
	assert.Equal(t, "trace-9", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	handler := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	testutil.AssertLogContains(t, logs, slog.LevelDebug, "request started")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request completed")
	assert.True(t, logs.ContainsAttr("status", int64(http.StatusNotFound)))
	assert.True(t, logs.ContainsAttr("path", "/missing"))
}

func TestRateLimiter(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	rl := NewRateLimiter(1, 2, logger)
	handler := rl.Handler(http.HandlerFunc(okHandler))

	request := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1:1001").Code)

	w := request("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, apierrors.ProblemContentType, w.Header().Get("Content-Type"))

	var problem Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeRateLimit, problem.Type)
	assert.Equal(t, http.StatusTooManyRequests, problem.Status)

	assert.Equal(t, http.StatusOK, request("10.0.0.2:1000").Code, "other clients have their own bucket")
	assert.True(t, logs.ContainsMessage("rate limit exceeded"))
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 1, rl.Clients())
	assert.True(t, rl.Allow("a"), "evicted client starts with a full bucket")
}

func TestTimeout(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	t.Run("fast handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		Timeout(time.Second, logger)(http.HandlerFunc(okHandler)).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("handler observes deadline", func(t *testing.T) {
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		w := httptest.NewRecorder()
		Timeout(10*time.Millisecond, logger)(slow).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), apierrors.TypeTimeout)
		assert.True(t, logs.ContainsMessage("request timeout"))
	})

	t.Run("handler already answered", func(t *testing.T) {
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		w := httptest.NewRecorder()
		Timeout(10*time.Millisecond, logger)(slow).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", []string{"http://localhost:8080"}, "http://localhost:8080", http.MethodGet, "http://localhost:8080", http.StatusOK},
		{"disallowed origin", []string{"http://localhost:8080"}, "http://evil.test", http.MethodGet, "", http.StatusOK},
		{"wildcard", []string{"*"}, "", http.MethodGet, "*", http.StatusOK},
		{"preflight", []string{"*"}, "http://a.test", http.MethodOptions, "http://a.test", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/analysis", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			CORS(CORSConfig{AllowedOrigins: tt.origins})(http.HandlerFunc(okHandler)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestContentTypeValidator(t *testing.T) {
	eh := apierrors.NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	handler := ContentTypeValidator(eh, "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"get skips check", http.MethodGet, "", http.StatusOK},
		{"multipart accepted", http.MethodPost, "multipart/form-data; boundary=abc", http.StatusOK},
		{"missing header", http.MethodPost, "", http.StatusBadRequest},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"garbage header", http.MethodPost, "multipart/form-data; =", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("x"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)

	reader := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			eh.HandleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := MaxBodySize(8, eh, logger)(reader)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.True(t, logs.ContainsMessage("request body too large"))

	// Unknown length is only caught while reading
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("much too large")))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.TypePayloadTooLarge)
}

func TestProblemFromStatus(t *testing.T) {
	p := ProblemFromStatus(http.StatusGatewayTimeout, "slow", "t1")
	assert.Equal(t, apierrors.TypeTimeout, p.Type)
	assert.Equal(t, "Gateway Timeout", p.Title)
	assert.Equal(t, "t1", p.Trace)

	assert.Equal(t, "/errors/unknown", ProblemFromStatus(http.StatusTeapot, "", "").Type)
}
