package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	s := &Server{log: nopLogger()}
	handler := s.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/anything", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Len(t, rr.Header().Get(requestIDHeader), 36)
}

func TestRequestLogger_ReusesIncomingRequestID(t *testing.T) {
	s := &Server{log: nopLogger()}
	handler := s.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestStatusRecorder_UnwrapAllowsFlush(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	require.NoError(t, http.NewResponseController(rec).Flush())
	require.True(t, rr.Flushed)
}
