package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set(HeaderForwardedFor, "1.2.3.4, 5.6.7.8")

	assert.Equal(t, "10.0.0.1", clientIP(req, nil))
	assert.Equal(t, "5.6.7.8", clientIP(req, []string{"10.0.0.1"}))

	req.Header.Del(HeaderForwardedFor)
	assert.Equal(t, "10.0.0.1", clientIP(req, []string{"10.0.0.1"}))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req, nil))
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get(HeaderReferrerPolicy))
}

func TestGuard_RateLimit(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector()
	d.now = func() time.Time { return clock }
	d.roll()
	g := &Guard{Detector: d}
	h := g.RateLimit(okHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.RemoteAddr = addr + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < RequestsPerWindow; i++ {
		require.Equal(t, http.StatusOK, send("192.168.1.100"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.100"))
	assert.Equal(t, http.StatusOK, send("192.168.1.101"), "other clients keep their budget")

	requests, _ := d.Counts("192.168.1.100")
	assert.Equal(t, RequestsPerWindow+1, requests)

	clock = clock.Add(DetectorWindow + time.Second)
	assert.Equal(t, http.StatusOK, send("192.168.1.100"), "window rolled over")
}

func TestGuard_Authenticate(t *testing.T) {
	d := NewDetector()
	g := &Guard{APIKey: "secret-key", Detector: d}
	h := g.Authenticate(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.RemoteAddr = "10.0.0.9:1"
	for i := 0; i < FailedAuthAlertCount; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	_, failures := d.Counts("10.0.0.9")
	assert.Equal(t, FailedAuthAlertCount, failures)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	open := (&Guard{Detector: d}).Authenticate(okHandler)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimitBody(t *testing.T) {
	var readErr error
	h := LimitBody(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = r.Body.Read(make([]byte, MaxRequestBytes+1))
		for readErr == nil {
			_, readErr = r.Body.Read(make([]byte, 1024))
		}
	}))
	body := bytes.NewReader(make([]byte, MaxRequestBytes+10))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", body))

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}
