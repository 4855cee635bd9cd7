package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/metrics"
)

// Detector counts requests and failed authentications per client IP over a
// fixed window. Counters reset together when the window rolls over.
type Detector struct {
	mu       sync.Mutex
	now      func() time.Time
	start    time.Time
	requests map[string]int
	failures map[string]int
}

// NewDetector creates a detector whose window starts now
func NewDetector() *Detector {
	d := &Detector{now: time.Now}
	d.roll()
	return d
}

func (d *Detector) roll() {
	d.start = d.now()
	d.requests = make(map[string]int)
	d.failures = make(map[string]int)
}

// rollIfExpired must be called with mu held
func (d *Detector) rollIfExpired() {
	if d.now().Sub(d.start) > DetectorWindow {
		d.roll()
	}
}

// Allow counts a request from ip and reports whether it is within the window budget
func (d *Detector) Allow(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollIfExpired()

	d.requests[ip]++
	n := d.requests[ip]
	if n <= RequestsPerWindow {
		return true
	}
	if n%HighRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count", n, "window", DetectorWindow)
	}
	return false
}

// Fail counts a failed authentication from ip
func (d *Detector) Fail(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollIfExpired()

	d.failures[ip]++
	if n := d.failures[ip]; n >= FailedAuthAlertCount {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// Counts returns the requests and failures recorded for ip in the current window
func (d *Detector) Counts(ip string) (requests, failures int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[ip], d.failures[ip]
}

// Guard holds the request checks that run before routing
type Guard struct {
	APIKey         string
	TrustedProxies []string
	Detector       *Detector
}

func isPublic(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Authenticate rejects requests without the configured API key. Probes and
// scrapes stay public; an empty key disables the check.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.APIKey == "" || isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(g.APIKey)) == 1 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r, g.TrustedProxies)
		g.Detector.Fail(ip)
		metrics.HTTPRequestsRejected.WithLabelValues(RejectReasonAuth).Inc()
		logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
			"path", r.URL.Path,
			"has_key", provided != "",
			"ip", ip)
		http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
	})
}

// RateLimit answers 429 once a client IP exceeds its window budget
func (g *Guard) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Detector.Allow(clientIP(r, g.TrustedProxies)) {
			metrics.HTTPRequestsRejected.WithLabelValues(RejectReasonRateLimit).Inc()
			http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LimitBody caps request bodies at MaxRequestBytes
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts X-Forwarded-For only when the peer is a trusted proxy
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !slices.Contains(trustedProxies, peer) {
		return peer
	}
	// rightmost hop is the one that reached the trusted proxy
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		hops := strings.Split(fwd, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	return peer
}

// SecureHeaders sets the browser hardening headers on every response
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(HeaderContentType, HeaderValueNoSniff)
		h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
		h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
		next.ServeHTTP(w, r)
	})
}
