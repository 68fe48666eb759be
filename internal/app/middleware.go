package app

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/edt-iut/timetable/internal/config"
	"github.com/edt-iut/timetable/internal/rest"
	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	maxRateLimitedClients = 1000
	rateLimiterTTL        = 5 * time.Minute
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(requestLogging)
	if cfg.RateLimit.PerMinute > 0 {
		trusted, err := cfg.RateLimit.TrustedProxyNets()
		if err != nil {
			log.Errorf("Ignoring trusted proxies, forwarding headers will not be honoured: %v", err)
			trusted = nil
		}
		r.Use(newRateLimiter(cfg.RateLimit.PerMinute, trusted).middleware)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		entry := log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		})
		if recorder.status >= http.StatusInternalServerError {
			entry.Error("Request failed")
			return
		}
		entry.Debug("Request handled")
	})
}

// rateLimiter keeps one token bucket per client address; idle clients expire.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	trusted  []*net.IPNet
}

func newRateLimiter(requestsPerMin int, trusted []*net.IPNet) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxRateLimitedClients, nil, rateLimiterTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		trusted:  trusted,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		client := clientAddress(req, rl.trusted)
		if !rl.allow(client) {
			log.Warnf("Rate limit exceeded for %s", client)
			rest.WriteError(w, http.StatusTooManyRequests, "Too many requests", "")
			return
		}
		next.ServeHTTP(w, req)
	})
}

// clientAddress identifies the caller for rate limiting. Forwarding headers are only
// read when the direct peer is a trusted proxy: X-Forwarded-For is walked from the right,
// skipping trusted hops, and X-Real-IP is the fallback.
func clientAddress(r *http.Request, trusted []*net.IPNet) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !isTrusted(net.ParseIP(remote), trusted) {
		return remote
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		client := ""
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				break
			}
			client = ip.String()
			if !isTrusted(ip, trusted) {
				return client
			}
		}
		if client != "" {
			return client
		}
	}
	if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); realIP != nil {
		return realIP.String()
	}
	return remote
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
