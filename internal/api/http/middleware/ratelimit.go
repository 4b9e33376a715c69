package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/model"
)

const limiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimit throttles requests per client. Authenticated requests are keyed
// by user ID, unauthenticated ones by remote address, so the public auth
// endpoints are covered too. Idle limiters are dropped in the background.
type RateLimit struct {
	perSecond      rate.Limit
	burst          int
	contextManager model.ContextManager
	logger         *logger.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter
	stopCh   chan struct{}
}

// NewRateLimit creates the middleware and starts its cleanup loop.
func NewRateLimit(perSecond float64, burst int, contextManager model.ContextManager, logger *logger.Logger) *RateLimit {
	m := &RateLimit{
		perSecond:      rate.Limit(perSecond),
		burst:          burst,
		contextManager: contextManager,
		logger:         logger,
		limiters:       make(map[string]*clientLimiter),
		stopCh:         make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Stop terminates the cleanup loop.
func (m *RateLimit) Stop() {
	close(m.stopCh)
}

// Handle rejects requests over the per-client budget with 429 and a
// Retry-After hint.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.clientKey(r)

		if !m.limiterFor(key).Allow() {
			m.logger.Warn("Rate limit middleware: request throttled", "client", key, "path", r.URL.Path)
			tooManyRequests(w, m.perSecond)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimit) clientKey(r *http.Request) string {
	if userID, ok := m.contextManager.GetUserIDFromContext(r.Context()); ok {
		return userID.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (m *RateLimit) limiterFor(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl, ok := m.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(m.perSecond, m.burst)}
		m.limiters[key] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter
}

func (m *RateLimit) cleanupLoop() {
	ticker := time.NewTicker(limiterTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopCh:
			return
		}
	}
}

func (m *RateLimit) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, cl := range m.limiters {
		if now.Sub(cl.lastAccess) > limiterTTL {
			delete(m.limiters, key)
		}
	}
}

func tooManyRequests(w http.ResponseWriter, perSecond rate.Limit) {
	retryAfter := int(math.Ceil(1 / float64(perSecond)))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
}
