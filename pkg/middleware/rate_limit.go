package middleware

import (
	"net/http"
	"sync"
	"time"

	apphttp "pawmarket/pkg/http"
)

// CustomerRateLimiter caps requests per customer over a sliding window.
type CustomerRateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	stopCh      chan struct{}
}

func NewCustomerRateLimiter(maxRequests int, window time.Duration) *CustomerRateLimiter {
	limiter := &CustomerRateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		stopCh:      make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (l *CustomerRateLimiter) Allow(customerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	timestamps := l.requests[customerID]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= l.maxRequests {
		l.requests[customerID] = valid
		return false
	}

	l.requests[customerID] = append(valid, now)
	return true
}

func (l *CustomerRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.window)
			for customerID, timestamps := range l.requests {
				valid := timestamps[:0]
				for _, ts := range timestamps {
					if ts.After(cutoff) {
						valid = append(valid, ts)
					}
				}
				if len(valid) == 0 {
					delete(l.requests, customerID)
				} else {
					l.requests[customerID] = valid
				}
			}
			l.mu.Unlock()
		case <-l.stopCh:
			return
		}
	}
}

func (l *CustomerRateLimiter) Stop() {
	close(l.stopCh)
}

// CustomerRateLimit rejects requests from customers that exceed the
// limiter's budget. Requests without an identity pass through; the
// Identity middleware already rejected them if identity is required.
func CustomerRateLimit(limiter *CustomerRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customerID := CustomerIDFromContext(r.Context())
			if customerID == "" {
				customerID = r.Header.Get("X-Customer-Id")
			}
			if customerID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(customerID) {
				w.Header().Set("Retry-After", "60")
				_ = apphttp.WriteJSON(w, http.StatusTooManyRequests, apphttp.ErrorResponse{
					Error: "too many requests, please slow down",
					Code:  "RATE_LIMITED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
