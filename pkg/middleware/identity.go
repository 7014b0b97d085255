package middleware

import (
	"context"
	"net/http"

	"pawmarket/pkg/logger"
)

const (
	CustomerIDKey    contextKey = "customer_id"
	CustomerEmailKey contextKey = "customer_email"

	// Identity headers are set by the API gateway after it verifies the
	// access token. Token issuance and verification live outside this
	// system.
	HeaderCustomerID    = "X-Customer-Id"
	HeaderCustomerEmail = "X-Customer-Email"
)

// Identity requires a gateway-verified customer identity on every request
// and places it on the context.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customerID := r.Header.Get(HeaderCustomerID)
			if customerID == "" {
				log.Warn("Request without customer identity",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing customer identity"}`))
				return
			}

			ctx := context.WithValue(r.Context(), CustomerIDKey, customerID)
			if email := r.Header.Get(HeaderCustomerEmail); email != "" {
				ctx = context.WithValue(ctx, CustomerEmailKey, email)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CustomerIDFromContext(ctx context.Context) string {
	if v := ctx.Value(CustomerIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func CustomerEmailFromContext(ctx context.Context) string {
	if v := ctx.Value(CustomerEmailKey); v != nil {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
