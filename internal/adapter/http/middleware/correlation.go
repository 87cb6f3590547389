package middleware

import (
	"net/http"

	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

const correlationHeader = "X-Correlation-Id"

// Correlation picks the caller-supplied correlation id off the request
// and threads it through the context so every downstream log line and
// published event carries it. Absent id stays absent: the field is
// propagated, never invented here.
func (m *Middleware) Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(correlationHeader)
		if correlationID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := wrap.WithCorrelationID(r.Context(), correlationID)
		w.Header().Set(correlationHeader, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
