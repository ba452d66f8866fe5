package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RequestMiddleware struct {
	log     *logrus.Logger
	timeout time.Duration
}

func NewRequestMiddleware(log *logrus.Logger, timeout time.Duration) *RequestMiddleware {
	return &RequestMiddleware{
		log:     log,
		timeout: timeout,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// Log tags the request with an id and logs one line per request.
func (m *RequestMiddleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"size_bytes": rec.size,
		})
		switch {
		case rec.status >= 500:
			entry.Error("HTTP Server Error")
		case rec.status >= 400:
			entry.Warn("HTTP Client Error")
		default:
			entry.Info("HTTP Request")
		}
	})
}

// Timeout bounds every downstream call made with the request context.
// Collaborators that run out of time surface as 503 with Retry-After.
func (m *RequestMiddleware) Timeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), m.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
