package server

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/etnz/financechat/internal/log"
)

// requestIDHeader carries the id of a request, given by the client or generated.
const requestIDHeader = "X-Request-ID"

// requestID tags the request with an id and a logger carrying it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logger := s.logger.With(log.FieldRequestID, id)
		next.ServeHTTP(w, r.WithContext(log.NewContext(r.Context(), logger)))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs the completion of every request, at a level depending on its status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := log.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, clientIP(r)).
			WithHTTPResponse(rec.status, time.Since(start).Milliseconds()).
			ToSlice()
		logger := log.FromContext(r.Context())
		switch {
		case rec.status >= 500:
			logger.ErrorContext(r.Context(), "request failed", fields...)
		case rec.status >= 400:
			logger.WarnContext(r.Context(), "request rejected", fields...)
		default:
			logger.InfoContext(r.Context(), "request completed", fields...)
		}
	})
}

// rateLimit rejects requests above the configured rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			log.FromContext(r.Context()).WarnContext(r.Context(), "rate limit exceeded", log.FieldPath, r.URL.Path)
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
