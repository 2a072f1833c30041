package middleware

import (
	"net/http"
)

// tooLargeBody is the JSON error body sent when a request is rejected up front.
// It matches the error envelope the handler package writes.
const tooLargeBody = `{"error":{"code":"payload_too_large","message":"request body too large"}}`

// NewMaxBodySizeHandler returns a middleware that limits incoming request body
// sizes to limit bytes.
//
// A request whose Content-Length already exceeds the limit is rejected with
// 413 before reaching the next handler. Otherwise the body is wrapped in
// http.MaxBytesReader, so a handler reading past the limit gets an
// *http.MaxBytesError and reports 413 itself.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Connection", "close")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(tooLargeBody))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
