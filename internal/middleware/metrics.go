package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives one observation per served request.
// *metrics.Collector satisfies it.
type RequestObserver interface {
	ObserveRequest(method, route, status string, d time.Duration)
}

// NewMetrics returns a middleware that reports each request to obs, labelled
// with the chi route pattern rather than the raw path so IDs do not explode
// label cardinality. Requests that matched no route are labelled "unmatched".
func NewMetrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
		})
	}
}
