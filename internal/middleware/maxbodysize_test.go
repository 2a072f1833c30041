package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripwit/internal/middleware"
)

// bodyReadingHandler reads the full request body the way a JSON-decoding
// handler would. It answers 413 when the read fails with *http.MaxBytesError
// and 200 otherwise.
var bodyReadingHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, err := io.ReadAll(r.Body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func photoBatch(n int) string {
	photo := `{"asset_identifier":"IMG_0001","location":{"latitude":48.8584,"longitude":2.2945},"capture_date":"2026-01-15T10:30:00Z"}`
	return `{"photos":[` + strings.TrimSuffix(strings.Repeat(photo+",", n), ",") + `]}`
}

func TestMaxBodySizeHandler_SmallBody_PassesThrough(t *testing.T) {
	const limit = 1024
	h := middleware.NewMaxBodySizeHandler(limit)(bodyReadingHandler)

	req := httptest.NewRequest(http.MethodPost, "/trips/1/photos/match", strings.NewReader(photoBatch(2)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodySizeHandler_BodyExactlyAtLimit_PassesThrough(t *testing.T) {
	body := photoBatch(3)
	h := middleware.NewMaxBodySizeHandler(int64(len(body)))(bodyReadingHandler)

	req := httptest.NewRequest(http.MethodPost, "/trips/1/photos/match", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

// A Content-Length above the limit is rejected before the handler runs.
func TestMaxBodySizeHandler_ContentLengthExceedsLimit_Returns413(t *testing.T) {
	const limit = 100
	called := false
	h := middleware.NewMaxBodySizeHandler(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	body := photoBatch(5)
	req := httptest.NewRequest(http.MethodPost, "/trips/1/photos/match", strings.NewReader(body))
	req.ContentLength = int64(len(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called, "next handler must not run")
	assert.JSONEq(t, `{"error":{"code":"payload_too_large","message":"request body too large"}}`, rec.Body.String())
}

// Without a Content-Length the limit is enforced while the handler reads.
func TestMaxBodySizeHandler_StreamingBodyExceedsLimit_Returns413(t *testing.T) {
	const limit = 100
	h := middleware.NewMaxBodySizeHandler(limit)(bodyReadingHandler)

	req := httptest.NewRequest(http.MethodPost, "/trips/1/photos/match", strings.NewReader(photoBatch(5)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
