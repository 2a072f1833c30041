package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripwit/internal/domain"
)

// pathUUID binds the named chi path parameter as a UUID. On failure it
// writes a 400 response and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid "+name+": "+err.Error())
		return id, false
	}
	return id, true
}

// paginationParams binds the optional ?page= and ?limit= query parameters.
// Absent values fall back to the defaults of domain.NewPaginationParams.
func paginationParams(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid page: "+err.Error())
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid limit: "+err.Error())
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}
