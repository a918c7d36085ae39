package helpers

import (
	"net/http"
	"strconv"

	"eventregistration/internal/domain"
)

// ParseEventListParams reads page, limit, sortField and sortOrder from the query string.
// Invalid or missing values fall back to the defaults of domain.EventListParams.Normalize.
func ParseEventListParams(r *http.Request) domain.EventListParams {
	q := r.URL.Query()
	params := domain.EventListParams{
		SortField: q.Get("sortField"),
		SortOrder: q.Get("sortOrder"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.PageSize = v
	}
	return params.Normalize()
}
