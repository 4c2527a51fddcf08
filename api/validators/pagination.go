package validators

import (
	"net/http"

	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// ParsePageParams reads page/per_page query parameters with clamping.
func ParsePageParams(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	perPage, err := ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Normalize(pagination.Params{Page: page, PerPage: perPage}), nil
}
