// Package handler contains the HTTP handlers.  Handlers bind request
// bodies, delegate to the auth core and the repositories, and translate
// sentinel errors into HTTP responses; they never touch SQL or JWTs
// directly.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// pageParams is the normalized pagination of a list request.
type pageParams struct {
	page   int
	limit  int
	offset int
}

// getPage reads ?page= and ?limit=, defaulting to page 1 with 20 items and
// capping the page size at 100.
func getPage(c echo.Context) pageParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return pageParams{page: page, limit: limit, offset: (page - 1) * limit}
}

// pagination is the envelope accompanying every list response.
type pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func newPagination(total int, p pageParams) pagination {
	pages := total / p.limit
	if total%p.limit != 0 {
		pages++
	}
	return pagination{Total: total, Page: p.page, Limit: p.limit, TotalPages: pages}
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
