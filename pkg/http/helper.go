package http

import (
	"net/http"
	"strconv"

	"sarpras/pkg/config"
	apperrors "sarpras/pkg/errors"
)

// ExtractPageSize reads the 0-based page index and page size of a table view.
func ExtractPageSize(r *http.Request, defaultSize, maxSize int) (int, int, error) {
	page, err := intParam(r, "page")
	if err != nil {
		return 0, 0, err
	}
	size, err := intParam(r, "size")
	if err != nil {
		return 0, 0, err
	}
	return config.NormalizePageIndex(page), config.NormalizePageSize(size, defaultSize, maxSize), nil
}

// ExtractPageRows reads the backend's 1-based page and rows parameters.
func ExtractPageRows(r *http.Request, defaultRows, maxRows int) (int, int, error) {
	page, err := intParam(r, "page")
	if err != nil {
		return 0, 0, err
	}
	rows, err := intParam(r, "rows")
	if err != nil {
		return 0, 0, err
	}
	return max(1, page), config.NormalizePageSize(rows, defaultRows, maxRows), nil
}

func intParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}
