package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ValidationError reports a malformed or out-of-range query parameter
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Message)
}

// QueryInt reads an integer parameter, falling back to def when absent.
// max <= 0 means no upper bound.
func QueryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Param: name, Message: "must be an integer"}
	}
	if v < min {
		return 0, &ValidationError{Param: name, Message: fmt.Sprintf("must be >= %d", min)}
	}
	if max > 0 && v > max {
		return 0, &ValidationError{Param: name, Message: fmt.Sprintf("must be <= %d", max)}
	}
	return v, nil
}

// QueryOptionalInt reads an integer parameter; nil means the filter is off
func QueryOptionalInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Param: name, Message: "must be an integer"}
	}
	return &v, nil
}

// QueryOptionalBool reads a boolean parameter ("true"/"false", "1"/"0"); nil means the filter is off
func QueryOptionalBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil, &ValidationError{Param: name, Message: "must be true or false"}
	}
	return &v, nil
}

// QueryOptionalFloat reads a numeric parameter; nil means the filter is off
func QueryOptionalFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ValidationError{Param: name, Message: "must be a number"}
	}
	return &v, nil
}

// PageParams holds the validated page and limit of a list request
type PageParams struct {
	Page  int
	Limit int
}

// ParsePageParams reads page (>= 1, default 1) and limit ([1, maxLimit], default defLimit)
func ParsePageParams(r *http.Request, defLimit, maxLimit int) (PageParams, error) {
	limit, err := QueryInt(r, "limit", defLimit, 1, maxLimit)
	if err != nil {
		return PageParams{}, err
	}
	page, err := QueryInt(r, "page", 1, 1, 0)
	if err != nil {
		return PageParams{}, err
	}
	return PageParams{Page: page, Limit: limit}, nil
}
