package api

import (
	"net/url"
	"strconv"

	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
	"github.com/erazemk/boardcamp/internal/validate"
)

// listOptions reads the offset, limit, order and desc query parameters
// shared by every list endpoint.
func listOptions(q url.Values) (store.ListOptions, error) {
	var opts store.ListOptions
	var err error

	if opts.Offset, err = queryCount(q, "offset"); err != nil {
		return opts, err
	}
	if opts.Limit, err = queryCount(q, "limit"); err != nil {
		return opts, err
	}

	opts.Order = q.Get("order")

	if s := q.Get("desc"); s != "" {
		opts.Desc, err = strconv.ParseBool(s)
		if err != nil {
			return opts, validate.Field("desc", "boolean")
		}
	}
	return opts, nil
}

// queryCount parses an optional non-negative integer parameter.
func queryCount(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, validate.Field(name, "min=0")
	}
	return n, nil
}

// queryID parses an optional positive id parameter. ok is false when the
// parameter is present but malformed.
func queryID(q url.Values, name string) (id int64, ok bool) {
	s := q.Get(name)
	if s == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryDate parses an optional YYYY-MM-DD parameter.
func queryDate(q url.Values, name string) (*model.Date, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, validate.Field(name, "isodate")
	}
	return &d, nil
}
