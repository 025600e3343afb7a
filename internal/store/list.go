package store

import (
	"fmt"
	"math"
	"strings"
)

// ListOptions controls paging and ordering of list queries.
type ListOptions struct {
	Offset int
	Limit  int    // 0 means no limit
	Order  string // JSON field name of the resource
	Desc   bool
}

// apply appends ORDER BY and LIMIT/OFFSET clauses. Order names are resolved
// through columns, so only whitelisted column expressions reach the query.
func (o ListOptions) apply(query string, args []any, columns map[string]string, idColumn string) (string, []any, error) {
	if o.Offset < 0 || o.Limit < 0 {
		return "", nil, fmt.Errorf("%w: offset and limit must not be negative", ErrInvalid)
	}

	order := idColumn
	if o.Order != "" {
		col, ok := columns[o.Order]
		if !ok {
			return "", nil, fmt.Errorf("%w: cannot order by %q", ErrInvalid, o.Order)
		}
		order = col
	}

	query += ` ORDER BY ` + order
	if o.Desc {
		query += ` DESC`
	}
	if order != idColumn {
		query += `, ` + idColumn
	}

	if o.Limit > 0 || o.Offset > 0 {
		limit := int64(o.Limit)
		if limit == 0 {
			limit = math.MaxInt64
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, o.Offset)
	}

	return query, args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prefixPattern returns a LIKE pattern (used with ESCAPE '\') matching
// values that start with prefix literally.
func prefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
