package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's built-in lower() only folds ASCII. unicode_lower folds every
// letter the way strings.ToLower does, so names like "Ágora" compare equal
// to a lowercased filter.
func init() {
	err := sqlite.RegisterDeterministicScalarFunction("unicode_lower", 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
	if err != nil {
		panic(err)
	}
}

// Lower wraps a SQL expression in a Unicode-aware lowercasing function for
// the active dialect.
func (c *Conn) Lower(expr string) string {
	if c.Dialect == Postgres {
		return "LOWER(" + expr + ")"
	}
	return "unicode_lower(" + expr + ")"
}
