package sqlroster

import (
	"strconv"
	"strings"
)

// Dialect captures the few places SQLite and Postgres disagree.
type Dialect struct {
	Name string
	// Numbered placeholders ($1, $2) instead of "?".
	Numbered bool
	// ColumnsQuery returns one column name per row for the players table.
	ColumnsQuery string
}

var (
	SQLite = Dialect{
		Name:         "sqlite",
		ColumnsQuery: "SELECT name FROM pragma_table_info('players')",
	}
	Postgres = Dialect{
		Name:         "postgres",
		Numbered:     true,
		ColumnsQuery: "SELECT column_name FROM information_schema.columns WHERE table_name = 'players'",
	}
)

// Rebind rewrites "?" placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
