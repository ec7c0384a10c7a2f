package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"task-manager/internal/config"
)

type dialect int

const (
	dialectMySQL dialect = iota
	dialectPostgres
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return dialectMySQL, nil
	case config.DriverPostgres:
		return dialectPostgres, nil
	}
	return 0, fmt.Errorf("unsupported database driver %q", driver)
}

func (d dialect) driverName() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "mysql"
}

// rebind rewrites ? placeholders to $1..$n for PostgreSQL. Queries in this
// package never carry a literal ? inside quotes.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres || !strings.Contains(query, "?") {
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

const mysqlDuplicateEntry = 1062

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}
