// Package postgres stores domains, articles and projects in PostgreSQL. Insertion
// order is kept in each table's position column.
package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// now matches the microsecond precision of TIMESTAMPTZ so values read back compare
// equal to the ones written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching query anywhere in the value.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func fromArray(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

func toArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}
