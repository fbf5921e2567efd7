package repository

import (
	"strconv"
	"strings"
)

// assignment pairs a column with its value. Columns always come from code,
// never from request input.
type assignment struct {
	column string
	value  any
}

// placeholders renders "col = $n" for each assignment, numbering from start,
// joined by sep.
func placeholders(assignments []assignment, start int, sep string) (string, []any) {
	parts := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))

	for i, a := range assignments {
		parts = append(parts, a.column+" = $"+strconv.Itoa(start+i))
		args = append(args, a.value)
	}

	return strings.Join(parts, sep), args
}

// setClause renders the SET list of an UPDATE.
func setClause(assignments []assignment, start int) (string, []any) {
	return placeholders(assignments, start, ", ")
}

// whereClause renders " WHERE a = $1 AND b = $2", or "" with no predicates.
func whereClause(predicates []assignment, start int) (string, []any) {
	if len(predicates) == 0 {
		return "", nil
	}

	clause, args := placeholders(predicates, start, " AND ")
	return " WHERE " + clause, args
}

// nextPlaceholder returns "$n" for the parameter following args.
func nextPlaceholder(args []any) string {
	return "$" + strconv.Itoa(len(args)+1)
}
