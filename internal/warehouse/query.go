// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomtom215/rngdash/internal/engagement"
)

// identPattern matches plain or dot-qualified SQL identifiers. Table and
// ORDER BY names are interpolated, so anything else is refused.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// buildSelect renders a Query into SQL with positional binds. Dates are
// passed as YYYY-MM-DD strings so every driver compares them as DATE.
func buildSelect(q engagement.Query) (string, []any, error) {
	if !identPattern.MatchString(q.Table) {
		return "", nil, fmt.Errorf("invalid table name %q", q.Table)
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(q.Table)

	var where []string
	if len(q.Dates) > 0 {
		marks := make([]string, len(q.Dates))
		for i, d := range q.Dates {
			marks[i] = "?"
			args = append(args, d.Format(engagement.DateLayout))
		}
		where = append(where, fmt.Sprintf("%s IN (%s)", engagement.DimDate, strings.Join(marks, ", ")))
	}
	if len(q.Ranges) > 0 {
		ranges := make([]string, len(q.Ranges))
		for i, r := range q.Ranges {
			ranges[i] = fmt.Sprintf("(%s BETWEEN ? AND ?)", engagement.DimDate)
			args = append(args, r.From.Format(engagement.DateLayout), r.To.Format(engagement.DateLayout))
		}
		clause := strings.Join(ranges, " OR ")
		if len(where) > 0 {
			clause = "(" + clause + ")"
		}
		where = append(where, clause)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if len(q.OrderBy) > 0 {
		for _, col := range q.OrderBy {
			if !identPattern.MatchString(col) {
				return "", nil, fmt.Errorf("invalid order column %q", col)
			}
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(q.OrderBy, ", "))
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args, nil
}
