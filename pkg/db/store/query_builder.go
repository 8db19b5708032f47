package store

import (
	"fmt"

	"github.com/eed-project/eedx/pkg/db/models"
)

// shape says how a built query's result set must be scanned.
type shape int

const (
	shapeRows   shape = iota // full fact rows
	shapeValues              // bare values
	shapeScalar              // single SUM/AVG value, possibly NULL
)

const factColumns = "indicator_id, country_id, year, value, api_code, name, description, source, topic"

// buildFactQuery turns a resolved selection into one parametrized SQL
// statement. All values travel as bind arguments, never as query text. For
// MAX/MIN the same filter (and the same placeholders) appears in the outer
// query and in the extreme sub-select, so the extreme is computed over exactly
// the matched rows and every tying row inside the match set comes back; the
// value comparison happens on NUMERIC inside Postgres, keeping tie detection
// exact.
func buildFactQuery(countryIDs []int32, indicatorID *int64, years models.YearRange, reduce models.Reducer) (string, []any, shape) {
	filter := "country_id = ANY($1)"
	args := []any{countryIDs}

	if indicatorID != nil {
		args = append(args, *indicatorID)
		filter += fmt.Sprintf(" AND indicator_id = $%d", len(args))
	}

	switch {
	case years.IsZero():
		// no period filter
	case years.Single():
		args = append(args, years.Start)
		filter += fmt.Sprintf(" AND year = $%d", len(args))
	default:
		args = append(args, years.Start, years.End)
		filter += fmt.Sprintf(" AND year BETWEEN $%d AND $%d", len(args)-1, len(args))
	}

	switch reduce {
	case models.ReduceSum:
		return "SELECT SUM(value) FROM indicator_fact WHERE " + filter, args, shapeScalar
	case models.ReduceAverage:
		return "SELECT AVG(value) FROM indicator_fact WHERE " + filter, args, shapeScalar
	case models.ReduceMax, models.ReduceMin:
		agg := "MAX"
		if reduce == models.ReduceMin {
			agg = "MIN"
		}
		sql := fmt.Sprintf(
			"SELECT %s FROM indicator_fact WHERE %s AND value IN (SELECT %s(value) FROM indicator_fact WHERE %s) ORDER BY country_id, year",
			factColumns, filter, agg, filter)
		return sql, args, shapeRows
	}

	if indicatorID == nil {
		return "SELECT " + factColumns + " FROM indicator_fact WHERE " + filter +
			" ORDER BY indicator_id, country_id, year", args, shapeRows
	}
	return "SELECT value FROM indicator_fact WHERE " + filter +
		" ORDER BY country_id, year", args, shapeValues
}
