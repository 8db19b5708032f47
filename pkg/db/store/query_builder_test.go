package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eed-project/eedx/pkg/db/models"
)

func TestBuildFactQuery(t *testing.T) {
	indicator := int64(42)

	tests := []struct {
		name      string
		countries []int32
		indicator *int64
		years     models.YearRange
		reduce    models.Reducer
		wantSQL   string
		wantArgs  []any
		wantShape shape
	}{
		{
			name:      "country only lists all facts",
			countries: []int32{7},
			wantSQL: "SELECT " + factColumns + " FROM indicator_fact WHERE country_id = ANY($1)" +
				" ORDER BY indicator_id, country_id, year",
			wantArgs:  []any{[]int32{7}},
			wantShape: shapeRows,
		},
		{
			name:      "country and single year",
			countries: []int32{7},
			years:     models.YearRange{Start: 2010, End: 2010},
			wantSQL: "SELECT " + factColumns + " FROM indicator_fact WHERE country_id = ANY($1) AND year = $2" +
				" ORDER BY indicator_id, country_id, year",
			wantArgs:  []any{[]int32{7}, 2010},
			wantShape: shapeRows,
		},
		{
			name:      "country and indicator yield bare values",
			countries: []int32{7},
			indicator: &indicator,
			wantSQL: "SELECT value FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2" +
				" ORDER BY country_id, year",
			wantArgs:  []any{[]int32{7}, indicator},
			wantShape: shapeValues,
		},
		{
			name:      "indicator with year span",
			countries: []int32{7},
			indicator: &indicator,
			years:     models.YearRange{Start: 2010, End: 2015},
			wantSQL: "SELECT value FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2" +
				" AND year BETWEEN $3 AND $4 ORDER BY country_id, year",
			wantArgs:  []any{[]int32{7}, indicator, 2010, 2015},
			wantShape: shapeValues,
		},
		{
			name:      "sum over aggregate members",
			countries: []int32{1, 2, 3},
			indicator: &indicator,
			years:     models.YearRange{Start: 2010, End: 2010},
			reduce:    models.ReduceSum,
			wantSQL:   "SELECT SUM(value) FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2 AND year = $3",
			wantArgs:  []any{[]int32{1, 2, 3}, indicator, 2010},
			wantShape: shapeScalar,
		},
		{
			name:      "average over span",
			countries: []int32{1, 2},
			indicator: &indicator,
			years:     models.YearRange{Start: 2010, End: 2012},
			reduce:    models.ReduceAverage,
			wantSQL:   "SELECT AVG(value) FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2 AND year BETWEEN $3 AND $4",
			wantArgs:  []any{[]int32{1, 2}, indicator, 2010, 2012},
			wantShape: shapeScalar,
		},
		{
			name:      "max repeats the filter in the sub-select",
			countries: []int32{1, 2},
			indicator: &indicator,
			years:     models.YearRange{Start: 2010, End: 2010},
			reduce:    models.ReduceMax,
			wantSQL: "SELECT " + factColumns + " FROM indicator_fact" +
				" WHERE country_id = ANY($1) AND indicator_id = $2 AND year = $3" +
				" AND value IN (SELECT MAX(value) FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2 AND year = $3)" +
				" ORDER BY country_id, year",
			wantArgs:  []any{[]int32{1, 2}, indicator, 2010},
			wantShape: shapeRows,
		},
		{
			name:      "min without period",
			countries: []int32{9},
			indicator: &indicator,
			reduce:    models.ReduceMin,
			wantSQL: "SELECT " + factColumns + " FROM indicator_fact" +
				" WHERE country_id = ANY($1) AND indicator_id = $2" +
				" AND value IN (SELECT MIN(value) FROM indicator_fact WHERE country_id = ANY($1) AND indicator_id = $2)" +
				" ORDER BY country_id, year",
			wantArgs:  []any{[]int32{9}, indicator},
			wantShape: shapeRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, sh := buildFactQuery(tt.countries, tt.indicator, tt.years, tt.reduce)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantShape, sh)
		})
	}
}
