package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReducer(t *testing.T) {
	tests := []struct {
		in      string
		want    Reducer
		wantErr bool
	}{
		{"", ReduceNone, false},
		{"sum", ReduceSum, false},
		{"SUM", ReduceSum, false},
		{"average", ReduceAverage, false},
		{"avg", ReduceAverage, false},
		{"Max", ReduceMax, false},
		{"min", ReduceMin, false},
		{"median", ReduceNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReducer(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorValidate(t *testing.T) {
	indicator := int64(42)

	tests := []struct {
		name    string
		sel     Selector
		wantErr bool
	}{
		{"country only", Selector{CountryID: 1}, false},
		{"neither target", Selector{}, true},
		{"both targets", Selector{CountryID: 1, Aggregate: "Africa", IndicatorID: &indicator, Reduce: ReduceSum}, true},
		{"country with indicator", Selector{CountryID: 1, IndicatorID: &indicator}, false},
		{"single year", Selector{CountryID: 1, Years: YearRange{Start: 2010, End: 2010}}, false},
		{"valid span", Selector{CountryID: 1, Years: YearRange{Start: 2010, End: 2015}}, false},
		{"inverted span", Selector{CountryID: 1, Years: YearRange{Start: 2015, End: 2010}}, true},
		{"negative year", Selector{CountryID: 1, Years: YearRange{Start: -1, End: 2010}}, true},
		{"half-zero span", Selector{CountryID: 1, Years: YearRange{Start: 2010}}, true},
		{"reducer without indicator", Selector{CountryID: 1, Reduce: ReduceSum}, true},
		{"aggregate without reducer", Selector{Aggregate: "Africa", IndicatorID: &indicator}, true},
		{"aggregate with reducer", Selector{Aggregate: "Africa", IndicatorID: &indicator, Reduce: ReduceMax}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	assert.True(t, YearRange{}.IsZero())
	assert.True(t, YearRange{Start: 2010, End: 2010}.Single())
	assert.False(t, YearRange{Start: 2010, End: 2012}.Single())
	assert.False(t, YearRange{Start: 2010, End: 2012}.IsZero())
}
