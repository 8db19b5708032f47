package models

import (
	"errors"
	"fmt"
	"strings"
)

// Reducer is the aggregation operator applied across matched facts.
type Reducer string

const (
	ReduceNone    Reducer = ""
	ReduceSum     Reducer = "SUM"
	ReduceAverage Reducer = "AVERAGE"
	ReduceMax     Reducer = "MAX"
	ReduceMin     Reducer = "MIN"
)

// ParseReducer parses a case-insensitive reducer name. The empty string means
// no reduction.
func ParseReducer(s string) (Reducer, error) {
	switch strings.ToUpper(s) {
	case "":
		return ReduceNone, nil
	case "SUM":
		return ReduceSum, nil
	case "AVERAGE", "AVG":
		return ReduceAverage, nil
	case "MAX":
		return ReduceMax, nil
	case "MIN":
		return ReduceMin, nil
	}
	return ReduceNone, fmt.Errorf("%w: unknown reducer %q", ErrInvalidQuery, s)
}

// YearRange selects a single year (Start == End) or an inclusive span.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Single reports whether the range covers exactly one year.
func (y YearRange) Single() bool { return y.Start == y.End }

// IsZero reports whether no period was given; a zero range matches all years.
func (y YearRange) IsZero() bool { return y.Start == 0 && y.End == 0 }

// Selector describes one read query against the fact table. Exactly one of
// CountryID and Aggregate must be set; aggregate membership is resolved fresh
// at query time.
type Selector struct {
	CountryID   int32
	Aggregate   string
	IndicatorID *int64
	Years       YearRange
	Reduce      Reducer
}

// ErrInvalidQuery marks malformed selector input. It surfaces to callers as an
// invalid-request condition, never a crash.
var ErrInvalidQuery = errors.New("invalid query")

// Validate checks the selector for structural errors before it reaches the
// query builder.
func (s Selector) Validate() error {
	if (s.CountryID > 0) == (s.Aggregate != "") {
		return fmt.Errorf("%w: exactly one of country and aggregate must be set", ErrInvalidQuery)
	}
	if !s.Years.IsZero() {
		if s.Years.Start <= 0 || s.Years.End <= 0 {
			return fmt.Errorf("%w: year must be positive", ErrInvalidQuery)
		}
		if s.Years.Start > s.Years.End {
			return fmt.Errorf("%w: year range start %d after end %d", ErrInvalidQuery, s.Years.Start, s.Years.End)
		}
	}
	if s.Reduce != ReduceNone && s.IndicatorID == nil {
		return fmt.Errorf("%w: reducer %s requires an indicator", ErrInvalidQuery, s.Reduce)
	}
	if s.Aggregate != "" && s.Reduce == ReduceNone {
		return fmt.Errorf("%w: aggregate queries require a reducer", ErrInvalidQuery)
	}
	return nil
}

// ResultKind tells callers which field of a QueryResult is populated.
type ResultKind string

const (
	// ResultRows carries full fact rows: MAX/MIN extremes (ties included) and
	// unfiltered per-country listings.
	ResultRows ResultKind = "rows"
	// ResultValues carries bare values for raw (unreduced) indicator queries.
	ResultValues ResultKind = "values"
	// ResultScalar carries a single SUM or AVERAGE value.
	ResultScalar ResultKind = "scalar"
)

// QueryResult is the outcome of one Selector evaluation. An empty match set
// yields an empty result (Scalar == nil, empty slices), not an error.
type QueryResult struct {
	Kind   ResultKind `json:"kind"`
	Rows   []Fact     `json:"rows,omitempty"`
	Values []float64  `json:"values,omitempty"`
	Scalar *float64   `json:"scalar,omitempty"`
}
