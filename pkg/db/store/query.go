package store

import (
	"context"
	"fmt"

	"github.com/eed-project/eedx/pkg/db/models"
)

// Query evaluates one selector against the persisted facts. Aggregate
// membership is read fresh on every call, never cached. Empty match sets and
// unknown aggregate names yield empty results, not errors.
func (s *Store) Query(ctx context.Context, sel models.Selector) (models.QueryResult, error) {
	if err := sel.Validate(); err != nil {
		return models.QueryResult{}, err
	}

	countryIDs := []int32{sel.CountryID}
	if sel.Aggregate != "" {
		members, err := s.MembersOf(ctx, sel.Aggregate)
		if err != nil {
			return models.QueryResult{}, err
		}
		if len(members) == 0 {
			return emptyResult(sel), nil
		}
		countryIDs = members
	}

	sql, args, sh := buildFactQuery(countryIDs, sel.IndicatorID, sel.Years, sel.Reduce)

	switch sh {
	case shapeScalar:
		var scalar *float64
		if err := s.client.QueryRow(ctx, sql, args...).Scan(&scalar); err != nil {
			return models.QueryResult{}, fmt.Errorf("query scalar: %w", err)
		}
		return models.QueryResult{Kind: models.ResultScalar, Scalar: scalar}, nil

	case shapeValues:
		rows, err := s.client.Query(ctx, sql, args...)
		if err != nil {
			return models.QueryResult{}, fmt.Errorf("query values: %w", err)
		}
		defer rows.Close()

		values := []float64{}
		for rows.Next() {
			var v float64
			if err := rows.Scan(&v); err != nil {
				return models.QueryResult{}, fmt.Errorf("scan value: %w", err)
			}
			values = append(values, v)
		}
		if err := rows.Err(); err != nil {
			return models.QueryResult{}, err
		}
		return models.QueryResult{Kind: models.ResultValues, Values: values}, nil

	default:
		rows, err := s.client.Query(ctx, sql, args...)
		if err != nil {
			return models.QueryResult{}, fmt.Errorf("query rows: %w", err)
		}
		defer rows.Close()

		facts := []models.Fact{}
		for rows.Next() {
			var f models.Fact
			if err := rows.Scan(&f.IndicatorID, &f.CountryID, &f.Year, &f.Value,
				&f.APICode, &f.Name, &f.Description, &f.Source, &f.Topic); err != nil {
				return models.QueryResult{}, fmt.Errorf("scan fact: %w", err)
			}
			facts = append(facts, f)
		}
		if err := rows.Err(); err != nil {
			return models.QueryResult{}, err
		}
		return models.QueryResult{Kind: models.ResultRows, Rows: facts}, nil
	}
}

// emptyResult shapes an empty outcome to the selector's expected kind.
func emptyResult(sel models.Selector) models.QueryResult {
	switch sel.Reduce {
	case models.ReduceSum, models.ReduceAverage:
		return models.QueryResult{Kind: models.ResultScalar}
	case models.ReduceMax, models.ReduceMin:
		return models.QueryResult{Kind: models.ResultRows, Rows: []models.Fact{}}
	}
	if sel.IndicatorID == nil {
		return models.QueryResult{Kind: models.ResultRows, Rows: []models.Fact{}}
	}
	return models.QueryResult{Kind: models.ResultValues, Values: []float64{}}
}
