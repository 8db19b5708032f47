package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/db/models"
)

// ReplaceFacts replaces the whole fact set: truncate, then insert, inside a
// single transaction so readers see either the old set or the new one, never
// a partial state. Duplicate-key rows are absorbed row-wise and logged; any
// other insert failure rolls the whole load back, leaving the previous fact
// set in place.
func (s *Store) ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error) {
	const insert = `
		INSERT INTO indicator_fact (
			indicator_id, country_id, year, value,
			api_code, name, description, source, topic
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (indicator_id, country_id, year) DO NOTHING
	`

	inserted := 0
	err := s.client.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE indicator_fact`); err != nil {
			return fmt.Errorf("truncate facts: %w", err)
		}

		batch := &pgx.Batch{}
		for _, f := range facts {
			batch.Queue(insert,
				f.IndicatorID, f.CountryID, f.Year, f.Value,
				f.APICode, f.Name, f.Description, f.Source, f.Topic)
		}

		results := tx.SendBatch(ctx, batch)
		defer func() { _ = results.Close() }()

		for i := range facts {
			tag, err := results.Exec()
			if err != nil {
				f := facts[i]
				return fmt.Errorf("insert fact (indicator=%d country=%d year=%d): %w",
					f.IndicatorID, f.CountryID, f.Year, err)
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if skipped := len(facts) - inserted; skipped > 0 {
		s.logger.Warn("duplicate facts skipped during load", zap.Int("skipped", skipped))
	}
	s.logger.Info("fact set replaced", zap.Int("inserted", inserted))

	return inserted, nil
}

// CountryStats returns, for one country, each indicator's year→value mapping.
// Values come back as the decimal text Postgres stores, unrounded. An empty
// indicatorIDs slice means all indicators.
func (s *Store) CountryStats(ctx context.Context, countryID int32, indicatorIDs []int64) (map[int64]map[int]string, error) {
	query := `
		SELECT indicator_id, year, value::text
		FROM indicator_fact
		WHERE country_id = $1
	`
	args := []any{countryID}
	if len(indicatorIDs) > 0 {
		query += ` AND indicator_id = ANY($2)`
		args = append(args, indicatorIDs)
	}
	query += ` ORDER BY indicator_id, year`

	rows, err := s.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("country stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int64]map[int]string)
	for rows.Next() {
		var (
			indicatorID int64
			year        int
			value       string
		)
		if err := rows.Scan(&indicatorID, &year, &value); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		byYear, ok := stats[indicatorID]
		if !ok {
			byYear = make(map[int]string)
			stats[indicatorID] = byYear
		}
		byYear[year] = value
	}
	return stats, rows.Err()
}
