package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/db"
	"github.com/eed-project/eedx/pkg/db/models"
	"github.com/eed-project/eedx/pkg/db/postgres"
)

// LoadCountries inserts country master rows, skipping ids that already exist.
// Master rows are additive: nothing is ever updated or deleted here.
func (s *Store) LoadCountries(ctx context.Context, countries []models.Country) (int, error) {
	if len(countries) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO country (id, name, iso_code) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, c := range countries {
		batch.Queue(query, c.ID, c.Name, c.ISOCode)
	}

	inserted := 0
	results := s.client.GetExecutor(ctx).SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range countries {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert country: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	s.logger.Info("country master loaded",
		zap.Int("rows", len(countries)),
		zap.Int("inserted", inserted))

	return inserted, nil
}

// ListCountries returns the persisted master ordered by id.
func (s *Store) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.client.Query(ctx, `SELECT id, name, iso_code FROM country ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.ISOCode); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// GetCountry looks up one country by id, exact display name or ISO code.
func (s *Store) GetCountry(ctx context.Context, key string) (models.Country, error) {
	var (
		row pgx.Row
	)
	if id, err := strconv.ParseInt(key, 10, 32); err == nil {
		row = s.client.QueryRow(ctx, `SELECT id, name, iso_code FROM country WHERE id = $1`, int32(id))
	} else {
		row = s.client.QueryRow(ctx, `SELECT id, name, iso_code FROM country WHERE name = $1 OR iso_code = $1`, key)
	}

	var c models.Country
	if err := row.Scan(&c.ID, &c.Name, &c.ISOCode); err != nil {
		if postgres.IsNoRows(err) {
			return models.Country{}, fmt.Errorf("country %q: %w", key, db.ErrNotFound)
		}
		return models.Country{}, fmt.Errorf("get country %q: %w", key, err)
	}
	return c, nil
}

// RemoveCountry cascades one country's removal: facts first, then aggregate
// memberships, then the master row, all in one transaction.
func (s *Store) RemoveCountry(ctx context.Context, id int32) error {
	err := s.client.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM indicator_fact WHERE country_id = $1`, id); err != nil {
			return fmt.Errorf("delete facts: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM aggregate_membership WHERE country_id = $1`, id); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM country WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete country: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("country %d: %w", id, db.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("country removed", zap.Int32("country_id", id))
	return nil
}
