package store

import (
	"context"
	"fmt"
)

// Table DDL. The fact primary key doubles as the uniqueness constraint the
// loader relies on; aggregate memberships are unique per (name, country).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS country (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		iso_code VARCHAR NOT NULL,
		description VARCHAR,
		area INTEGER,
		language VARCHAR,
		flag BYTEA,
		map BYTEA,
		prev_election DATE,
		next_election DATE
	)`,
	`CREATE TABLE IF NOT EXISTS indicator_fact (
		indicator_id BIGINT NOT NULL,
		country_id INTEGER NOT NULL REFERENCES country(id),
		year INTEGER NOT NULL,
		value NUMERIC NOT NULL,
		api_code VARCHAR NOT NULL DEFAULT '',
		name VARCHAR NOT NULL DEFAULT '',
		description VARCHAR NOT NULL DEFAULT '',
		source VARCHAR NOT NULL DEFAULT '',
		topic VARCHAR NOT NULL DEFAULT '',
		PRIMARY KEY (indicator_id, country_id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS aggregate_membership (
		aggregate_name VARCHAR NOT NULL,
		country_id INTEGER NOT NULL REFERENCES country(id),
		PRIMARY KEY (aggregate_name, country_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_indicator_fact_country ON indicator_fact (country_id, year)`,
}

// InitializeDB creates the schema when missing. Safe to call on every start.
func (s *Store) InitializeDB(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := s.client.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}
