package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AddMembership records a country as a member of a named aggregate. Re-adding
// an existing (name, country) pair is a no-op; the returned bool reports
// whether a row was actually inserted.
func (s *Store) AddMembership(ctx context.Context, aggregateName string, countryID int32) (bool, error) {
	tag, err := s.client.GetExecutor(ctx).Exec(ctx, `
		INSERT INTO aggregate_membership (aggregate_name, country_id)
		VALUES ($1, $2)
		ON CONFLICT (aggregate_name, country_id) DO NOTHING
	`, aggregateName, countryID)
	if err != nil {
		return false, fmt.Errorf("add membership %s/%d: %w", aggregateName, countryID, err)
	}

	inserted := tag.RowsAffected() > 0
	if inserted {
		s.logger.Info("aggregate membership added",
			zap.String("aggregate", aggregateName),
			zap.Int32("country_id", countryID))
	}
	return inserted, nil
}

// MembersOf returns the member country ids of an aggregate, ordered. An
// unknown aggregate name yields an empty set.
func (s *Store) MembersOf(ctx context.Context, aggregateName string) ([]int32, error) {
	rows, err := s.client.Query(ctx, `
		SELECT country_id FROM aggregate_membership
		WHERE aggregate_name = $1
		ORDER BY country_id
	`, aggregateName)
	if err != nil {
		return nil, fmt.Errorf("members of %s: %w", aggregateName, err)
	}
	defer rows.Close()

	var members []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}
