// Package store is the Postgres-backed implementation of the db.Store
// contract: country master loading, full-replace fact loading, aggregate
// membership and the parametrized fact query engine.
package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/db/postgres"
)

// Store persists countries, facts and aggregate memberships in Postgres.
type Store struct {
	client *postgres.Client
	logger *zap.Logger
}

// New wraps a connected postgres client.
func New(client *postgres.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.client.Close()
}
