// Package db defines the storage contract the HTTP controllers and the
// ingestion runner program against. The Postgres implementation lives in
// pkg/db/store.
package db

import (
	"context"
	"errors"

	"github.com/eed-project/eedx/pkg/db/models"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("not found")

// Store is the persistence surface for the country master, the fact set and
// aggregate memberships.
type Store interface {
	// InitializeDB creates tables and indexes when missing. Idempotent.
	InitializeDB(ctx context.Context) error

	// LoadCountries inserts master rows whose id is not yet present and
	// returns how many rows were actually inserted. Duplicates are skipped
	// silently.
	LoadCountries(ctx context.Context, countries []models.Country) (int, error)
	// ListCountries returns the persisted country master ordered by id.
	ListCountries(ctx context.Context) ([]models.Country, error)
	// GetCountry looks a country up by id, exact name or ISO code.
	GetCountry(ctx context.Context, key string) (models.Country, error)
	// RemoveCountry deletes the country's facts, its aggregate memberships
	// and finally the country row, in one transaction.
	RemoveCountry(ctx context.Context, id int32) error

	// ReplaceFacts truncates the fact table and inserts the given facts in
	// one transaction, returning the number of rows inserted.
	ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error)
	// CountryStats returns year→value text per indicator for one country,
	// optionally restricted to the given indicator ids.
	CountryStats(ctx context.Context, countryID int32, indicatorIDs []int64) (map[int64]map[int]string, error)

	// AddMembership records a country in a named aggregate. Re-adding an
	// existing pair is a no-op; the bool reports whether a row was inserted.
	AddMembership(ctx context.Context, aggregateName string, countryID int32) (bool, error)
	// MembersOf returns the member country ids of a named aggregate; an
	// unknown name yields an empty set, not an error.
	MembersOf(ctx context.Context, aggregateName string) ([]int32, error)

	// Query evaluates one selector against the persisted facts.
	Query(ctx context.Context, sel models.Selector) (models.QueryResult, error)

	Ping(ctx context.Context) error
	Close()
}
