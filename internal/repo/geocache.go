package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/travel-journal/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock pools. Accepting this interface instead of *pgxpool.Pool lets
// integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GeocodeCacheRepo stores resolved geocode queries so repeated lookups of the
// same "<city>, <country>" do not hit the external service again.
type GeocodeCacheRepo interface {
	// Get returns the cached coordinates for query if they are younger than maxAge.
	// Returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, query string, maxAge time.Duration) (domain.Coordinates, error)

	// Put stores coords for query, replacing any previous entry.
	Put(ctx context.Context, query string, coords domain.Coordinates) error
}

// pgGeocodeCacheRepo is the Postgres implementation of GeocodeCacheRepo.
type pgGeocodeCacheRepo struct {
	db db
}

// NewGeocodeCacheRepo constructs a GeocodeCacheRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewGeocodeCacheRepo(db db) GeocodeCacheRepo {
	return &pgGeocodeCacheRepo{db: db}
}

const getGeocodeQuery = `
		SELECT latitude, longitude
		FROM geocode_cache
		WHERE query = $1
		  AND created_at > now() - make_interval(secs => $2)`

// Get looks up a cached entry by normalised query.
func (r *pgGeocodeCacheRepo) Get(ctx context.Context, query string, maxAge time.Duration) (domain.Coordinates, error) {
	var c domain.Coordinates
	err := r.db.QueryRow(ctx, getGeocodeQuery, query, maxAge.Seconds()).Scan(&c.Latitude, &c.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coordinates{}, fmt.Errorf("repo.GeocodeCacheRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.Coordinates{}, fmt.Errorf("repo.GeocodeCacheRepo.Get: %w", err)
	}
	return c, nil
}

const putGeocodeQuery = `
		INSERT INTO geocode_cache (query, latitude, longitude)
		VALUES ($1, $2, $3)
		ON CONFLICT (query) DO UPDATE
		SET latitude   = EXCLUDED.latitude,
		    longitude  = EXCLUDED.longitude,
		    created_at = now()`

// Put upserts an entry. The created_at timestamp is refreshed on every write.
func (r *pgGeocodeCacheRepo) Put(ctx context.Context, query string, coords domain.Coordinates) error {
	if _, err := r.db.Exec(ctx, putGeocodeQuery, query, coords.Latitude, coords.Longitude); err != nil {
		return fmt.Errorf("repo.GeocodeCacheRepo.Put: %w", err)
	}
	return nil
}
