package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mangobar/mangobar-web/internal/domain"
)

// db is the minimal read interface satisfied by *pgxpool.Pool, *pgx.Conn and
// pgx.Tx. Integration tests pass a transaction that is rolled back after each
// test, giving per-test isolation without manual cleanup.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// pgLicenseRepo is the Postgres implementation of LicenseRepo. It expects the
// schema in migrations/ with addr_lower and name_norm kept up to date by
// whatever loads the data.
type pgLicenseRepo struct {
	db     db
	schema Schema
}

// NewPostgresLicenseRepo constructs a LicenseRepo backed by the provided
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewPostgresLicenseRepo(db db) LicenseRepo {
	return &pgLicenseRepo{db: db, schema: MigratedSchema}
}

// Query runs the active and closed queries on the shared pool.
func (r *pgLicenseRepo) Query(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error) {
	const op = "repo.pgLicenseRepo.Query"

	q, args := buildQuery(r.schema.Active, c, dollar)
	rs, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, fmt.Errorf("%s: %w", r.schema.Active.Table, err))
	}
	active, err := scanActive(rs)
	rs.Close()
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}

	q, args = buildQuery(r.schema.Closed, c, dollar)
	rs, err = r.db.Query(ctx, q, args...)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, fmt.Errorf("%s: %w", r.schema.Closed.Table, err))
	}
	closed, err := scanClosed(rs)
	rs.Close()
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}

	return domain.ResultSet{Active: active, Closed: closed}, nil
}
