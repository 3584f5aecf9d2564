package repo

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/mangobar/mangobar-web/internal/domain"
)

// sqliteLicenseRepo reads the downloaded snapshot file.
// It holds a path, not a handle: every Query opens the file read-only and
// closes it before returning, so the refresher can swap the file between
// queries without coordinating with in-flight searches.
type sqliteLicenseRepo struct {
	path   string
	schema Schema
}

// NewSQLiteLicenseRepo constructs a LicenseRepo over the SQLite file at path,
// reading the tables named by schema. The downloaded snapshot uses
// RegistrySchema. The file is not touched until the first Query.
func NewSQLiteLicenseRepo(path string, schema Schema) LicenseRepo {
	return &sqliteLicenseRepo{path: path, schema: schema}
}

// Query runs the active and closed queries against a fresh read-only handle.
func (r *sqliteLicenseRepo) Query(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error) {
	const op = "repo.sqliteLicenseRepo.Query"

	// mode=ro would report a missing file as a generic open failure; stat
	// first so the error names the path.
	if _, err := os.Stat(r.path); err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}

	dsn, err := readOnlyDSN(r.path)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}
	defer db.Close()

	active, err := r.queryActive(ctx, db, c)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}
	closed, err := r.queryClosed(ctx, db, c)
	if err != nil {
		return domain.ResultSet{}, unavailable(op, err)
	}
	return domain.ResultSet{Active: active, Closed: closed}, nil
}

func (r *sqliteLicenseRepo) queryActive(ctx context.Context, db *sql.DB, c domain.SearchCriteria) ([]domain.LicenseRecord, error) {
	q, args := buildQuery(r.schema.Active, c, questionMark)
	rs, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.schema.Active.Table, err)
	}
	defer func() { _ = rs.Close() }()
	return scanActive(rs)
}

func (r *sqliteLicenseRepo) queryClosed(ctx context.Context, db *sql.DB, c domain.SearchCriteria) ([]domain.ClosedLicenseRecord, error) {
	q, args := buildQuery(r.schema.Closed, c, questionMark)
	rs, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.schema.Closed.Table, err)
	}
	defer func() { _ = rs.Close() }()
	return scanClosed(rs)
}

// readOnlyDSN builds a file: URI opening path read-only. The path is made
// absolute and escaped, so names containing '?', '#' or '%' survive.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}
