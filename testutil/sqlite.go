package testutil

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/match"
	"github.com/mangobar/mangobar-web/migrations"
)

// NewLicenseDB creates an empty, fully migrated SQLite license database in
// the test's temp dir and returns its path. The file is removed with the
// temp dir when the test finishes.
func NewLicenseDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "licenses.db")
	db := openSQLite(t, path)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		t.Fatalf("testutil.NewLicenseDB: create goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		t.Fatalf("testutil.NewLicenseDB: run migrations: %v", err)
	}
	return path
}

// SeedLicenses inserts active and closed records into the SQLite database at
// path, deriving addr_lower and name_norm the same way the registry export does.
func SeedLicenses(t *testing.T, path string, active []domain.LicenseRecord, closed []domain.ClosedLicenseRecord) {
	t.Helper()

	db := openSQLite(t, path)
	defer db.Close()
	ctx := context.Background()

	const qa = `
		INSERT INTO active_licenses
			(license_no, industry_name, business_name, address, permit_date, addr_lower, name_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, r := range active {
		_, err := db.ExecContext(ctx, qa, r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		if err != nil {
			t.Fatalf("testutil.SeedLicenses: insert active %q: %v", r.LicenseNo, err)
		}
	}

	const qc = `
		INSERT INTO closed_licenses
			(license_no, industry_name, business_name, address, permit_date,
			 closure_date, closure_status, addr_lower, name_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range closed {
		_, err := db.ExecContext(ctx, qc, r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			r.ClosureDate, r.ClosureStatus, strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		if err != nil {
			t.Fatalf("testutil.SeedLicenses: insert closed %q: %v", r.LicenseNo, err)
		}
	}
}

// OpenSQLite opens a read-write handle on the SQLite file at path.
// The handle is closed when the test finishes.
func OpenSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	db := openSQLite(t, path)
	t.Cleanup(func() { db.Close() })
	return db
}

func openSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("testutil: resolve %s: %v", path, err)
	}
	// A file: URI keeps '?' and '#' in test file names out of the driver's
	// parameter parsing.
	dsn := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testutil: open sqlite %s: %v", path, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil: ping sqlite %s: %v", path, err)
	}
	return db
}
