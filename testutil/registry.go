package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/match"
)

// registryDDL mirrors the published snapshot: registry service codes as
// table names, upper-case registry column names, and the two derived match
// columns. TELNO stands in for the registry columns the search never reads.
const registryDDL = `
	CREATE TABLE i2500 (
		LCNS_NO      TEXT,
		INDUTY_CD_NM TEXT,
		BSSH_NM      TEXT,
		ADDR         TEXT,
		PRMS_DT      TEXT,
		TELNO        TEXT,
		_ADDR_LOWER  TEXT,
		_BSSH_NORM   TEXT
	);
	CREATE TABLE i2819 (
		LCNS_NO          TEXT,
		INDUTY_NM        TEXT,
		BSSH_NM          TEXT,
		LOCP_ADDR        TEXT,
		PRMS_DT          TEXT,
		CLSBIZ_DT        TEXT,
		CLSBIZ_DVS_CD_NM TEXT,
		TELNO            TEXT,
		_ADDR_LOWER      TEXT,
		_BSSH_NORM       TEXT
	);`

// WriteRegistrySnapshot creates a SQLite file at path laid out like the
// downloaded registry snapshot and fills it with the given records.
func WriteRegistrySnapshot(t *testing.T, path string, active []domain.LicenseRecord, closed []domain.ClosedLicenseRecord) {
	t.Helper()

	db := openSQLite(t, path)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, registryDDL); err != nil {
		t.Fatalf("testutil.WriteRegistrySnapshot: create tables: %v", err)
	}

	const qa = `
		INSERT INTO i2500 (LCNS_NO, INDUTY_CD_NM, BSSH_NM, ADDR, PRMS_DT, TELNO, _ADDR_LOWER, _BSSH_NORM)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)`
	for _, r := range active {
		_, err := db.ExecContext(ctx, qa, r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		if err != nil {
			t.Fatalf("testutil.WriteRegistrySnapshot: insert i2500 %q: %v", r.LicenseNo, err)
		}
	}

	const qc = `
		INSERT INTO i2819 (LCNS_NO, INDUTY_NM, BSSH_NM, LOCP_ADDR, PRMS_DT, CLSBIZ_DT, CLSBIZ_DVS_CD_NM,
			TELNO, _ADDR_LOWER, _BSSH_NORM)
		VALUES (?, ?, ?, ?, ?, ?, ?, '', ?, ?)`
	for _, r := range closed {
		_, err := db.ExecContext(ctx, qc, r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			r.ClosureDate, r.ClosureStatus, strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		if err != nil {
			t.Fatalf("testutil.WriteRegistrySnapshot: insert i2819 %q: %v", r.LicenseNo, err)
		}
	}
}

// NewSeededRegistryDB writes a registry-layout snapshot holding the standard
// fixtures into the test's temp dir and returns its path.
func NewSeededRegistryDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mangobardata.db")
	WriteRegistrySnapshot(t, path, ActiveFixtures(), ClosedFixtures())
	return path
}
