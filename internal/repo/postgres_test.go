package repo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/match"
	"github.com/mangobar/mangobar-web/internal/repo"
	"github.com/mangobar/mangobar-web/testutil"
)

// newPostgresRepo opens a transaction against the test database, seeds the
// fixtures into it and returns a LicenseRepo backed by that transaction. The
// transaction is rolled back when the test finishes.
//
// Requires TEST_DATABASE_URL; skipped otherwise.
func newPostgresRepo(t *testing.T) repo.LicenseRepo {
	t.Helper()
	pool := testutil.NewPool(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err, "begin transaction")
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	for _, r := range testutil.ActiveFixtures() {
		_, err := tx.Exec(ctx, `
			INSERT INTO active_licenses
				(license_no, industry_name, business_name, address, permit_date, addr_lower, name_norm)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		require.NoError(t, err)
	}
	for _, r := range testutil.ClosedFixtures() {
		_, err := tx.Exec(ctx, `
			INSERT INTO closed_licenses
				(license_no, industry_name, business_name, address, permit_date,
				 closure_date, closure_status, addr_lower, name_norm)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			r.ClosureDate, r.ClosureStatus, strings.ToLower(r.Address), match.Normalize(r.BusinessName))
		require.NoError(t, err)
	}

	return repo.NewPostgresLicenseRepo(tx)
}

func TestPostgresLicenseRepo_RegionAndName(t *testing.T) {
	r := newPostgresRepo(t)

	got, err := r.Query(context.Background(), domain.SearchCriteria{
		Regions:   []string{"서울특별시"},
		NameQuery: "스타벅스",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"A-001", "A-002", "A-003"}, activeNos(got))
	assert.Equal(t, []string{"C-001"}, closedNos(got))
}

func TestPostgresLicenseRepo_AddressOnly(t *testing.T) {
	r := newPostgresRepo(t)

	got, err := r.Query(context.Background(), domain.SearchCriteria{AddressQuery: "강남구"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A-001", "A-002"}, activeNos(got))
	assert.Empty(t, got.Closed)
}
