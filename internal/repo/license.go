// Package repo contains all database access logic for the license search.
// The LicenseRepo interface has a SQLite implementation (the daily snapshot)
// and a Postgres implementation. No matching logic lives here beyond the
// SQL-level prefix and substring filters.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/match"
)

// LicenseRepo defines the read-only query over the license store.
// The service layer depends on this interface, not a concrete store,
// which allows the service to be unit-tested with a mock.
type LicenseRepo interface {
	// Query returns the active and closed records matching the criteria's
	// region, address and name filters, ANDed together. Regions OR among
	// themselves; an empty region list applies no region restriction.
	// Returns an error wrapping domain.ErrStoreUnavailable if the store is
	// missing, corrupt or has an unexpected schema.
	Query(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error)
}

// placeholder renders the nth (1-based) bind parameter for a SQL dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// buildQuery renders the SELECT for one table layout and its bind arguments.
// User text is only ever passed as arguments, never interpolated.
func buildQuery(l TableLayout, c domain.SearchCriteria, ph placeholder) (string, []any) {
	var (
		args  []any
		conds []string
	)
	bind := func(v any) string {
		args = append(args, v)
		return ph(len(args))
	}
	addrLower, nameNorm := quoteIdent(l.AddrLower), quoteIdent(l.NameNorm)

	if len(c.Regions) > 0 {
		ors := make([]string, 0, len(c.Regions))
		for _, region := range c.Regions {
			ors = append(ors, addrLower+" LIKE "+bind(escapeLike(domain.RegionPrefix(region))+"%")+` ESCAPE '\'`)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	conds = append(conds,
		addrLower+" LIKE "+bind("%"+escapeLike(strings.ToLower(strings.TrimSpace(c.AddressQuery)))+"%")+` ESCAPE '\'`,
		nameNorm+" LIKE "+bind("%"+escapeLike(match.Normalize(c.NameQuery))+"%")+` ESCAPE '\'`,
	)

	q := "SELECT " + l.selectList() + "\n\t\tFROM " + quoteIdent(l.Table) +
		"\n\t\tWHERE " + strings.Join(conds, "\n\t\t  AND ") +
		"\n\t\tORDER BY " + quoteIdent(l.LicenseNo)
	return q, args
}

// likeEscaper escapes LIKE metacharacters so user text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// rows is satisfied by both *sql.Rows and pgx.Rows.
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanActive maps every remaining row into LicenseRecords and derives the
// normalized name once per record. Always returns a non-nil slice.
func scanActive(rs rows) ([]domain.LicenseRecord, error) {
	out := []domain.LicenseRecord{}
	for rs.Next() {
		var r domain.LicenseRecord
		if err := rs.Scan(&r.LicenseNo, &r.IndustryName, &r.BusinessName, &r.Address, &r.PermitDate); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.NormName = match.Normalize(r.BusinessName)
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// scanClosed is scanActive for closed_licenses rows.
func scanClosed(rs rows) ([]domain.ClosedLicenseRecord, error) {
	out := []domain.ClosedLicenseRecord{}
	for rs.Next() {
		var r domain.ClosedLicenseRecord
		err := rs.Scan(&r.LicenseNo, &r.IndustryName, &r.BusinessName, &r.Address, &r.PermitDate,
			&r.ClosureDate, &r.ClosureStatus)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.NormName = match.Normalize(r.BusinessName)
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// unavailable wraps a store failure so callers can match domain.ErrStoreUnavailable
// while keeping the underlying cause in the message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
