// Package present turns search results into display tables: internal column
// identifiers are renamed to Korean labels and bookkeeping columns are dropped.
package present

import (
	"fmt"
	"slices"

	"github.com/mangobar/mangobar-web/internal/domain"
)

// Internal column identifiers.
const (
	colLicenseNo     = "license_no"
	colIndustryName  = "industry_name"
	colBusinessName  = "business_name"
	colAddress       = "address"
	colPermitDate    = "permit_date"
	colClosureDate   = "closure_date"
	colClosureStatus = "closure_status"
	colNameNorm      = "name_norm"
	colNameLower     = "name_lower"
)

// labels maps internal identifiers to the headers shown to users.
var labels = map[string]string{
	colLicenseNo:     "인허가번호",
	colIndustryName:  "업종",
	colBusinessName:  "업소명",
	colAddress:       "주소",
	colPermitDate:    "허가일자",
	colClosureDate:   "폐업일자",
	colClosureStatus: "폐업상태",
}

// internalColumns never reach the user. name_lower is not produced by any
// current code path; dropping it is a no-op kept for older snapshots.
var internalColumns = []string{colNameNorm, colNameLower}

// Table is an ordered set of columns and string rows, ready for display.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Rename replaces column identifiers found in names. Unknown columns keep
// their identifier.
func (t Table) Rename(names map[string]string) Table {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if n, ok := names[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	return Table{Columns: cols, Rows: t.Rows}
}

// Drop removes the named columns. Names not present are ignored.
func (t Table) Drop(names ...string) Table {
	var keep []int
	for i, c := range t.Columns {
		if !slices.Contains(names, c) {
			keep = append(keep, i)
		}
	}
	out := Table{Columns: make([]string, 0, len(keep)), Rows: make([][]string, 0, len(t.Rows))}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, row := range t.Rows {
		r := make([]string, 0, len(keep))
		for _, i := range keep {
			r = append(r, row[i])
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// ActiveTable renders active records for display.
func ActiveTable(records []domain.LicenseRecord) Table {
	raw := Table{
		Columns: []string{colLicenseNo, colIndustryName, colBusinessName, colAddress, colPermitDate, colNameNorm},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		raw.Rows = append(raw.Rows, []string{r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate, r.NormName})
	}
	return raw.Drop(internalColumns...).Rename(labels)
}

// ClosedTable renders closed records for display, including the closure
// date and status columns.
func ClosedTable(records []domain.ClosedLicenseRecord) Table {
	raw := Table{
		Columns: []string{
			colLicenseNo, colIndustryName, colBusinessName, colAddress, colPermitDate,
			colClosureDate, colClosureStatus, colNameNorm,
		},
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		raw.Rows = append(raw.Rows, []string{
			r.LicenseNo, r.IndustryName, r.BusinessName, r.Address, r.PermitDate,
			r.ClosureDate, r.ClosureStatus, r.NormName,
		})
	}
	return raw.Drop(internalColumns...).Rename(labels)
}

// Summary returns the one-line result count shown above the tables.
func Summary(rs domain.ResultSet) string {
	return fmt.Sprintf("검색 완료: 정상 %d개 / 폐업 %d개", len(rs.Active), len(rs.Closed))
}
