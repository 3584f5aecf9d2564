package repo

import "strings"

// TableLayout names the table and columns one record set is read from.
// ClosureDate and ClosureStatus are only set for the closed table.
type TableLayout struct {
	Table         string
	LicenseNo     string
	IndustryName  string
	BusinessName  string
	Address       string
	PermitDate    string
	ClosureDate   string
	ClosureStatus string
	// AddrLower and NameNorm are the precomputed match columns: the
	// lowercased address and the lowercased, whitespace-free business name.
	AddrLower string
	NameNorm  string
}

// Schema pairs the active and closed table layouts of one store.
type Schema struct {
	Active TableLayout
	Closed TableLayout
}

// RegistrySchema is the layout of the published registry snapshot: active
// licenses in i2500, closed ones in i2819. The two tables name the industry
// and address columns differently.
var RegistrySchema = Schema{
	Active: TableLayout{
		Table:        "i2500",
		LicenseNo:    "LCNS_NO",
		IndustryName: "INDUTY_CD_NM",
		BusinessName: "BSSH_NM",
		Address:      "ADDR",
		PermitDate:   "PRMS_DT",
		AddrLower:    "_ADDR_LOWER",
		NameNorm:     "_BSSH_NORM",
	},
	Closed: TableLayout{
		Table:         "i2819",
		LicenseNo:     "LCNS_NO",
		IndustryName:  "INDUTY_NM",
		BusinessName:  "BSSH_NM",
		Address:       "LOCP_ADDR",
		PermitDate:    "PRMS_DT",
		ClosureDate:   "CLSBIZ_DT",
		ClosureStatus: "CLSBIZ_DVS_CD_NM",
		AddrLower:     "_ADDR_LOWER",
		NameNorm:      "_BSSH_NORM",
	},
}

// MigratedSchema is the layout created by the goose migrations in
// migrations/, used by the Postgres store and by tests.
var MigratedSchema = Schema{
	Active: TableLayout{
		Table:        "active_licenses",
		LicenseNo:    "license_no",
		IndustryName: "industry_name",
		BusinessName: "business_name",
		Address:      "address",
		PermitDate:   "permit_date",
		AddrLower:    "addr_lower",
		NameNorm:     "name_norm",
	},
	Closed: TableLayout{
		Table:         "closed_licenses",
		LicenseNo:     "license_no",
		IndustryName:  "industry_name",
		BusinessName:  "business_name",
		Address:       "address",
		PermitDate:    "permit_date",
		ClosureDate:   "closure_date",
		ClosureStatus: "closure_status",
		AddrLower:     "addr_lower",
		NameNorm:      "name_norm",
	},
}

// SchemaByName resolves a configured layout name: "registry" or "migrated".
func SchemaByName(name string) (Schema, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "registry":
		return RegistrySchema, true
	case "migrated":
		return MigratedSchema, true
	default:
		return Schema{}, false
	}
}

// selectList renders the COALESCEd column list in scan order. The closed
// layout appends the closure columns.
func (l TableLayout) selectList() string {
	cols := []string{l.LicenseNo, l.IndustryName, l.BusinessName, l.Address, l.PermitDate}
	if l.ClosureDate != "" {
		cols = append(cols, l.ClosureDate, l.ClosureStatus)
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = "COALESCE(" + quoteIdent(c) + ", '')"
	}
	return strings.Join(out, ", ")
}

// quoteIdent double-quotes an identifier. Layout names come from code, never
// from user input.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
