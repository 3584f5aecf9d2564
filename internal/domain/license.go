// Package domain contains the core data types for the MangoBar license search.
// This package has zero external dependencies and is imported by every other
// internal package (repo, match, service, present, handler).
package domain

// LicenseRecord is a single active establishment from the food-safety registry.
// LicenseNo identifies the record but is not enforced unique by the source.
//
// NormName is derived when the record is loaded: the business name lowercased
// with all whitespace removed. It is never persisted by this service.
type LicenseRecord struct {
	LicenseNo    string `json:"license_no"`
	IndustryName string `json:"industry_name"`
	BusinessName string `json:"business_name"`
	Address      string `json:"address"`
	PermitDate   string `json:"permit_date"`
	NormName     string `json:"-"`
}

// NormalizedName returns the derived match key for the record.
func (r LicenseRecord) NormalizedName() string { return r.NormName }

// ClosedLicenseRecord is an establishment whose license has been closed.
type ClosedLicenseRecord struct {
	LicenseRecord
	ClosureDate   string `json:"closure_date"`
	ClosureStatus string `json:"closure_status"`
}

// ResultSet is the pair of record sets produced by a single search.
// Both slices are non-nil after a successful search so callers can range
// and count without nil checks.
type ResultSet struct {
	Active []LicenseRecord
	Closed []ClosedLicenseRecord
}
