package testutil

import (
	"testing"

	"github.com/mangobar/mangobar-web/internal/domain"
)

// ActiveFixtures is a small registry sample spanning Seoul, Busan and
// Gyeonggi, with several near-miss business names for the fuzzy stage.
func ActiveFixtures() []domain.LicenseRecord {
	return []domain.LicenseRecord{
		{LicenseNo: "A-001", IndustryName: "휴게음식점", BusinessName: "스타벅스", Address: "서울특별시 강남구 테헤란로 1", PermitDate: "20190301"},
		{LicenseNo: "A-002", IndustryName: "휴게음식점", BusinessName: "스타벅스 역삼", Address: "서울특별시 강남구 역삼로 2", PermitDate: "20200415"},
		{LicenseNo: "A-003", IndustryName: "휴게음식점", BusinessName: "스타벅스 강남대로점", Address: "서울특별시 서초구 강남대로 3", PermitDate: "20210910"},
		{LicenseNo: "A-004", IndustryName: "휴게음식점", BusinessName: "스타벅스", Address: "부산광역시 해운대구 4", PermitDate: "20180101"},
		{LicenseNo: "A-005", IndustryName: "일반음식점", BusinessName: "맘스터치", Address: "서울특별시 마포구 5", PermitDate: "20170707"},
		{LicenseNo: "A-006", IndustryName: "제과점영업", BusinessName: "ABC Bakery", Address: "경기도 수원시 6", PermitDate: "20221212"},
	}
}

// ClosedFixtures pairs with ActiveFixtures.
func ClosedFixtures() []domain.ClosedLicenseRecord {
	rec := func(no, industry, name, addr, permit, closed string) domain.ClosedLicenseRecord {
		return domain.ClosedLicenseRecord{
			LicenseRecord: domain.LicenseRecord{
				LicenseNo: no, IndustryName: industry, BusinessName: name, Address: addr, PermitDate: permit,
			},
			ClosureDate:   closed,
			ClosureStatus: "폐업",
		}
	}
	return []domain.ClosedLicenseRecord{
		rec("C-001", "휴게음식점", "스타벅스점", "서울특별시 종로구 7", "20150505", "20240101"),
		rec("C-002", "휴게음식점", "스타벅스", "부산광역시 중구 8", "20140404", "20230303"),
		rec("C-003", "일반음식점", "맥도날드", "서울특별시 중구 9", "20100101", "20220202"),
	}
}

// NewSeededLicenseDB is NewLicenseDB followed by SeedLicenses with the
// fixtures above. Returns the database path.
func NewSeededLicenseDB(t *testing.T) string {
	t.Helper()
	path := NewLicenseDB(t)
	SeedLicenses(t, path, ActiveFixtures(), ClosedFixtures())
	return path
}
