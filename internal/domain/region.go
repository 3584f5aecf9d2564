package domain

import "strings"

// Region is a province or metropolitan city selectable in the search form.
// AddressPrefix is the leading text an address must start with (after
// lowercasing) to belong to the region. It is data, not a slice length, so
// names whose registry spelling differs can carry their own prefix.
type Region struct {
	Name          string `json:"name"`
	AddressPrefix string `json:"address_prefix"`
}

// defaultPrefixRunes is how many leading characters of a region name are used
// as its address prefix when no explicit prefix is configured.
const defaultPrefixRunes = 4

// Regions is the fixed list offered by the search form, in display order.
var Regions = []Region{
	{Name: "서울특별시", AddressPrefix: "서울특별"},
	{Name: "경기도", AddressPrefix: "경기도"},
	{Name: "인천광역시", AddressPrefix: "인천광역"},
	{Name: "세종특별자치시", AddressPrefix: "세종특별"},
	{Name: "부산광역시", AddressPrefix: "부산광역"},
	{Name: "대구광역시", AddressPrefix: "대구광역"},
	{Name: "광주광역시", AddressPrefix: "광주광역"},
	{Name: "대전광역시", AddressPrefix: "대전광역"},
	{Name: "울산광역시", AddressPrefix: "울산광역"},
	{Name: "강원특별자치도", AddressPrefix: "강원특별"},
	{Name: "충청북도", AddressPrefix: "충청북도"},
	{Name: "충청남도", AddressPrefix: "충청남도"},
	{Name: "전북특별자치도", AddressPrefix: "전북특별"},
	{Name: "전라남도", AddressPrefix: "전라남도"},
	{Name: "경상북도", AddressPrefix: "경상북도"},
	{Name: "경상남도", AddressPrefix: "경상남도"},
	{Name: "제주특별자치도", AddressPrefix: "제주특별"},
}

// LookupRegion returns the region with the given display name.
func LookupRegion(name string) (Region, bool) {
	for _, r := range Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// RegionPrefix returns the lowercased address prefix for a region name.
// Names outside the fixed list fall back to their first four characters.
func RegionPrefix(name string) string {
	if r, ok := LookupRegion(name); ok {
		return strings.ToLower(r.AddressPrefix)
	}
	runes := []rune(name)
	if len(runes) > defaultPrefixRunes {
		runes = runes[:defaultPrefixRunes]
	}
	return strings.ToLower(string(runes))
}
