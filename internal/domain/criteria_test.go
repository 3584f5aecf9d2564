package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangobar/mangobar-web/internal/domain"
)

func TestSearchCriteria_Validate_Valid(t *testing.T) {
	c := domain.SearchCriteria{Regions: []string{"서울특별시"}, NameQuery: "스타벅스"}

	require.NoError(t, c.Validate())
}

func TestSearchCriteria_Validate_AddressOnly(t *testing.T) {
	c := domain.SearchCriteria{Regions: []string{"경기도"}, AddressQuery: "수원시"}

	require.NoError(t, c.Validate())
}

func TestSearchCriteria_Validate_NoRegion(t *testing.T) {
	c := domain.SearchCriteria{NameQuery: "스타벅스"}

	err := c.Validate()

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "시·도")
}

func TestSearchCriteria_Validate_UnknownRegion(t *testing.T) {
	c := domain.SearchCriteria{Regions: []string{"평양직할시"}, NameQuery: "스타벅스"}

	assert.ErrorIs(t, c.Validate(), domain.ErrValidation)
}

func TestSearchCriteria_Validate_BlankText(t *testing.T) {
	// Whitespace-only text counts as empty.
	c := domain.SearchCriteria{Regions: []string{"서울특별시"}, AddressQuery: "  ", NameQuery: "\t"}

	err := c.Validate()

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "주소 또는 업소명")
}

func TestSearchCriteria_HasNameQuery(t *testing.T) {
	assert.False(t, domain.SearchCriteria{}.HasNameQuery())
	assert.False(t, domain.SearchCriteria{NameQuery: "   "}.HasNameQuery())
	assert.True(t, domain.SearchCriteria{NameQuery: "a"}.HasNameQuery())
}
