package domain

import (
	"fmt"
	"strings"
)

// SearchCriteria carries the user-supplied filters for one search.
// Regions holds display names from the fixed region list.
// AddressQuery and NameQuery are raw user text; normalization happens
// in the repo and match layers so the raw name query can still be tokenized.
type SearchCriteria struct {
	Regions      []string
	AddressQuery string
	NameQuery    string
}

// HasNameQuery reports whether the name stages of the pipeline should run.
func (c SearchCriteria) HasNameQuery() bool {
	return strings.TrimSpace(c.NameQuery) != ""
}

// Validate enforces the checks run before any query executes.
//   - At least one region must be selected.
//   - At least one of AddressQuery / NameQuery must be non-blank.
//
// The messages are shown to the user verbatim.
func (c SearchCriteria) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("%w: 최소 하나의 시·도를 선택하세요.", ErrValidation)
	}
	for _, r := range c.Regions {
		if _, ok := LookupRegion(r); !ok {
			return fmt.Errorf("%w: 알 수 없는 시·도입니다: %s", ErrValidation, r)
		}
	}
	if strings.TrimSpace(c.AddressQuery) == "" && !c.HasNameQuery() {
		return fmt.Errorf("%w: 주소 또는 업소명을 입력하세요.", ErrValidation)
	}
	return nil
}
