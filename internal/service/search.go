// Package service contains the business logic for the license search.
// It validates criteria, runs the repo query and applies the name-matching
// stages. No SQL lives here; the service depends on the repo interface.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/match"
	"github.com/mangobar/mangobar-web/internal/metrics"
	"github.com/mangobar/mangobar-web/internal/repo"
)

// nameMatchThreshold is the fuzzy score a record must reach after token
// filtering. Applied identically to the active and closed sets.
const nameMatchThreshold = 80

// SearchService runs the search pipeline:
// repo query → (name query only) token filter → fuzzy filter.
type SearchService struct {
	repo    repo.LicenseRepo
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewSearchService constructs a SearchService backed by the provided repo.
func NewSearchService(r repo.LicenseRepo, m *metrics.Metrics, log *slog.Logger) *SearchService {
	return &SearchService{repo: r, metrics: m, log: log}
}

// Search validates the criteria and returns the matching active and closed
// records. Returns domain.ErrValidation for rejected input and an error
// wrapping domain.ErrStoreUnavailable when the store cannot be read.
// On success both slices are non-nil.
func (s *SearchService) Search(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error) {
	start := time.Now()

	if err := c.Validate(); err != nil {
		s.metrics.ObserveSearch(metrics.OutcomeInvalid, start)
		return domain.ResultSet{}, err
	}

	rs, err := s.repo.Query(ctx, c)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, domain.ErrStoreUnavailable) {
			outcome = metrics.OutcomeUnavailable
		}
		s.metrics.ObserveSearch(outcome, start)
		return domain.ResultSet{}, fmt.Errorf("service.SearchService.Search: %w", err)
	}
	s.log.DebugContext(ctx, "store query complete",
		"regions", c.Regions,
		"active", len(rs.Active),
		"closed", len(rs.Closed),
	)

	if c.HasNameQuery() {
		tokens := match.Tokenize(c.NameQuery)
		rs.Active = match.FilterFuzzy(match.FilterTokens(rs.Active, tokens), c.NameQuery, nameMatchThreshold)
		rs.Closed = match.FilterFuzzy(match.FilterTokens(rs.Closed, tokens), c.NameQuery, nameMatchThreshold)
		s.log.DebugContext(ctx, "name matching complete",
			"tokens", tokens,
			"active", len(rs.Active),
			"closed", len(rs.Closed),
		)
	}
	if rs.Active == nil {
		rs.Active = []domain.LicenseRecord{}
	}
	if rs.Closed == nil {
		rs.Closed = []domain.ClosedLicenseRecord{}
	}

	s.metrics.ObserveSearch(metrics.OutcomeOK, start)
	s.metrics.ObserveResults(len(rs.Active), len(rs.Closed))
	return rs, nil
}

// Regions returns the fixed list of selectable regions in display order.
func (s *SearchService) Regions() []domain.Region {
	return domain.Regions
}
