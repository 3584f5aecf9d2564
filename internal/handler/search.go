package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/present"
)

// pageData feeds templates/page.html.
type pageData struct {
	Authenticated bool
	Warning       string
	Regions       []domain.Region
	Selected      map[string]bool
	Address       string
	Name          string

	Searched bool
	Summary  string
	Active   present.Table
	Closed   present.Table
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Summary     string        `json:"summary"`
	ActiveCount int           `json:"active_count"`
	ClosedCount int           `json:"closed_count"`
	Active      present.Table `json:"active"`
	Closed      present.Table `json:"closed"`
}

// GetIndex handles GET /: the access-key form for new visitors, the search
// form once a key has been supplied.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	if !s.authenticated(r) {
		s.render(w, r, http.StatusOK, pageData{})
		return
	}
	s.render(w, r, http.StatusOK, s.formData(domain.SearchCriteria{}))
}

// GetSearchPage handles GET /search and renders the result tables.
// Rejected input re-renders the form with a warning; it is not an error page.
func (s *Server) GetSearchPage(w http.ResponseWriter, r *http.Request) {
	c, err := bindCriteria(r)
	if err != nil {
		data := s.formData(c)
		data.Warning = err.Error()
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	data := s.formData(c)
	rs, err := s.search.Search(r.Context(), c)
	switch {
	case errors.Is(err, domain.ErrValidation):
		data.Warning = unwrapMessage(err)
		s.render(w, r, http.StatusOK, data)
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.log.ErrorContext(r.Context(), "license store unavailable", "error", err)
		data.Warning = "데이터베이스를 사용할 수 없습니다. 잠시 후 다시 시도하세요."
		s.render(w, r, http.StatusServiceUnavailable, data)
		return
	case err != nil:
		s.log.ErrorContext(r.Context(), "search failed", "error", err)
		data.Warning = "검색 중 오류가 발생했습니다."
		s.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Searched = true
	data.Summary = present.Summary(rs)
	data.Active = present.ActiveTable(rs.Active)
	data.Closed = present.ClosedTable(rs.Closed)
	s.render(w, r, http.StatusOK, data)
}

// GetSearchAPI handles GET /api/search.
func (s *Server) GetSearchAPI(w http.ResponseWriter, r *http.Request) {
	c, err := bindCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	rs, err := s.search.Search(r.Context(), c)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.log.ErrorContext(r.Context(), "license store unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, unavailableBody())
		return
	case err != nil:
		s.log.ErrorContext(r.Context(), "search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, internalBody())
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Summary:     present.Summary(rs),
		ActiveCount: len(rs.Active),
		ClosedCount: len(rs.Closed),
		Active:      present.ActiveTable(rs.Active),
		Closed:      present.ClosedTable(rs.Closed),
	})
}

// GetRegions handles GET /api/regions.
func (s *Server) GetRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.search.Regions())
}

// formData builds the search-form view, echoing the submitted criteria.
func (s *Server) formData(c domain.SearchCriteria) pageData {
	selected := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		selected[r] = true
	}
	return pageData{
		Authenticated: true,
		Regions:       s.search.Regions(),
		Selected:      selected,
		Address:       c.AddressQuery,
		Name:          c.NameQuery,
	}
}

// bindCriteria reads region (repeatable), address and name from the query
// string. All three are optional here; the service validates combinations.
func bindCriteria(r *http.Request) (domain.SearchCriteria, error) {
	q := r.URL.Query()
	var (
		regions *[]string
		address *string
		name    *string
	)
	if err := runtime.BindQueryParameter("form", true, false, "region", q, &regions); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("invalid region parameter: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "address", q, &address); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("invalid address parameter: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "name", q, &name); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("invalid name parameter: %w", err)
	}

	var c domain.SearchCriteria
	if regions != nil {
		c.Regions = *regions
	}
	if address != nil {
		c.AddressQuery = *address
	}
	if name != nil {
		c.NameQuery = *name
	}
	return c, nil
}
