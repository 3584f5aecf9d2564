package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/handler"
)

// validatingSearcher runs the real criteria checks before returning rs.
func validatingSearcher(rs domain.ResultSet, got *domain.SearchCriteria) *mockSearcher {
	return &mockSearcher{
		search: func(_ context.Context, c domain.SearchCriteria) (domain.ResultSet, error) {
			if got != nil {
				*got = c
			}
			if err := c.Validate(); err != nil {
				return domain.ResultSet{}, err
			}
			return rs, nil
		},
	}
}

func apiRequest(query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/search?"+query, nil)
	req.Header.Set(handler.AccessKeyHeader, "key")
	return req
}

// ---- HTML page -------------------------------------------------------------

func TestGetSearchPage_rendersSummaryAndTables(t *testing.T) {
	var got domain.SearchCriteria
	h, store := newRouter(validatingSearcher(sampleResult(), &got))
	req := httptest.NewRequest(http.MethodGet,
		"/search?"+searchQuery([]string{"서울특별시", "부산광역시"}, "", "스타벅스"), nil)
	req.AddCookie(authCookie(t, store))

	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"서울특별시", "부산광역시"}, got.Regions)
	assert.Equal(t, "스타벅스", got.NameQuery)

	body := rec.Body.String()
	assert.Contains(t, body, "검색 완료: 정상 1개 / 폐업 0개")
	assert.Contains(t, body, "<th>인허가번호</th>")
	assert.Contains(t, body, "<th>폐업상태</th>")
	assert.Contains(t, body, "스타벅스 강남점")
	assert.NotContains(t, body, "name_norm")
	assert.NotContains(t, body, "스타벅스강남점")
}

func TestGetSearchPage_validationShowsWarning(t *testing.T) {
	h, store := newRouter(validatingSearcher(sampleResult(), nil))
	req := httptest.NewRequest(http.MethodGet, "/search?"+searchQuery(nil, "", "스타벅스"), nil)
	req.AddCookie(authCookie(t, store))

	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "최소 하나의 시·도를 선택하세요.")
	assert.NotContains(t, body, "검색 완료")
}

func TestGetSearchPage_storeUnavailableIs503(t *testing.T) {
	h, store := newRouter(&mockSearcher{
		search: func(context.Context, domain.SearchCriteria) (domain.ResultSet, error) {
			return domain.ResultSet{}, fmt.Errorf("repo: %w", domain.ErrStoreUnavailable)
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/search?"+searchQuery([]string{"서울특별시"}, "강남", ""), nil)
	req.AddCookie(authCookie(t, store))

	rec := do(h, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// ---- JSON API --------------------------------------------------------------

func TestGetSearchAPI_returnsTables(t *testing.T) {
	h, _ := newRouter(validatingSearcher(sampleResult(), nil))

	rec := do(h, apiRequest(searchQuery([]string{"서울특별시"}, "", "스타벅스")))

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "검색 완료: 정상 1개 / 폐업 0개", body.Summary)
	assert.Equal(t, 1, body.ActiveCount)
	assert.Equal(t, 0, body.ClosedCount)
	assert.Equal(t, []string{"인허가번호", "업종", "업소명", "주소", "허가일자"}, body.Active.Columns)
	require.Len(t, body.Active.Rows, 1)
	assert.Equal(t, "A-001", body.Active.Rows[0][0])
	assert.Equal(t, []string{"인허가번호", "업종", "업소명", "주소", "허가일자", "폐업일자", "폐업상태"}, body.Closed.Columns)
	assert.Empty(t, body.Closed.Rows)
}

func TestGetSearchAPI_acceptsSessionCookie(t *testing.T) {
	h, store := newRouter(validatingSearcher(sampleResult(), nil))
	req := httptest.NewRequest(http.MethodGet, "/api/search?"+searchQuery([]string{"서울특별시"}, "강남", ""), nil)
	req.AddCookie(authCookie(t, store))

	rec := do(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSearchAPI_validationIs422(t *testing.T) {
	h, _ := newRouter(validatingSearcher(sampleResult(), nil))

	rec := do(h, apiRequest(searchQuery([]string{"서울특별시"}, "", "")))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "주소 또는 업소명을 입력하세요.", body.Error.Message)
}

func TestGetSearchAPI_errorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"unavailable", fmt.Errorf("wrap: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newRouter(&mockSearcher{
				search: func(context.Context, domain.SearchCriteria) (domain.ResultSet, error) {
					return domain.ResultSet{}, tc.err
				},
			})

			rec := do(h, apiRequest(searchQuery([]string{"서울특별시"}, "강남", "")))

			require.Equal(t, tc.want, rec.Code)
			var body handler.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestGetRegions_listsAllRegions(t *testing.T) {
	h, _ := newRouter(&mockSearcher{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var regions []domain.Region
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&regions))
	assert.Len(t, regions, 17)
	assert.Equal(t, "서울특별시", regions[0].Name)
}
