package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/handler"
	"github.com/mangobar/mangobar-web/internal/session"
)

// mockSearcher is a hand-written test double for handler.Searcher.
type mockSearcher struct {
	search func(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error)
}

func (m *mockSearcher) Search(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error) {
	return m.search(ctx, c)
}

func (m *mockSearcher) Regions() []domain.Region { return domain.Regions }

// compile-time check: mockSearcher must satisfy handler.Searcher.
var _ handler.Searcher = (*mockSearcher)(nil)

// ---- helpers ---------------------------------------------------------------

func newRouter(s handler.Searcher) (http.Handler, *session.Store) {
	store := session.NewStore(time.Hour)
	srv := handler.NewServer(s, store, slog.New(slog.DiscardHandler))
	return srv.Routes(), store
}

// authCookie starts an authenticated session and returns its cookie.
func authCookie(t *testing.T, store *session.Store) *http.Cookie {
	t.Helper()
	sess := store.Start()
	require.NoError(t, sess.Authenticate("key"))
	store.Save(sess)
	return &http.Cookie{Name: handler.SessionCookie, Value: sess.ID.String()}
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func searchQuery(regions []string, address, name string) string {
	q := url.Values{}
	for _, r := range regions {
		q.Add("region", r)
	}
	if address != "" {
		q.Set("address", address)
	}
	if name != "" {
		q.Set("name", name)
	}
	return q.Encode()
}

func sampleResult() domain.ResultSet {
	return domain.ResultSet{
		Active: []domain.LicenseRecord{{
			LicenseNo: "A-001", IndustryName: "휴게음식점", BusinessName: "스타벅스 강남점",
			Address: "서울특별시 강남구 테헤란로 1", PermitDate: "2019-03-01", NormName: "스타벅스강남점",
		}},
		Closed: []domain.ClosedLicenseRecord{},
	}
}
