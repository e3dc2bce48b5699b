package httpserver

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func BenchmarkHandleRecommendations(b *testing.B) {
	srv := buildTestServer(b, defaultStubCatalog())
	h := srv.Handler()
	user := uuid.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(h, http.MethodGet, "/recommendations?genre=35&decade=2010", &user)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkHandleAddToWatchlist(b *testing.B) {
	srv := buildTestServer(b, defaultStubCatalog())
	h := srv.Handler()
	user := uuid.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(h, http.MethodPut, "/watchlist/101", &user)
		if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
