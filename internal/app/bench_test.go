package app

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/bd2-crud/terceros/internal/terceros"
)

func BenchmarkListPage(b *testing.B) {
	client, repo := newTestRouter(b, NewReadiness(nil, 0))
	for i := 0; i < 50; i++ {
		_, _ = repo.Create(context.Background(), terceros.ThirdParty{DocumentType: "CC", DocumentNumber: "1", GivenNames: "Ana", Surnames: "Lopez"})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.get("/")
	}
}

func TestListPageLatency(t *testing.T) {
	client, repo := newTestRouter(t, NewReadiness(nil, 0))
	for i := 0; i < 200; i++ {
		_, _ = repo.Create(context.Background(), terceros.ThirdParty{DocumentType: "CC", DocumentNumber: "1", GivenNames: "Ana", Surnames: "Lopez"})
	}

	samples := make([]time.Duration, 0, 20)
	for i := 0; i < 20; i++ {
		start := time.Now()
		rr := client.get("/")
		samples = append(samples, time.Since(start))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rr.Code)
		}
	}
	if p95 := percentile95(samples); p95 > 500*time.Millisecond {
		t.Fatalf("list latency regression: p95=%s", p95)
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[int(float64(len(sorted)-1)*0.95)]
}
