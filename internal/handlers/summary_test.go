package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/musiccritic/internal/store"
	"github.com/example/musiccritic/internal/summary"
)

type fixedGenerator struct {
	text   string
	err    error
	called bool
}

func (f *fixedGenerator) GenerateText(context.Context, string) (string, error) {
	f.called = true
	return f.text, f.err
}

func TestReviewSummary(t *testing.T) {
	rs := store.NewInMemoryReviewStore()
	text := "Excellent vocals"
	if _, err := rs.Create(context.Background(), store.Review{
		SongID: "4iV5W9uYEdYUVa79Axb7Rh", ReviewerID: "rev-1", Rating: 5, Text: &text,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	gen := summary.New(rs, &fixedGenerator{text: "Listeners praise the vocals."}, time.Second, nil)
	handler := ReviewSummary(gen, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/songs/4iV5W9uYEdYUVa79Axb7Rh/reviews-summary", "",
		map[string]string{"song_id": "4iV5W9uYEdYUVa79Axb7Rh"}, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp summaryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "Listeners praise the vocals." {
		t.Fatalf("unexpected summary %q", resp.Summary)
	}
}

func TestReviewSummary_NoReviews(t *testing.T) {
	gen := &fixedGenerator{text: "should not run"}
	handler := ReviewSummary(summary.New(store.NewInMemoryReviewStore(), gen, time.Second, nil), nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/songs/4iV5W9uYEdYUVa79Axb7Rh/reviews-summary", "",
		map[string]string{"song_id": "4iV5W9uYEdYUVa79Axb7Rh"}, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp summaryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "" {
		t.Fatalf("expected empty summary, got %q", resp.Summary)
	}
	if gen.called {
		t.Fatal("generator must not run with zero reviews")
	}
}

func TestReviewSummary_GeneratorFailure(t *testing.T) {
	rs := store.NewInMemoryReviewStore()
	if _, err := rs.Create(context.Background(), store.Review{
		SongID: "4iV5W9uYEdYUVa79Axb7Rh", ReviewerID: "rev-1", Rating: 3,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	gen := summary.New(rs, &fixedGenerator{err: errors.New("upstream down")}, time.Second, nil)
	handler := ReviewSummary(gen, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/songs/4iV5W9uYEdYUVa79Axb7Rh/reviews-summary", "",
		map[string]string{"song_id": "4iV5W9uYEdYUVa79Axb7Rh"}, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 even on generator failure, got %d", rr.Code)
	}
	var resp summaryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "" {
		t.Fatalf("expected empty summary, got %q", resp.Summary)
	}
}
