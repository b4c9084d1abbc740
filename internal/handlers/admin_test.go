package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/musiccritic/internal/store"
)

func TestToggleVerified(t *testing.T) {
	rs := store.NewInMemoryReviewStore()
	seed := func(songID string) {
		if _, err := rs.Create(context.Background(), store.Review{
			SongID: songID, ReviewerID: "critic_1", Rating: 4,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed("track_aaaaaaaaaa")
	seed("track_bbbbbbbbbb")

	handler := ToggleVerified(rs)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/v1/admin/toggle-verified",
		`{"reviewer_id":"critic_1","verified":true}`, nil, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp toggleVerifiedResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UpdatedReviews != 2 {
		t.Fatalf("expected 2 updated reviews, got %d", resp.UpdatedReviews)
	}
	for _, r := range resp.Reviews {
		if !r.Verified {
			t.Fatal("expected all reviews verified")
		}
	}
	if resp.Message != "Verified status enabled for reviewer" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	// Toggling verified=false works too.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/v1/admin/toggle-verified",
		`{"reviewer_id":"critic_1","verified":false}`, nil, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for verified=false, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestToggleVerified_NoReviews(t *testing.T) {
	handler := ToggleVerified(store.NewInMemoryReviewStore())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/v1/admin/toggle-verified",
		`{"reviewer_id":"ghost","verified":true}`, nil, "admin-1"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestToggleVerified_Validation(t *testing.T) {
	handler := ToggleVerified(store.NewInMemoryReviewStore())
	for _, body := range []string{
		`{"verified":true}`,
		`{"reviewer_id":"critic_1"}`,
		`{"reviewer_id":"critic_1","verified":"yes"}`,
	} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, setupReq(http.MethodPost, "/v1/admin/toggle-verified", body, nil, "admin-1"))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestVerifiedStatus(t *testing.T) {
	rs := store.NewInMemoryReviewStore()
	if _, err := rs.Create(context.Background(), store.Review{
		SongID: "track_aaaaaaaaaa", ReviewerID: "critic_1", Rating: 4,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := rs.SetVerifiedForReviewer(context.Background(), "critic_1", true); err != nil {
		t.Fatalf("verify: %v", err)
	}

	handler := VerifiedStatus(rs)

	// Without reviewer_id: all verified reviewers.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/admin/toggle-verified", "", nil, "admin-1"))
	var listResp verifiedReviewersResponse
	if err := json.NewDecoder(rr.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.VerifiedReviewers) != 1 || listResp.VerifiedReviewers[0].ReviewerID != "critic_1" {
		t.Fatalf("unexpected verified reviewers: %+v", listResp.VerifiedReviewers)
	}

	// With reviewer_id: that reviewer's status.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/admin/toggle-verified?reviewer_id=critic_1", "", nil, "admin-1"))
	var statusResp reviewerStatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&statusResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statusResp.ReviewerStatus) != 1 || !statusResp.ReviewerStatus[0].Verified {
		t.Fatalf("unexpected reviewer status: %+v", statusResp.ReviewerStatus)
	}
}

func TestSeedAndClearReviews(t *testing.T) {
	rs := store.NewInMemoryReviewStore()

	rr := httptest.NewRecorder()
	SeedReviews(rs).ServeHTTP(rr, setupReq(http.MethodPost, "/v1/admin/seed-reviews", "", nil, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("seed: expected 200, got %d", rr.Code)
	}
	var seedResp seedReviewsResponse
	if err := json.NewDecoder(rr.Body).Decode(&seedResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(seedResp.Reviews) != 5 {
		t.Fatalf("expected 5 seeded reviews, got %d", len(seedResp.Reviews))
	}

	rr = httptest.NewRecorder()
	ReviewStats(rs).ServeHTTP(rr, setupReq(http.MethodGet, "/v1/admin/seed-reviews", "", nil, "admin-1"))
	var statsResp reviewStatsResponse
	if err := json.NewDecoder(rr.Body).Decode(&statsResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if statsResp.Stats.TotalReviews != 5 || statsResp.Stats.VerifiedReviews != 3 || statsResp.Stats.CommunityReviews != 2 {
		t.Fatalf("unexpected stats: %+v", statsResp.Stats)
	}

	rr = httptest.NewRecorder()
	ClearTestReviews(rs).ServeHTTP(rr, setupReq(http.MethodDelete, "/v1/admin/seed-reviews", "", nil, "admin-1"))
	var clearResp clearTestReviewsResponse
	if err := json.NewDecoder(rr.Body).Decode(&clearResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if clearResp.DeletedCount != 5 {
		t.Fatalf("expected 5 deleted, got %d", clearResp.DeletedCount)
	}
}
