package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/summary"
)

type summaryResponse struct {
	Summary string `json:"summary"`
}

// ReviewSummary handles GET /v1/songs/{song_id}/reviews-summary.
// The response is always 200; an empty summary means none is available.
func ReviewSummary(gen *summary.Generator, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songID := strings.TrimSpace(chi.URLParam(r, "song_id"))
		if songID == "" {
			api.BadRequest(w, "MISSING_ID", "song_id is required", "", nil)
			return
		}

		text := gen.Summarize(r.Context(), songID)
		if text != "" {
			pub.Publish(analytics.SubjectSummaryGenerated, "summary_generated", "", map[string]any{
				"song_id": songID,
			})
		}
		api.WriteJSON(w, http.StatusOK, summaryResponse{Summary: text})
	}
}
