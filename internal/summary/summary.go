// Package summary turns a song's reviews into a short AI-written digest.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/musiccritic/internal/store"
)

// TextGenerator produces text from a prompt. Satisfied by the gemini client.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator builds review summaries. Failures never propagate to callers;
// an empty string means no summary is available.
type Generator struct {
	Reviews store.ReviewStore
	Text    TextGenerator
	Timeout time.Duration
	Log     *zap.Logger
}

func New(reviews store.ReviewStore, text TextGenerator, timeout time.Duration, log *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{Reviews: reviews, Text: text, Timeout: timeout, Log: log}
}

// Summarize returns a digest of the song's reviews, or "" when the song has
// no reviews, no generator is configured, or generation fails.
func (g *Generator) Summarize(ctx context.Context, songID string) string {
	reviews, _, err := g.Reviews.ListForSong(ctx, songID)
	if err != nil {
		g.Log.Warn("summary: list reviews failed", zap.String("song_id", songID), zap.Error(err))
		return ""
	}
	if len(reviews) == 0 {
		return ""
	}
	if g.Text == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	text, err := g.Text.GenerateText(ctx, buildPrompt(reviews))
	if err != nil {
		g.Log.Warn("summary: generation failed", zap.String("song_id", songID), zap.Error(err))
		return ""
	}
	return text
}

func buildPrompt(reviews []store.Review) string {
	entries := make([]string, 0, len(reviews))
	for _, r := range reviews {
		text := ""
		if r.Text != nil {
			text = *r.Text
		}
		entries = append(entries, fmt.Sprintf("Rating: %d/5\nReview: %s", r.Rating, text))
	}

	return `Please provide a concise summary of these song reviews and their ratings. Focus on:
    1. The average sentiment (positive/negative)
    2. Common themes or patterns in the reviews
    3. Notable opinions that stand out
    4. The range of ratings and what they mean

    <output instructions>
    Only output the summary text. Do not include any other commentary or information.
    Only output the text in plaintext. Do not include Markdown or any other formatting languages.
    </output instructions>

    Here are the reviews:
    ` + strings.Join(entries, "\n\n")
}
