// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Trend directions.
const (
	TrendRising  = "rising"
	TrendStable  = "stable"
	TrendFalling = "falling"
)

// Popularity is the predicted audience interest in a movie.
type Popularity struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
	Trend   string  `json:"trend"`
	Text    string  `json:"text"`

	// DaysSinceRelease is negative for upcoming movies and nil when the
	// release date is unknown.
	DaysSinceRelease *int `json:"days_since_release,omitempty"`
}

// BaseScore is the deterministic recency component of the popularity score.
// Upcoming movies lose half a point per day until release, capped at 60 days.
// A movie without a usable release date scores 0.
func BaseScore(m models.Movie, now time.Time) float64 {
	d, ok := m.DaysSinceRelease(now)
	if !ok {
		return 0
	}
	return recencyScore(d)
}

func recencyScore(d int) float64 {
	days := float64(d)
	switch {
	case d < 0:
		return 80 - math.Min(-days, 60)/2
	case d < 30:
		return 90 - days
	case d < 90:
		return 60 - (days-30)/2
	default:
		return math.Max(30-(days-90)/30, 0)
	}
}

// genreBonus averages the genre popularity table over m's genres and scales
// it to 0-20. Genres missing from the table count as unknownGenrePopularity.
func genreBonus(m models.Movie) float64 {
	if len(m.Genres) == 0 {
		return 0
	}
	var sum float64
	for _, g := range m.Genres {
		v, ok := genrePopularity[strings.ToLower(g.Name)]
		if !ok {
			v = unknownGenrePopularity
		}
		sum += v
	}
	return sum / float64(len(m.Genres)) * 2
}

func trend(m models.Movie, d int, known bool) string {
	switch {
	case !known:
		return TrendFalling
	case d < 0:
		return TrendRising
	case d < 14:
		return ratingTrend(m.Rating, 4, 2)
	case d < 60:
		return ratingTrend(m.Rating, 4.5, 3)
	default:
		return TrendFalling
	}
}

func ratingTrend(rating, rising, falling float64) string {
	switch {
	case rating >= rising:
		return TrendRising
	case rating <= falling:
		return TrendFalling
	default:
		return TrendStable
	}
}

// Popularity predicts the popularity of the catalog movie movieID.
func (p *Predictor) Popularity(ctx context.Context, movieID int) (Popularity, error) {
	m, err := p.movie(ctx, movieID)
	if err != nil {
		return Popularity{}, err
	}
	return p.PopularityFor(m), nil
}

// PopularityFor predicts the popularity of m without a catalog lookup.
func (p *Predictor) PopularityFor(m models.Movie) Popularity {
	d, known := m.DaysSinceRelease(p.now())

	score := genreBonus(m) + m.Rating*5 + p.rand.Float64()*20
	if known {
		score += recencyScore(d)
	}
	score = math.Max(0, math.Min(100, score))

	out := Popularity{
		MovieID: m.ID,
		Score:   math.Round(score*10) / 10,
		Trend:   trend(m, d, known),
	}
	if known {
		out.DaysSinceRelease = &d
	}
	out.Text = popularityText(m.Title, out.Score, out.Trend)

	metrics.PredictionsTotal.WithLabelValues("popularity").Inc()
	return out
}

// PopularityScore implements the schedule optimizer's scorer.
func (p *Predictor) PopularityScore(m models.Movie) float64 {
	return p.PopularityFor(m).Score
}

func popularityText(title string, score float64, trend string) string {
	var level string
	switch {
	case score >= 80:
		level = "very high"
	case score >= 60:
		level = "high"
	case score >= 40:
		level = "moderate"
	default:
		level = "low"
	}
	if title == "" {
		title = "This movie"
	}
	return fmt.Sprintf("%s is expected to draw %s audience interest (%.0f/100), and demand is %s.",
		title, level, score, trend)
}
