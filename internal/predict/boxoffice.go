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

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// revenueSpread is the half-width of the revenue range.
const revenueSpread = 0.2

// RevenueRange bounds a revenue estimate.
type RevenueRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// BoxOffice is a domestic gross estimate in USD.
type BoxOffice struct {
	MovieID          int          `json:"movie_id"`
	PredictedRevenue float64      `json:"predicted_revenue"`
	Range            RevenueRange `json:"range"`
	Text             string       `json:"text"`
}

// BoxOffice predicts the gross of the catalog movie movieID.
func (p *Predictor) BoxOffice(ctx context.Context, movieID int) (BoxOffice, error) {
	m, err := p.movie(ctx, movieID)
	if err != nil {
		return BoxOffice{}, err
	}
	return p.BoxOfficeFor(m), nil
}

// BoxOfficeFor predicts the gross of m. The estimate is the genre base
// scaled by rating, cast/director draw and release month, rounded to the
// nearest million.
func (p *Predictor) BoxOfficeFor(m models.Movie) BoxOffice {
	revenue := baseRevenue(m)
	revenue *= 0.7 + m.Rating/5*0.6
	revenue *= 0.8 + p.rand.Float64()*0.4
	revenue *= seasonal(m)
	revenue = math.Round(revenue/1e6) * 1e6

	out := BoxOffice{
		MovieID:          m.ID,
		PredictedRevenue: revenue,
		Range: RevenueRange{
			Lower: revenue * (1 - revenueSpread),
			Upper: revenue * (1 + revenueSpread),
		},
	}
	out.Text = fmt.Sprintf("Projected domestic gross of %s (range %s to %s).",
		millions(out.PredictedRevenue), millions(out.Range.Lower), millions(out.Range.Upper))

	metrics.PredictionsTotal.WithLabelValues("box_office").Inc()
	return out
}

// baseRevenue averages genreRevenue over the genres it knows.
func baseRevenue(m models.Movie) float64 {
	var sum float64
	var n int
	for _, g := range m.Genres {
		if v, ok := genreRevenue[strings.ToLower(g.Name)]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return defaultRevenue
	}
	return sum / float64(n)
}

func seasonal(m models.Movie) float64 {
	released, ok := m.Released()
	if !ok {
		return 1
	}
	return seasonalMultiplier[released.Month()]
}

func millions(v float64) string {
	return fmt.Sprintf("$%.1fM", v/1e6)
}
