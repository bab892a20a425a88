// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import (
	"context"
	"math"
	"strings"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Demographics is the expected audience split. Both maps hold integer
// percentages that sum to exactly 100.
type Demographics struct {
	MovieID int            `json:"movie_id"`
	Gender  map[string]int `json:"gender"`
	Age     map[string]int `json:"age"`
}

// Demographics predicts the audience of the catalog movie movieID.
func (p *Predictor) Demographics(ctx context.Context, movieID int) (Demographics, error) {
	m, err := p.movie(ctx, movieID)
	if err != nil {
		return Demographics{}, err
	}
	return p.DemographicsFor(m), nil
}

// DemographicsFor applies every matching genre adjustment to the baseline
// audience and renormalizes.
func (p *Predictor) DemographicsFor(m models.Movie) Demographics {
	gender := append([]float64(nil), baseGender...)
	age := append([]float64(nil), baseAge...)

	for _, g := range m.Genres {
		adj, ok := genreDemographics[strings.ToLower(g.Name)]
		if !ok {
			continue
		}
		for i := range gender {
			gender[i] += adj.gender[i]
		}
		for i := range age {
			age[i] += adj.age[i]
		}
	}

	metrics.PredictionsTotal.WithLabelValues("demographics").Inc()
	return Demographics{
		MovieID: m.ID,
		Gender:  labeled(genderBuckets, percentages(gender)),
		Age:     labeled(ageBuckets, percentages(age)),
	}
}

// baselineDemographics is the unadjusted audience.
func baselineDemographics(movieID int) Demographics {
	return Demographics{
		MovieID: movieID,
		Gender:  labeled(genderBuckets, percentages(baseGender)),
		Age:     labeled(ageBuckets, percentages(baseAge)),
	}
}

// percentages scales weights to integer percentages summing to 100.
// Negative weights count as zero; the rounding remainder goes to the largest
// bucket (first on ties).
func percentages(weights []float64) []int {
	out := make([]int, len(weights))
	if len(weights) == 0 {
		return out
	}

	clamped := make([]float64, len(weights))
	var total float64
	largest := 0
	for i, w := range weights {
		clamped[i] = math.Max(w, 0)
		total += clamped[i]
		if clamped[i] > clamped[largest] {
			largest = i
		}
	}
	if total == 0 {
		out[0] = 100
		return out
	}

	sum := 0
	for i, w := range clamped {
		out[i] = int(math.Floor(w * 100 / total))
		sum += out[i]
	}
	out[largest] += 100 - sum
	return out
}

func labeled(names []string, values []int) map[string]int {
	m := make(map[string]int, len(names))
	for i, name := range names {
		m[name] = values[i]
	}
	return m
}
