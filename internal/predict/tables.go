// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import "time"

// genrePopularity rates audience appetite per genre on a 0-10 scale.
var genrePopularity = map[string]float64{
	"action":          8,
	"adventure":       7.5,
	"animation":       7,
	"comedy":          7,
	"crime":           6,
	"documentary":     4,
	"drama":           6.5,
	"family":          6.5,
	"fantasy":         7,
	"history":         5,
	"horror":          6.5,
	"music":           5,
	"mystery":         6,
	"romance":         6,
	"science fiction": 8,
	"sci-fi":          8,
	"thriller":        7,
	"war":             5,
	"western":         4,
}

// unknownGenrePopularity is used for genres missing from genrePopularity.
const unknownGenrePopularity = 5

// genreRevenue is the typical domestic gross per genre in USD.
var genreRevenue = map[string]float64{
	"action":          150e6,
	"adventure":       140e6,
	"animation":       120e6,
	"science fiction": 130e6,
	"sci-fi":          130e6,
	"fantasy":         110e6,
	"family":          90e6,
	"comedy":          60e6,
	"thriller":        55e6,
	"crime":           45e6,
	"mystery":         45e6,
	"horror":          40e6,
	"romance":         40e6,
	"war":             40e6,
	"drama":           35e6,
	"history":         30e6,
	"western":         30e6,
	"music":           25e6,
	"documentary":     10e6,
}

// defaultRevenue is the base when no genre is in genreRevenue.
const defaultRevenue = 50e6

// seasonalMultiplier by release month; summer and holidays peak.
var seasonalMultiplier = map[time.Month]float64{
	time.January:   0.8,
	time.February:  0.85,
	time.March:     0.95,
	time.April:     1.0,
	time.May:       1.15,
	time.June:      1.25,
	time.July:      1.3,
	time.August:    1.15,
	time.September: 0.85,
	time.October:   0.95,
	time.November:  1.1,
	time.December:  1.2,
}

// Demographic bucket order. Index positions are shared with the
// adjustment tables below.
var (
	genderBuckets = []string{"male", "female"}
	ageBuckets    = []string{"18-24", "25-34", "35-44", "45-54", "55+"}

	baseGender = []float64{50, 50}
	baseAge    = []float64{20, 30, 25, 15, 10}
)

type demographicAdjustment struct {
	gender [2]float64
	age    [5]float64
}

// genreDemographics holds additive percentage-point shifts per genre.
var genreDemographics = map[string]demographicAdjustment{
	"action":          {gender: [2]float64{5, 0}, age: [5]float64{3, 0, 0, 0, 0}},
	"science fiction": {gender: [2]float64{5, 0}, age: [5]float64{3, 0, 0, 0, 0}},
	"sci-fi":          {gender: [2]float64{5, 0}, age: [5]float64{3, 0, 0, 0, 0}},
	"romance":         {gender: [2]float64{0, 8}, age: [5]float64{0, 2, 0, 0, 0}},
	"family":          {gender: [2]float64{0, 3}, age: [5]float64{-3, 0, 5, 0, 0}},
	"horror":          {gender: [2]float64{2, 0}, age: [5]float64{6, 0, 0, -2, -3}},
	"drama":           {gender: [2]float64{0, 4}, age: [5]float64{0, 0, 0, 3, 3}},
	"documentary":     {age: [5]float64{-2, 0, 0, 3, 4}},
	"comedy":          {age: [5]float64{2, 2, 0, 0, 0}},
	"thriller":        {gender: [2]float64{3, 0}, age: [5]float64{0, 2, 2, 0, 0}},
	"war":             {gender: [2]float64{6, 0}, age: [5]float64{0, 0, 0, 0, 4}},
	"history":         {gender: [2]float64{3, 0}, age: [5]float64{0, 0, 0, 0, 5}},
	"music":           {gender: [2]float64{0, 3}, age: [5]float64{4, 0, 0, 0, 0}},
	"animation":       {gender: [2]float64{0, 2}, age: [5]float64{-1, 0, 2, 0, 0}},
}
