// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/models"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestPredictor(movies []models.Movie, rnd RandomSource) *Predictor {
	return New(catalog.NewStatic(movies), rnd, WithClock(fixedClock))
}

func genres(names ...string) []models.Genre {
	out := make([]models.Genre, len(names))
	for i, n := range names {
		out[i] = models.Genre{ID: i + 1, Name: n}
	}
	return out
}

func TestPopularity_NewActionRelease(t *testing.T) {
	t.Parallel()
	m := models.Movie{ID: 1, Title: "Launch", Genres: genres("Action"), Rating: 8, ReleaseDate: "2026-06-15"}
	p := newTestPredictor([]models.Movie{m}, FixedSource(0))

	got, err := p.Popularity(context.Background(), 1)
	if err != nil {
		t.Fatalf("Popularity() error = %v", err)
	}
	if got.Trend != TrendRising {
		t.Errorf("Trend = %s, want rising", got.Trend)
	}
	// 90 recency + 16 genre + 40 rating clamps to 100.
	if got.Score != 100 {
		t.Errorf("Score = %v, want 100", got.Score)
	}
	if got.DaysSinceRelease == nil || *got.DaysSinceRelease != 0 {
		t.Errorf("DaysSinceRelease = %v, want 0", got.DaysSinceRelease)
	}
	if got.Text == "" {
		t.Error("Text should not be empty")
	}
}

func TestRecencyScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		days int
		want float64
	}{
		{-100, 50},
		{-10, 75},
		{0, 90},
		{29, 61},
		{30, 60},
		{89, 30.5},
		{90, 30},
		{180, 27},
		{5000, 0},
	}
	for _, tt := range tests {
		if got := recencyScore(tt.days); got != tt.want {
			t.Errorf("recencyScore(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestBaseScore_UnknownDate(t *testing.T) {
	t.Parallel()
	if got := BaseScore(models.Movie{ReleaseDate: "someday"}, testNow); got != 0 {
		t.Errorf("BaseScore = %v, want 0", got)
	}
}

func TestPopularity_Bounds(t *testing.T) {
	t.Parallel()
	movies := []models.Movie{
		{ID: 1, ReleaseDate: "2026-07-15"},
		{ID: 2, ReleaseDate: "1990-01-01"},
		{ID: 3, Genres: genres("Action", "Science Fiction"), Rating: 10, ReleaseDate: "2026-06-10"},
		{ID: 4, ReleaseDate: "2030-01-01", Rating: 10, Genres: genres("Action")},
	}
	for _, rnd := range []FixedSource{0, 0.999} {
		p := newTestPredictor(movies, rnd)
		for _, m := range movies {
			got := p.PopularityFor(m)
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("movie %d: Score %v out of [0,100]", m.ID, got.Score)
			}
		}
	}

	p := newTestPredictor(movies, FixedSource(0))
	upcoming := p.PopularityFor(movies[0])
	if upcoming.Score != 65 || upcoming.Trend != TrendRising {
		t.Errorf("upcoming = %+v, want score 65 and rising", upcoming)
	}
	if *upcoming.DaysSinceRelease != -30 {
		t.Errorf("DaysSinceRelease = %d, want -30", *upcoming.DaysSinceRelease)
	}
	if old := p.PopularityFor(movies[1]); old.Score != 0 || old.Trend != TrendFalling {
		t.Errorf("old = %+v, want score 0 and falling", old)
	}
}

func TestTrend(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		days   int
		known  bool
		rating float64
		want   string
	}{
		{"unknown date", 0, false, 9, TrendFalling},
		{"upcoming", -3, true, 0, TrendRising},
		{"fresh strong", 5, true, 4, TrendRising},
		{"fresh weak", 5, true, 2, TrendFalling},
		{"fresh middling", 5, true, 3, TrendStable},
		{"month strong", 30, true, 4.5, TrendRising},
		{"month weak", 30, true, 3, TrendFalling},
		{"month middling", 30, true, 4, TrendStable},
		{"old", 60, true, 9, TrendFalling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trend(models.Movie{Rating: tt.rating}, tt.days, tt.known); got != tt.want {
				t.Errorf("trend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenreBonus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		genres []models.Genre
		want   float64
	}{
		{"none", nil, 0},
		{"single", genres("Action"), 16},
		{"average", genres("Action", "Drama"), 14.5},
		{"unknown", genres("Noir"), 10},
		{"case insensitive", genres("HORROR"), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := genreBonus(models.Movie{Genres: tt.genres}); got != tt.want {
				t.Errorf("genreBonus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxOffice(t *testing.T) {
	t.Parallel()
	m := models.Movie{ID: 7, Genres: genres("Action"), Rating: 10, ReleaseDate: "2026-04-03"}
	p := newTestPredictor([]models.Movie{m}, FixedSource(0.5))

	got, err := p.BoxOffice(context.Background(), 7)
	if err != nil {
		t.Fatalf("BoxOffice() error = %v", err)
	}
	// 150M x 1.9 rating x 1.0 cast x 1.0 April.
	if got.PredictedRevenue != 285e6 {
		t.Errorf("PredictedRevenue = %v, want 285e6", got.PredictedRevenue)
	}
	if math.Abs(got.Range.Lower-228e6) > 1 || math.Abs(got.Range.Upper-342e6) > 1 {
		t.Errorf("Range = %+v, want 228M-342M", got.Range)
	}
	if math.Mod(got.PredictedRevenue, 1e6) != 0 {
		t.Error("revenue should be rounded to the nearest million")
	}
}

func TestBoxOffice_Defaults(t *testing.T) {
	t.Parallel()
	p := newTestPredictor(nil, FixedSource(0))
	got := p.BoxOfficeFor(models.Movie{Genres: genres("Noir")})
	// 50M x 0.7 x 0.8 x 1.0 for an unknown release month.
	if got.PredictedRevenue != 28e6 {
		t.Errorf("PredictedRevenue = %v, want 28e6", got.PredictedRevenue)
	}
}

func TestSeasonal(t *testing.T) {
	t.Parallel()
	if got := seasonal(models.Movie{ReleaseDate: "2026-07-04"}); got != 1.3 {
		t.Errorf("July = %v, want 1.3", got)
	}
	if got := seasonal(models.Movie{}); got != 1 {
		t.Errorf("unknown = %v, want 1", got)
	}
}

func TestDemographics(t *testing.T) {
	t.Parallel()
	p := newTestPredictor(nil, FixedSource(0))

	action := p.DemographicsFor(models.Movie{Genres: genres("Action")})
	if action.Gender["male"] != 55 || action.Gender["female"] != 45 {
		t.Errorf("Gender = %v, want 55/45", action.Gender)
	}
	wantAge := map[string]int{"18-24": 22, "25-34": 31, "35-44": 24, "45-54": 14, "55+": 9}
	for k, v := range wantAge {
		if action.Age[k] != v {
			t.Errorf("Age[%s] = %d, want %d", k, action.Age[k], v)
		}
	}

	base := p.DemographicsFor(models.Movie{})
	if base.Gender["male"] != 50 || base.Age["25-34"] != 30 || base.Age["55+"] != 10 {
		t.Errorf("baseline = %+v", base)
	}

	romance := p.DemographicsFor(models.Movie{Genres: genres("Romance", "Drama")})
	if romance.Gender["female"] <= romance.Gender["male"] {
		t.Errorf("romance/drama should skew female, got %v", romance.Gender)
	}
}

func TestDemographics_SumTo100(t *testing.T) {
	t.Parallel()
	p := newTestPredictor(nil, FixedSource(0))

	cases := [][]models.Genre{nil, genres("Horror", "Horror", "Horror", "Horror", "Horror", "Horror")}
	for name := range genreDemographics {
		cases = append(cases, genres(name))
	}
	cases = append(cases, genres("Action", "Romance", "Family", "Documentary", "War"))

	for _, g := range cases {
		d := p.DemographicsFor(models.Movie{Genres: g})
		for _, dist := range []map[string]int{d.Gender, d.Age} {
			sum := 0
			for k, v := range dist {
				if v < 0 {
					t.Errorf("genres %v: %s = %d is negative", g, k, v)
				}
				sum += v
			}
			if sum != 100 {
				t.Errorf("genres %v: %v sums to %d", g, dist, sum)
			}
		}
	}
}

func TestPercentages_AllZero(t *testing.T) {
	t.Parallel()
	got := percentages([]float64{-5, 0, 0})
	if got[0] != 100 || got[1] != 0 || got[2] != 0 {
		t.Errorf("percentages = %v, want [100 0 0]", got)
	}
}

func TestDeterminism_FixedSource(t *testing.T) {
	t.Parallel()
	m := models.Movie{ID: 3, Genres: genres("Comedy"), Rating: 6.4, ReleaseDate: "2026-05-01"}

	a := newTestPredictor(nil, FixedSource(0.3))
	b := newTestPredictor(nil, FixedSource(0.3))
	if a.PopularityFor(m).Score != b.PopularityFor(m).Score {
		t.Error("popularity differs with the same fixed source")
	}
	if a.BoxOfficeFor(m).PredictedRevenue != b.BoxOfficeFor(m).PredictedRevenue {
		t.Error("box office differs with the same fixed source")
	}
}

func TestSeededSource_Reproducible(t *testing.T) {
	t.Parallel()
	a, b := NewSeededSource(42), NewSeededSource(42)
	for i := 0; i < 5; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d: %v out of [0,1)", i, x)
		}
	}
}
