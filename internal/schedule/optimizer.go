// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package schedule builds a one-day screening plan for a theater.
//
// The optimizer ranks the now-playing movies by predicted popularity, fills
// every hall and showtime round-robin from that ranking and scores the
// resulting plan. It is deterministic for a deterministic PopularityScorer.
package schedule

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// DefaultBaseTicketPrice is the standard ticket price in dollars.
const DefaultBaseTicketPrice = 10.0

// PopularityScorer predicts a 0-100 popularity score.
type PopularityScorer interface {
	PopularityScore(m models.Movie) float64
}

// Showing is one movie in one hall at one showtime.
type Showing struct {
	Hall                 string    `json:"hall"`
	Premium              bool      `json:"premium"`
	Slot                 string    `json:"slot"`
	StartsAt             time.Time `json:"starts_at"`
	MovieID              int       `json:"movie_id"`
	Title                string    `json:"title"`
	Duration             int       `json:"duration"`
	Popularity           float64   `json:"popularity"`
	Capacity             int       `json:"capacity"`
	ExpectedAttendance   int       `json:"expected_attendance"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	TicketPrice          float64   `json:"ticket_price"`
	ExpectedRevenue      float64   `json:"expected_revenue"`
}

// Metrics summarizes a plan.
type Metrics struct {
	TotalShowings        int     `json:"total_showings"`
	MoviesScheduled      int     `json:"movies_scheduled"`
	TotalCapacity        int     `json:"total_capacity"`
	TotalAttendance      int     `json:"total_attendance"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	TotalRevenue         float64 `json:"total_revenue"`
}

// Plan is a theater's schedule for one day.
type Plan struct {
	TheaterID       string           `json:"theater_id"`
	Date            string           `json:"date"`
	Schedule        []Showing        `json:"schedule"`
	Metrics         Metrics          `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Config tunes the optimizer.
type Config struct {
	BaseTicketPrice float64
	// Halls is the theater layout. Empty means DefaultHalls.
	Halls []Hall
}

// Optimizer builds schedules. It holds no mutable state.
type Optimizer struct {
	catalog   catalog.Provider
	scorer    PopularityScorer
	basePrice float64
	halls     []Hall
	logger    zerolog.Logger
}

// New creates an optimizer.
func New(provider catalog.Provider, scorer PopularityScorer, cfg Config) *Optimizer {
	if cfg.BaseTicketPrice <= 0 {
		cfg.BaseTicketPrice = DefaultBaseTicketPrice
	}
	halls := slices.Clone(cfg.Halls)
	if len(halls) == 0 {
		halls = slices.Clone(DefaultHalls)
	}
	return &Optimizer{
		catalog:   provider,
		scorer:    scorer,
		basePrice: cfg.BaseTicketPrice,
		halls:     halls,
		logger:    logging.WithComponent("schedule"),
	}
}

type candidate struct {
	movie      models.Movie
	popularity float64
}

// Optimize plans theaterID's screenings on date. Only the calendar date of
// date is used; showtimes are placed in date's location.
func (o *Optimizer) Optimize(ctx context.Context, theaterID string, date time.Time) (Plan, error) {
	movies, err := o.catalog.ListMovies(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("list movies: %w", err)
	}

	plan := Plan{
		TheaterID:       theaterID,
		Date:            date.Format(time.DateOnly),
		Schedule:        []Showing{},
		Recommendations: []Recommendation{},
	}

	ranked := o.rank(movies)
	if len(ranked) == 0 {
		plan.Recommendations = append(plan.Recommendations, Recommendation{
			Type:    RecommendationGeneral,
			Message: "No movies are currently playing; nothing to schedule.",
		})
		metrics.SchedulesOptimized.Inc()
		return plan, nil
	}

	plan.Schedule = o.assign(ranked, date)
	plan.Metrics = summarize(plan.Schedule)
	plan.Recommendations = recommend(o.halls, plan.Schedule, ranked, plan.Metrics)

	metrics.SchedulesOptimized.Inc()
	o.logger.Debug().
		Str("theater_id", theaterID).
		Str("date", plan.Date).
		Int("movies", len(ranked)).
		Int("attendance", plan.Metrics.TotalAttendance).
		Msg("Schedule optimized")
	return plan, nil
}

// rank scores the now-playing movies and sorts them by popularity,
// descending. Ties keep catalog order.
func (o *Optimizer) rank(movies []models.Movie) []candidate {
	var out []candidate
	for _, m := range movies {
		if m.Status != models.StatusNowPlaying {
			continue
		}
		out = append(out, candidate{movie: m, popularity: o.scorer.PopularityScore(m)})
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		switch {
		case a.popularity > b.popularity:
			return -1
		case a.popularity < b.popularity:
			return 1
		default:
			return 0
		}
	})
	return out
}

// assign fills every hall and slot. Slot index i = hall*len(Slots)+slot takes
// ranked[i % n]; premium halls take ranked[i % min(3, n)].
func (o *Optimizer) assign(ranked []candidate, date time.Time) []Showing {
	n := len(ranked)
	pool := min(premiumPool, n)
	y, mo, d := date.Date()

	showings := make([]Showing, 0, len(o.halls)*len(Slots))
	for h, hall := range o.halls {
		for s, slot := range Slots {
			i := h*len(Slots) + s
			c := ranked[i%n]
			if hall.Premium {
				c = ranked[i%pool]
			}
			showings = append(showings, o.showing(hall, slot, c, time.Date(y, mo, d, slot.Hour, slot.Minute, 0, 0, date.Location())))
		}
	}
	return showings
}

func (o *Optimizer) showing(hall Hall, slot Slot, c candidate, startsAt time.Time) Showing {
	attendance := expectedAttendance(hall, slot, c.popularity)
	price := ticketPrice(o.basePrice, hall, slot)
	duration := c.movie.Duration
	if duration <= 0 {
		duration = defaultDuration
	}
	return Showing{
		Hall:                 hall.Name,
		Premium:              hall.Premium,
		Slot:                 slot.Name,
		StartsAt:             startsAt,
		MovieID:              c.movie.ID,
		Title:                c.movie.Title,
		Duration:             duration,
		Popularity:           c.popularity,
		Capacity:             hall.Capacity,
		ExpectedAttendance:   attendance,
		AttendancePercentage: percent(attendance, hall.Capacity),
		TicketPrice:          price,
		ExpectedRevenue:      float64(attendance) * price,
	}
}

// defaultDuration is used for movies without a runtime, in minutes.
const defaultDuration = 120

func expectedAttendance(hall Hall, slot Slot, popularity float64) int {
	return int(math.Round(float64(hall.Capacity) * popularity / 100 * slot.Weight))
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func summarize(showings []Showing) Metrics {
	var m Metrics
	movies := map[int]struct{}{}
	for _, s := range showings {
		m.TotalShowings++
		m.TotalCapacity += s.Capacity
		m.TotalAttendance += s.ExpectedAttendance
		m.TotalRevenue += s.ExpectedRevenue
		movies[s.MovieID] = struct{}{}
	}
	m.MoviesScheduled = len(movies)
	m.AttendancePercentage = percent(m.TotalAttendance, m.TotalCapacity)
	return m
}
