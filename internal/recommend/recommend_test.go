// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/models"
)

var (
	horror      = models.Genre{ID: 27, Name: "Horror"}
	thriller    = models.Genre{ID: 53, Name: "Thriller"}
	action      = models.Genre{ID: 28, Name: "Action"}
	scifi       = models.Genre{ID: 878, Name: "Science Fiction"}
	family      = models.Genre{ID: 10751, Name: "Family"}
	comedy      = models.Genre{ID: 35, Name: "Comedy"}
	documentary = models.Genre{ID: 99, Name: "Documentary"}
)

func testMovies() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "Night Signal", Genres: []models.Genre{horror, thriller}, Rating: 7.5, Director: "Ridley", Cast: []string{"Cara"}, ReleaseDate: "2025-10-01", Duration: 117},
		{ID: 2, Title: "Orbit Run", Genres: []models.Genre{action, scifi}, Rating: 8, Director: "Kim", Cast: []string{"Ana", "Ben"}, ReleaseDate: "2026-05-20", Duration: 140},
		{ID: 3, Title: "Picnic", Genres: []models.Genre{family, comedy}, Rating: 6, ReleaseDate: "2024-01-01", Duration: 95},
		{ID: 4, Title: "Orbit Run 2", Genres: []models.Genre{action, scifi}, Rating: 8, Director: "Kim", Cast: []string{"ana ", "Ben"}, ReleaseDate: "2026-03-01", Duration: 150},
		{ID: 5, Title: "Quiet Water", Genres: []models.Genre{documentary}, Rating: 7, ReleaseDate: "2020-01-01", Duration: 90},
	}
}

// countingProvider counts catalog calls and can be switched to fail.
type countingProvider struct {
	inner catalog.Provider
	lists atomic.Int32
	gets  atomic.Int32
	fail  atomic.Bool
}

var errCatalogDown = errors.New("catalog down")

func (p *countingProvider) ListMovies(ctx context.Context) ([]models.Movie, error) {
	p.lists.Add(1)
	if p.fail.Load() {
		return nil, errCatalogDown
	}
	return p.inner.ListMovies(ctx)
}

func (p *countingProvider) GetMovie(ctx context.Context, id int) (models.Movie, error) {
	p.gets.Add(1)
	if p.fail.Load() {
		return models.Movie{}, errCatalogDown
	}
	return p.inner.GetMovie(ctx, id)
}

func (p *countingProvider) calls() int32 {
	return p.lists.Load() + p.gets.Load()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	rec      *Recommender
	store    *interactions.MemoryStore
	provider *countingProvider
	clock    *fakeClock
}

// Monday 2026-06-15, 14:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, time.June, 15, 14, 0, 0, 0, time.UTC)}
	provider := &countingProvider{inner: catalog.NewStatic(testMovies())}
	store := interactions.NewMemoryStore(0)
	rec := New(provider, store, DefaultConfig(), WithClock(clock.Now))
	return &fixture{rec: rec, store: store, provider: provider, clock: clock}
}

func (f *fixture) track(t *testing.T, userID string, typ models.InteractionType, movieID int, data map[string]any) {
	t.Helper()
	in := models.Interaction{
		UserID:    userID,
		MovieID:   models.IntPtr(movieID),
		Type:      typ,
		Timestamp: f.clock.Now(),
		Data:      data,
	}
	if err := f.store.Append(context.Background(), in); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func ids(movies []models.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestGenrePreferences_NoInteractions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got := f.rec.GenrePreferences(context.Background(), "u1")
	if got.Genres == nil || len(got.Genres) != 0 {
		t.Errorf("Genres = %v, want empty non-nil", got.Genres)
	}
	if got.TopGenre != nil {
		t.Errorf("TopGenre = %q, want nil", *got.TopGenre)
	}
	if got.DiversityScore != 0 {
		t.Errorf("DiversityScore = %v, want 0", got.DiversityScore)
	}
}

func TestGenrePreferences(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)
	f.track(t, "u1", models.InteractionBook, 1, nil)
	f.track(t, "u1", models.InteractionRate, 3, map[string]any{"rating": 4.0})
	f.track(t, "u1", models.InteractionLike, 5, nil)
	f.track(t, "u2", models.InteractionBook, 5, nil)

	got := f.rec.GenrePreferences(context.Background(), "u1")

	wantNames := []string{"Horror", "Thriller", "Family", "Comedy", "Action", "Science Fiction"}
	wantPct := []float64{25, 25, 20, 20, 5, 5}
	if len(got.Genres) != len(wantNames) {
		t.Fatalf("Genres = %+v, want %d entries", got.Genres, len(wantNames))
	}
	var sum float64
	for i, g := range got.Genres {
		if g.Name != wantNames[i] || math.Abs(g.Percentage-wantPct[i]) > 1e-9 {
			t.Errorf("Genres[%d] = %+v, want %s %.0f%%", i, g, wantNames[i], wantPct[i])
		}
		sum += g.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v", sum)
	}
	if got.TopGenre == nil || *got.TopGenre != "Horror" {
		t.Errorf("TopGenre = %v, want Horror", got.TopGenre)
	}
	if got.DiversityScore <= 0.9 || got.DiversityScore > 1 {
		t.Errorf("DiversityScore = %v, want in (0.9, 1]", got.DiversityScore)
	}
}

func TestGenrePreferences_SkipsMissingMovies(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 404, nil)
	f.track(t, "u1", models.InteractionView, 5, nil)

	got := f.rec.GenrePreferences(context.Background(), "u1")
	if len(got.Genres) != 1 || got.Genres[0].Percentage != 100 {
		t.Errorf("Genres = %+v, want Documentary at 100%%", got.Genres)
	}
	if got.DiversityScore != 0 {
		t.Errorf("DiversityScore = %v, want 0 for a single genre", got.DiversityScore)
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()
	movies := testMovies()
	a, b := movies[1], movies[3]

	if got := Similarity(a, b); math.Abs(got-8.5) > 1e-9 {
		t.Errorf("Similarity with full cast overlap = %v, want 8.5", got)
	}

	a.Cast, b.Cast = nil, nil
	if got := Similarity(a, b); math.Abs(got-6.5) > 1e-9 {
		t.Errorf("Similarity without cast = %v, want 6.5", got)
	}

	a.Cast = []string{"Ana", "Zed"}
	b.Cast = []string{"ANA"}
	if got := Similarity(a, b); math.Abs(got-7.5) > 1e-9 {
		t.Errorf("Similarity with half cast overlap = %v, want 7.5", got)
	}
}

func TestSimilarity_YearGap(t *testing.T) {
	t.Parallel()
	ref := models.Movie{ReleaseDate: "2020-01-01"}
	tests := []struct {
		date string
		want float64
	}{
		{"2020-12-31", 1.5},
		{"2022-06-01", 1.3},
		{"2025-01-01", 1.0},
		{"2026-01-01", 1.0},
		{"", 1.0},
	}
	for _, tt := range tests {
		got := Similarity(ref, models.Movie{ReleaseDate: tt.date})
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(year %q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestContentBased(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got := ids(f.rec.ContentBased(context.Background(), 2, 3))
	if want := []int{4, 1, 3}; !slices.Equal(got, want) {
		t.Errorf("ContentBased(2) = %v, want %v", got, want)
	}
}

func TestContentBased_UnknownMovie(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got := f.rec.ContentBased(context.Background(), 404, 3)
	if got == nil || len(got) != 0 {
		t.Errorf("ContentBased(404) = %v, want empty", got)
	}
}

func TestCollaborative(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)

	got := ids(f.rec.Collaborative(context.Background(), "u1", 10))
	// Movie 4 shares both genres; the rest score 0 and keep catalog order.
	if want := []int{4, 1, 3, 5}; !slices.Equal(got, want) {
		t.Errorf("Collaborative = %v, want %v", got, want)
	}

	first, err := f.rec.collaborative(context.Background(), "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.rec.collaborative(context.Background(), "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids(first), ids(second)) {
		t.Error("collaborative scoring should be deterministic")
	}
}

func TestCollaborative_ExcludesEverySeenMovie(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)
	f.track(t, "u1", models.InteractionBookmark, 4, nil)

	got := ids(f.rec.Collaborative(context.Background(), "u1", 10))
	if slices.Contains(got, 2) || slices.Contains(got, 4) {
		t.Errorf("Collaborative = %v, want movies 2 and 4 excluded", got)
	}
}

func TestCollaborative_NoWeights(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionLike, 2, nil)

	if got := f.rec.Collaborative(context.Background(), "u1", 10); len(got) != 0 {
		t.Errorf("Collaborative = %v, want empty without weighted interactions", ids(got))
	}
}

func TestTrending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got := ids(f.rec.Trending(context.Background(), 10))
	if want := []int{2, 4, 1, 5, 3}; !slices.Equal(got, want) {
		t.Errorf("Trending = %v, want %v", got, want)
	}
}

func TestHybrid_ColdStartFallsBackToTrending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got := ids(f.rec.Hybrid(context.Background(), "newcomer", 3))
	if want := []int{2, 4, 1}; !slices.Equal(got, want) {
		t.Errorf("Hybrid cold start = %v, want trending %v", got, want)
	}
}

func TestHybrid(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)

	got := ids(f.rec.Hybrid(context.Background(), "u1", 3))
	if want := []int{4, 1, 3}; !slices.Equal(got, want) {
		t.Errorf("Hybrid = %v, want %v", got, want)
	}
	if slices.Contains(got, 2) {
		t.Error("Hybrid should not return the seed movie")
	}
}

func TestContextBonus(t *testing.T) {
	t.Parallel()
	movies := testMovies()
	saturdayNight := time.Date(2026, time.June, 20, 21, 0, 0, 0, time.UTC)
	mondayNoon := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, time.June, 15, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		movie models.Movie
		now   time.Time
		want  float64
	}{
		{"evening genre at night", movies[0], saturdayNight, 0.2},
		{"evening genre after midnight", movies[0], earlyMorning, 0.2},
		{"evening genre at noon", movies[0], mondayNoon, 0},
		{"day genre at noon", movies[2], mondayNoon, 0.2},
		{"day genre at night", movies[2], saturdayNight, 0},
		{"long action on weekend night", movies[3], saturdayNight, 0.3},
		{"long action on weekday noon", movies[3], mondayNoon, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contextBonus(tt.movie, tt.now); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("contextBonus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankContribution(t *testing.T) {
	t.Parallel()
	if got := rankContribution(0, 4); got != 1 {
		t.Errorf("head = %v, want 1", got)
	}
	if got := rankContribution(3, 4); got != 0.625 {
		t.Errorf("tail = %v, want 0.625", got)
	}
}

func TestCache_RepeatCallSkipsCatalog(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)
	ctx := context.Background()

	first := f.rec.Hybrid(ctx, "u1", 3)
	calls := f.provider.calls()
	if calls == 0 {
		t.Fatal("first call should hit the catalog")
	}

	f.clock.Advance(29 * time.Minute)
	second := f.rec.Hybrid(ctx, "u1", 3)
	if f.provider.calls() != calls {
		t.Errorf("catalog called %d more times within the TTL", f.provider.calls()-calls)
	}
	if !slices.Equal(ids(first), ids(second)) {
		t.Errorf("cached result %v differs from %v", ids(second), ids(first))
	}

	f.clock.Advance(2 * time.Minute)
	f.rec.Hybrid(ctx, "u1", 3)
	if f.provider.calls() == calls {
		t.Error("expired entry should be recomputed")
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	got := f.rec.Trending(ctx, 2)
	got[0].Title = "mutated"
	if again := f.rec.Trending(ctx, 2); again[0].Title == "mutated" {
		t.Error("callers must not be able to mutate cached lists")
	}
}

func TestInvalidateUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)
	f.track(t, "u10", models.InteractionView, 3, nil)
	ctx := context.Background()

	f.rec.Hybrid(ctx, "u1", 3)
	f.rec.Collaborative(ctx, "u1", 5)
	f.rec.Collaborative(ctx, "u10", 5)
	f.rec.ContentBased(ctx, 2, 3)

	if removed := f.rec.InvalidateUser("u1"); removed < 2 {
		t.Errorf("InvalidateUser removed %d, want at least the hybrid and collaborative lists", removed)
	}

	calls := f.provider.calls()
	f.rec.Collaborative(ctx, "u10", 5)
	f.rec.ContentBased(ctx, 2, 3)
	if f.provider.calls() != calls {
		t.Error("other users' and movie lists should stay cached")
	}

	f.rec.Collaborative(ctx, "u1", 5)
	if f.provider.calls() == calls {
		t.Error("invalidated list should be recomputed")
	}
}

func TestInvalidateAll(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.rec.Trending(ctx, 5)
	f.rec.InvalidateAll()
	if f.rec.CacheStats().Keys != 0 {
		t.Errorf("Keys = %d after InvalidateAll", f.rec.CacheStats().Keys)
	}
}

func TestSweepCache(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.rec.Trending(ctx, 5)
	f.rec.ContentBased(ctx, 2, 3)
	if n := f.rec.SweepCache(); n != 0 {
		t.Errorf("SweepCache() = %d before expiry", n)
	}
	f.clock.Advance(31 * time.Minute)
	if n := f.rec.SweepCache(); n != 2 {
		t.Errorf("SweepCache() = %d, want 2", n)
	}
}

func TestFailuresReturnEmptyAndAreNotCached(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.track(t, "u1", models.InteractionView, 2, nil)
	f.provider.fail.Store(true)
	ctx := context.Background()

	if got := f.rec.Trending(ctx, 5); got == nil || len(got) != 0 {
		t.Errorf("Trending = %v, want empty", got)
	}
	if got := f.rec.Hybrid(ctx, "u1", 5); len(got) != 0 {
		t.Errorf("Hybrid = %v, want empty", got)
	}
	if got := f.rec.Collaborative(ctx, "u1", 5); len(got) != 0 {
		t.Errorf("Collaborative = %v, want empty", got)
	}

	f.provider.fail.Store(false)
	if got := f.rec.Trending(ctx, 5); len(got) != 5 {
		t.Errorf("Trending after recovery = %v, want 5 movies", ids(got))
	}
}
