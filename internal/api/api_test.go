// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/predict"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/schedule"
	"github.com/tomtom215/marquee/internal/sentiment"
)

var testNow = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

func testCatalog() *catalog.Static {
	action := models.Genre{ID: 28, Name: "Action"}
	drama := models.Genre{ID: 18, Name: "Drama"}
	comedy := models.Genre{ID: 35, Name: "Comedy"}
	return catalog.NewStatic([]models.Movie{
		{ID: 1, Title: "Orbit Run", Genres: []models.Genre{action}, Rating: 8, ReleaseDate: "2026-05-20", Duration: 140, Status: models.StatusNowPlaying},
		{ID: 2, Title: "Harbor Lights", Genres: []models.Genre{drama}, Rating: 7, ReleaseDate: "2025-12-01", Duration: 110, Status: models.StatusNowPlaying},
		{ID: 3, Title: "Picnic", Genres: []models.Genre{comedy}, Rating: 6, ReleaseDate: "2024-01-01", Duration: 95},
	})
}

// unavailableProvider behaves like a catalog behind an open breaker.
type unavailableProvider struct{}

func (unavailableProvider) ListMovies(context.Context) ([]models.Movie, error) {
	return nil, fmt.Errorf("list movies: %w", catalog.ErrCircuitOpen)
}

func (unavailableProvider) GetMovie(_ context.Context, id int) (models.Movie, error) {
	return models.Movie{}, fmt.Errorf("get movie %d: %w", id, catalog.ErrCircuitOpen)
}

func newTestHandler(t *testing.T, provider catalog.Provider, cfg Config) *Handler {
	t.Helper()
	clock := func() time.Time { return testNow }

	store := interactions.NewMemoryStore(0)
	rec := recommend.New(provider, store, recommend.DefaultConfig(), recommend.WithClock(clock))
	tracker := interactions.NewTracker(store, nil).WithInvalidator(rec).WithClock(clock)
	analyzer := sentiment.NewLexiconAnalyzer(0)
	predictor := predict.New(provider, predict.FixedSource(0.5),
		predict.WithClock(clock), predict.WithAnalyzer(analyzer, 0))

	h := NewHandler(Services{
		Tracker:     tracker,
		Recommender: rec,
		Predictor:   predictor,
		Analyzer:    analyzer,
		Optimizer:   schedule.New(provider, predictor, schedule.Config{}),
	}, cfg)
	h.now = clock
	return h
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimitDisabled = true
	return cfg
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *Error          `json:"error"`
	Meta    Meta            `json:"meta"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v (body %q)", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealth(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", rec.Code, env.Success)
	}
	if env.Meta.RequestID == "" {
		t.Error("meta.request_id should be set")
	}
	if got := rec.Header().Get("X-Request-ID"); got != env.Meta.RequestID {
		t.Errorf("X-Request-ID = %q, want %q", got, env.Meta.RequestID)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"req-123"`) {
		t.Errorf("body does not carry request id: %s", rec.Body.String())
	}
}

func TestTrackAndListInteractions(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodPost, "/api/v1/interactions",
		`{"user_id":"u1","movie_id":1,"type":"rate","data":{"rating":5}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var tracked models.Interaction
	decodeData(t, env, &tracked)
	if tracked.ID == "" {
		t.Error("tracked interaction should have an ID")
	}
	if !tracked.Timestamp.Equal(testNow) {
		t.Errorf("timestamp = %v, want %v", tracked.Timestamp, testNow)
	}

	do(t, router, http.MethodPost, "/api/v1/interactions", `{"user_id":"u2","type":"search","data":{"query":"space"}}`)

	_, env = do(t, router, http.MethodGet, "/api/v1/interactions?user_id=u1", "")
	var list struct {
		Interactions []models.Interaction `json:"interactions"`
		Count        int                  `json:"count"`
	}
	decodeData(t, env, &list)
	if list.Count != 1 || list.Interactions[0].UserID != "u1" {
		t.Errorf("filtered list = %+v", list)
	}

	_, env = do(t, router, http.MethodGet, "/api/v1/interactions", "")
	decodeData(t, env, &list)
	if list.Count != 2 {
		t.Errorf("count = %d, want 2", list.Count)
	}

	rec, _ = do(t, router, http.MethodDelete, "/api/v1/interactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	_, env = do(t, router, http.MethodGet, "/api/v1/interactions", "")
	decodeData(t, env, &list)
	if list.Count != 0 || list.Interactions == nil {
		t.Errorf("after clear = %+v, want empty non-nil list", list)
	}
}

func TestTrackInteractionRejectsBadInput(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty body", "", ErrCodeBadRequest},
		{"malformed json", `{"user_id":`, ErrCodeBadRequest},
		{"missing user", `{"movie_id":1,"type":"view"}`, ErrCodeValidationFailed},
		{"unknown type", `{"user_id":"u1","movie_id":1,"type":"teleport"}`, ErrCodeValidationFailed},
		{"negative movie", `{"user_id":"u1","movie_id":-4,"type":"view"}`, ErrCodeValidationFailed},
		{"view without movie", `{"user_id":"u1","type":"view"}`, ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, http.MethodPost, "/api/v1/interactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()
	do(t, router, http.MethodPost, "/api/v1/interactions", `{"user_id":"u1","movie_id":1,"type":"like"}`)

	rec, env := do(t, router, http.MethodGet, "/api/v1/users/u1/recommendations?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var out struct {
		UserID string         `json:"user_id"`
		Mode   string         `json:"mode"`
		Movies []models.Movie `json:"movies"`
		Count  int            `json:"count"`
	}
	decodeData(t, env, &out)
	if out.UserID != "u1" || out.Mode != "hybrid" {
		t.Errorf("user_id/mode = %q/%q", out.UserID, out.Mode)
	}
	if out.Count != 2 || len(out.Movies) != 2 {
		t.Fatalf("count = %d, movies = %d, want 2", out.Count, len(out.Movies))
	}
	for _, m := range out.Movies {
		if m.ID == 1 {
			t.Error("hybrid should not recommend the seed movie")
		}
	}

	_, env = do(t, router, http.MethodGet, "/api/v1/users/u1/recommendations?mode=collaborative", "")
	decodeData(t, env, &out)
	if out.Mode != "collaborative" {
		t.Errorf("mode = %q", out.Mode)
	}

	_, env = do(t, router, http.MethodGet, "/api/v1/users/u1/preferences", "")
	var prefs recommend.GenrePreferences
	decodeData(t, env, &prefs)
}

func TestRecommendationsReflectLatestInteraction(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()
	recommended := func() []int {
		t.Helper()
		_, env := do(t, router, http.MethodGet, "/api/v1/users/u1/recommendations?limit=3", "")
		var out struct {
			Movies []models.Movie `json:"movies"`
		}
		decodeData(t, env, &out)
		got := make([]int, len(out.Movies))
		for i, m := range out.Movies {
			got[i] = m.ID
		}
		return got
	}

	do(t, router, http.MethodPost, "/api/v1/interactions", `{"user_id":"u1","movie_id":1,"type":"view"}`)
	if first := recommended(); !slices.Contains(first, 2) {
		t.Fatalf("recommendations = %v, want movie 2 before it is viewed", first)
	}

	do(t, router, http.MethodPost, "/api/v1/interactions", `{"user_id":"u1","movie_id":2,"type":"view"}`)
	if second := recommended(); slices.Contains(second, 2) {
		t.Errorf("recommendations after viewing movie 2 = %v, want it excluded", second)
	}
}

func TestQueryParameterErrors(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	for _, path := range []string{
		"/api/v1/users/u1/recommendations?limit=0",
		"/api/v1/users/u1/recommendations?limit=abc",
		"/api/v1/users/u1/recommendations?mode=psychic",
		"/api/v1/movies/trending?limit=-1",
		"/api/v1/movies/abc/similar",
		"/api/v1/movies/0/popularity",
		"/api/v1/theaters/t1/schedule?date=15-06-2026",
	} {
		rec, env := do(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeBadRequest {
			t.Errorf("GET %s: status = %d, error = %+v", path, rec.Code, env.Error)
		}
	}
}

func TestLimitIsCapped(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLimit = 2
	router := newTestHandler(t, testCatalog(), cfg).Router()

	_, env := do(t, router, http.MethodGet, "/api/v1/movies/trending?limit=40", "")
	var out struct {
		Count int `json:"count"`
	}
	decodeData(t, env, &out)
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
}

func TestPredictionEndpoints(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	for _, path := range []string{
		"/api/v1/movies/1/popularity",
		"/api/v1/movies/1/box-office",
		"/api/v1/movies/1/demographics",
		"/api/v1/movies/1/similar",
	} {
		rec, env := do(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || !env.Success {
			t.Errorf("GET %s: status = %d (%s)", path, rec.Code, rec.Body.String())
		}
	}

	_, env := do(t, router, http.MethodGet, "/api/v1/movies/1/popularity", "")
	var pop predict.Popularity
	decodeData(t, env, &pop)
	if pop.MovieID != 1 || pop.Score <= 0 || pop.Score > 100 {
		t.Errorf("popularity = %+v", pop)
	}
}

func TestMissingMovieIs404(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/api/v1/movies/999/box-office", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestOpenCircuitIs503(t *testing.T) {
	router := newTestHandler(t, unavailableProvider{}, testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/api/v1/theaters/t1/schedule", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}

	// Recommendations degrade to an empty list instead.
	rec, env = do(t, router, http.MethodGet, "/api/v1/movies/trending", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Errorf("trending status = %d", rec.Code)
	}
}

// slowProvider behaves like a catalog that outlived the request deadline.
type slowProvider struct{}

func (slowProvider) ListMovies(context.Context) ([]models.Movie, error) {
	return nil, fmt.Errorf("list movies: %w", context.DeadlineExceeded)
}

func (slowProvider) GetMovie(_ context.Context, id int) (models.Movie, error) {
	return models.Movie{}, fmt.Errorf("get movie %d: %w", id, context.DeadlineExceeded)
}

func TestDeadlineIs504(t *testing.T) {
	router := newTestHandler(t, slowProvider{}, testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/api/v1/movies/1/popularity", "")
	if rec.Code != http.StatusGatewayTimeout || env.Error == nil || env.Error.Code != ErrCodeTimeout {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestInsights(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodPost, "/api/v1/movies/2/insights",
		`{"reviews":["A wonderful, moving film.","Boring and too long."]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var out predict.Insights
	decodeData(t, env, &out)
	if out.MovieID != 2 || out.Reviews == nil || out.Reviews.Reviews != 2 {
		t.Errorf("insights = %+v", out)
	}
	if len(out.Errors) != 0 {
		t.Errorf("errors = %v, want none", out.Errors)
	}

	rec, env = do(t, router, http.MethodPost, "/api/v1/movies/2/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty body status = %d", rec.Code)
	}
	out = predict.Insights{}
	decodeData(t, env, &out)
	if out.Reviews != nil {
		t.Error("reviews summary should be omitted without reviews")
	}
}

func TestSentiment(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodPost, "/api/v1/sentiment", `{"text":"Excellent acting and a great story."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var res sentiment.Result
	decodeData(t, env, &res)
	if res.Sentiment != sentiment.Positive {
		t.Errorf("sentiment = %q, want positive", res.Sentiment)
	}

	rec, _ = do(t, router, http.MethodPost, "/api/v1/sentiment", `{"text":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d, want 400", rec.Code)
	}

	rec, env = do(t, router, http.MethodPost, "/api/v1/sentiment/aggregate", `{"reviews":["great","terrible","great fun"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("aggregate status = %d", rec.Code)
	}
	var sum sentiment.Summary
	decodeData(t, env, &sum)
	if sum.Reviews != 3 {
		t.Errorf("reviews = %d, want 3", sum.Reviews)
	}
}

func TestSchedule(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/api/v1/theaters/downtown/schedule?date=2026-07-04", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var plan schedule.Plan
	decodeData(t, env, &plan)
	if plan.TheaterID != "downtown" || plan.Date != "2026-07-04" {
		t.Errorf("plan header = %q %q", plan.TheaterID, plan.Date)
	}
	if len(plan.Schedule) != len(schedule.DefaultHalls)*len(schedule.Slots) {
		t.Errorf("showings = %d", len(plan.Schedule))
	}

	_, env = do(t, router, http.MethodGet, "/api/v1/theaters/downtown/schedule", "")
	decodeData(t, env, &plan)
	if plan.Date != "2026-06-15" {
		t.Errorf("default date = %q, want today", plan.Date)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router := newTestHandler(t, testCatalog(), testConfig()).Router()

	rec, env := do(t, router, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	router := newTestHandler(t, testCatalog(), cfg).Router()

	var last *httptest.ResponseRecorder
	var env envelope
	for range 3 {
		last, env = do(t, router, http.MethodGet, "/api/v1/movies/trending", "")
	}
	if last.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("third request: status = %d, error = %+v", last.Code, env.Error)
	}

	// Health is outside the limited group.
	rec, _ := do(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}
