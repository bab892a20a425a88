// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"slices"
	"testing"

	"github.com/tomtom215/marquee/internal/models"
)

func TestDecodeMovies_ReleaseDateSpellings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"snake case", `[{"id": 1, "release_date": "2026-01-10"}]`, "2026-01-10"},
		{"camel case", `[{"id": 1, "releaseDate": "2026-02-14"}]`, "2026-02-14"},
		{"snake case wins", `[{"id": 1, "release_date": "2026-01-10", "releaseDate": "1999-01-01"}]`, "2026-01-10"},
		{"empty snake falls back", `[{"id": 1, "release_date": "", "releaseDate": "2026-03-01"}]`, "2026-03-01"},
		{"neither", `[{"id": 1}]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			movies, err := decodeMovies([]byte(tt.body))
			if err != nil {
				t.Fatalf("decodeMovies() error = %v", err)
			}
			if got := movies[0].ReleaseDate; got != tt.want {
				t.Errorf("ReleaseDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeMovies_GenreShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		genres string
		want   []models.Genre
	}{
		{
			name:   "objects",
			genres: `[{"id": 28, "name": "Action"}]`,
			want:   []models.Genre{{ID: 28, Name: "Action"}},
		},
		{
			name:   "names",
			genres: `["Action", "science fiction", " Drama "]`,
			want:   []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}, {ID: 18, Name: "Drama"}},
		},
		{
			name:   "object without id",
			genres: `[{"name": "Horror"}]`,
			want:   []models.Genre{{ID: 27, Name: "Horror"}},
		},
		{
			name:   "mixed with junk",
			genres: `[{"id": 35, "name": "Comedy"}, "Thriller", 7, {}, ""]`,
			want:   []models.Genre{{ID: 35, Name: "Comedy"}, {ID: 53, Name: "Thriller"}},
		},
		{
			name:   "not an array",
			genres: `"Action"`,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			movies, err := decodeMovies([]byte(`[{"id": 1, "genres": ` + tt.genres + `}]`))
			if err != nil {
				t.Fatalf("decodeMovies() error = %v", err)
			}
			if got := movies[0].Genres; !slices.Equal(got, tt.want) {
				t.Errorf("Genres = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNamedGenre_UnknownNamesAreStable(t *testing.T) {
	t.Parallel()
	a := namedGenre("Noir")
	b := namedGenre("noir")
	if a.ID != b.ID {
		t.Errorf("IDs differ by case: %d vs %d", a.ID, b.ID)
	}
	if a.Name != "Noir" {
		t.Errorf("Name = %q, want the name as given", a.Name)
	}
	if a.ID < 1<<30 {
		t.Errorf("ID = %d, want outside the standard range", a.ID)
	}
	if namedGenre("Heist").ID == a.ID {
		t.Error("different names should not share an ID")
	}
}
