// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package schedule

import "fmt"

// Recommendation types.
const (
	RecommendationLowAttendance = "low_attendance"
	RecommendationPrimeTime     = "prime_time"
	RecommendationGeneral       = "general"
)

// Recommendation thresholds in percent and popularity points.
const (
	lowAttendanceBelow  = 30.0
	minPopularityGain   = 20.0
	lowOverallBelow     = 50.0
	offPeakShowingsHint = 2
)

// Recommendation is advice about a plan.
type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`

	Hall             string `json:"hall,omitempty"`
	Slot             string `json:"slot,omitempty"`
	MovieID          int    `json:"movie_id,omitempty"`
	SuggestedMovieID int    `json:"suggested_movie_id,omitempty"`
	// ExpectedImprovement is the extra expected attendance from the suggestion.
	ExpectedImprovement int `json:"expected_improvement,omitempty"`
}

func recommend(halls []Hall, showings []Showing, ranked []candidate, m Metrics) []Recommendation {
	out := lowAttendance(halls, showings, ranked)
	out = append(out, primeTime(showings, ranked)...)

	switch {
	case m.AttendancePercentage < lowOverallBelow:
		out = append(out, Recommendation{
			Type: RecommendationGeneral,
			Message: fmt.Sprintf("Expected attendance is %.0f%% of capacity; consider promotions or fewer showings.",
				m.AttendancePercentage),
		})
	case len(out) == 0:
		out = append(out, Recommendation{
			Type:    RecommendationGeneral,
			Message: fmt.Sprintf("Schedule is well balanced at %.0f%% expected attendance.", m.AttendancePercentage),
		})
	}
	return out
}

// lowAttendance suggests, for each weak showing, the most popular movie that
// beats it by at least minPopularityGain points and is not already on in
// that slot.
func lowAttendance(halls []Hall, showings []Showing, ranked []candidate) []Recommendation {
	inSlot := map[string]map[int]struct{}{}
	for _, s := range showings {
		if inSlot[s.Slot] == nil {
			inSlot[s.Slot] = map[int]struct{}{}
		}
		inSlot[s.Slot][s.MovieID] = struct{}{}
	}

	var out []Recommendation
	for h, hall := range halls {
		for si, slot := range Slots {
			s := showings[h*len(Slots)+si]
			if s.AttendancePercentage >= lowAttendanceBelow {
				continue
			}
			for _, c := range ranked {
				if c.popularity < s.Popularity+minPopularityGain {
					break
				}
				if _, scheduled := inSlot[s.Slot][c.movie.ID]; scheduled {
					continue
				}
				gain := expectedAttendance(hall, slot, c.popularity) - s.ExpectedAttendance
				out = append(out, Recommendation{
					Type:                RecommendationLowAttendance,
					Hall:                s.Hall,
					Slot:                s.Slot,
					MovieID:             s.MovieID,
					SuggestedMovieID:    c.movie.ID,
					ExpectedImprovement: gain,
					Message: fmt.Sprintf("%s %s showing of %q is expected at %.0f%%; %q would add about %d viewers.",
						s.Hall, s.Slot, s.Title, s.AttendancePercentage, c.movie.Title, gain),
				})
				break
			}
		}
	}
	return out
}

// primeTime flags movies shown repeatedly off-peak but never in the evening
// or at night.
func primeTime(showings []Showing, ranked []candidate) []Recommendation {
	offPeak := map[int]int{}
	prime := map[int]bool{}
	for _, s := range showings {
		switch {
		case isPrime(s.Slot):
			prime[s.MovieID] = true
		case isOffPeak(s.Slot):
			offPeak[s.MovieID]++
		}
	}

	var out []Recommendation
	for _, c := range ranked {
		id := c.movie.ID
		if offPeak[id] < offPeakShowingsHint || prime[id] {
			continue
		}
		out = append(out, Recommendation{
			Type:    RecommendationPrimeTime,
			MovieID: id,
			Message: fmt.Sprintf("%q has %d daytime showings but none in the evening; try a prime-time slot.",
				c.movie.Title, offPeak[id]),
		})
	}
	return out
}

func isPrime(slot string) bool {
	return slot == SlotEvening || slot == SlotNight
}

func isOffPeak(slot string) bool {
	return slot == SlotMorning || slot == SlotAfternoon
}
