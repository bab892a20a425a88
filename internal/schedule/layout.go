// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package schedule

// Hall is a screening room.
type Hall struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Premium  bool   `json:"premium"`
}

// Slot is a daily showtime. Weight scales expected attendance.
type Slot struct {
	Name   string  `json:"name"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Weight float64 `json:"weight"`
}

// Slot names.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
	SlotNight     = "night"
)

// DefaultHalls is the theater layout used when Config.Halls is empty.
// Premium halls only show the top three movies.
var DefaultHalls = []Hall{
	{Name: "Hall A", Capacity: 120},
	{Name: "Hall B", Capacity: 100},
	{Name: "IMAX", Capacity: 180, Premium: true},
	{Name: "Gold Class", Capacity: 40, Premium: true},
}

// Slots are the daily showtimes in order.
var Slots = []Slot{
	{Name: SlotMorning, Hour: 10, Weight: 0.6},
	{Name: SlotAfternoon, Hour: 14, Weight: 0.8},
	{Name: SlotEvening, Hour: 18, Minute: 30, Weight: 1.0},
	{Name: SlotNight, Hour: 21, Minute: 30, Weight: 0.9},
}

// premiumPool is how many of the most popular movies premium halls rotate.
const premiumPool = 3

// Ticket price adjustments in dollars.
const (
	premiumSurcharge = 3.0
	primeSurcharge   = 2.0
	morningDiscount  = 1.0
)

func ticketPrice(base float64, h Hall, s Slot) float64 {
	price := base
	if h.Premium {
		price += premiumSurcharge
	}
	if isPrime(s.Name) {
		price += primeSurcharge
	}
	if s.Name == SlotMorning {
		price -= morningDiscount
	}
	return price
}
