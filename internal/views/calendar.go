package views

import (
	"sort"
	"time"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
)

type CalendarDay struct {
	Date         time.Time
	InMonth      bool
	IsToday      bool
	Reservations []models.Reservation
}

type CalendarMonth struct {
	Year  int
	Month time.Month
	Weeks [][]CalendarDay
}

// MonthsFor builds the calendar grids for every month touched by a stay plus
// the current month, in chronological order. Weeks run Monday through Sunday;
// leading and trailing cells from neighbouring months are marked InMonth=false.
func MonthsFor(reservations []models.Reservation, today time.Time) []CalendarMonth {
	months := map[time.Time]bool{
		monthOf(today): true,
	}
	for _, r := range reservations {
		// Occupied nights are [check_in, check_out); the check-out day
		// itself does not add a month.
		for d := monthOf(r.CheckIn); !d.After(monthOf(lastNight(r))); d = d.AddDate(0, 1, 0) {
			months[d] = true
		}
	}

	keys := make([]time.Time, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]CalendarMonth, 0, len(keys))
	for _, m := range keys {
		out = append(out, buildMonth(m, reservations, today))
	}
	return out
}

func buildMonth(first time.Time, reservations []models.Reservation, today time.Time) CalendarMonth {
	month := CalendarMonth{Year: first.Year(), Month: first.Month()}

	// Walk back to the Monday on or before the 1st.
	cursor := first
	for cursor.Weekday() != time.Monday {
		cursor = cursor.AddDate(0, 0, -1)
	}

	// Whole weeks only; the cursor is back on a Monday after each pass.
	end := first.AddDate(0, 1, 0)
	for cursor.Before(end) {
		week := make([]CalendarDay, 0, 7)
		for i := 0; i < 7; i++ {
			day := CalendarDay{
				Date:    cursor,
				InMonth: cursor.Month() == first.Month(),
				IsToday: sameDay(cursor, today),
			}
			for _, r := range reservations {
				if r.Occupies(cursor) {
					day.Reservations = append(day.Reservations, r)
				}
			}
			week = append(week, day)
			cursor = cursor.AddDate(0, 0, 1)
		}
		month.Weeks = append(month.Weeks, week)
	}
	return month
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastNight(r models.Reservation) time.Time {
	night := r.CheckOut.AddDate(0, 0, -1)
	if night.Before(r.CheckIn) {
		return r.CheckIn
	}
	return night
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
