package models

import (
	"time"
)

// Reservation is a single booked stay. Soft deletes are intentionally not
// used: a removed reservation is gone.
type Reservation struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	GuestName       string    `json:"guest_name" gorm:"not null"`
	Platform        string    `json:"platform" gorm:"not null"`
	CheckIn         time.Time `json:"check_in" gorm:"not null"`
	CheckOut        time.Time `json:"check_out" gorm:"not null"`
	Adults          int       `json:"adults" gorm:"default:1"`
	Children        int       `json:"children" gorm:"default:0"`
	SpecialRequests string    `json:"special_requests"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReservationAPI is the wire shape of a reservation, with dates rendered as
// ISO-8601 strings.
type ReservationAPI struct {
	ID              uint   `json:"id"`
	GuestName       string `json:"guest_name" doc:"Name of the guest"`
	Platform        string `json:"platform" doc:"Booking platform the reservation came from"`
	CheckIn         string `json:"check_in" doc:"Check-in date (YYYY-MM-DD)"`
	CheckOut        string `json:"check_out" doc:"Check-out date (YYYY-MM-DD)"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
	Notes           string `json:"notes"`
}

func (r Reservation) ToAPI() ReservationAPI {
	return ReservationAPI{
		ID:              r.ID,
		GuestName:       r.GuestName,
		Platform:        r.Platform,
		CheckIn:         r.CheckIn.Format("2006-01-02"),
		CheckOut:        r.CheckOut.Format("2006-01-02"),
		Adults:          r.Adults,
		Children:        r.Children,
		SpecialRequests: r.SpecialRequests,
		Notes:           r.Notes,
	}
}

// Occupies reports whether the stay covers the given day. The check-out day
// itself is not an occupied night.
func (r Reservation) Occupies(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	in := time.Date(r.CheckIn.Year(), r.CheckIn.Month(), r.CheckIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(r.CheckOut.Year(), r.CheckOut.Month(), r.CheckOut.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(in) && d.Before(out)
}
