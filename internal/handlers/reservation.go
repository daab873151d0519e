package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/notifier"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

type ReservationHandler struct {
	db       *gorm.DB
	views    *views.Renderer
	notifier notifier.Notifier
}

func NewReservationHandler(db *gorm.DB, renderer *views.Renderer, n notifier.Notifier) *ReservationHandler {
	return &ReservationHandler{db: db, views: renderer, notifier: n}
}

// reservationForm is the parsed and type-coerced form submission.
type reservationForm struct {
	GuestName       string `validate:"required"`
	Platform        string `validate:"required"`
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int `validate:"gte=0"`
	Children        int `validate:"gte=0"`
	SpecialRequests string
	Notes           string
}

// saveOutcome classifies a create/update attempt; mapping to notice text and
// redirect target happens in one place, respondSave.
type saveOutcome int

const (
	saveOK saveOutcome = iota
	saveInvalidDates
	saveBadInput
	saveStorageError
)

func parseReservationForm(r *http.Request) (*reservationForm, error) {
	checkIn, err := time.Parse("2006-01-02", r.FormValue("check_in"))
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date: %w", err)
	}
	checkOut, err := time.Parse("2006-01-02", r.FormValue("check_out"))
	if err != nil {
		return nil, fmt.Errorf("invalid check-out date: %w", err)
	}
	adults, err := strconv.Atoi(r.FormValue("adults"))
	if err != nil {
		return nil, fmt.Errorf("invalid adults count: %w", err)
	}
	children, err := strconv.Atoi(r.FormValue("children"))
	if err != nil {
		return nil, fmt.Errorf("invalid children count: %w", err)
	}

	form := &reservationForm{
		GuestName:       r.FormValue("guest_name"),
		Platform:        r.FormValue("platform"),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          adults,
		Children:        children,
		SpecialRequests: r.FormValue("special_requests"),
		Notes:           r.FormValue("notes"),
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return form, nil
}

// saveReservation parses the submitted form into the given record and
// persists it. Nothing is persisted on a non-OK outcome.
func (h *ReservationHandler) saveReservation(r *http.Request, reservation *models.Reservation) (saveOutcome, error) {
	form, err := parseReservationForm(r)
	if err != nil {
		return saveBadInput, err
	}
	if !form.CheckOut.After(form.CheckIn) {
		return saveInvalidDates, nil
	}

	reservation.GuestName = form.GuestName
	reservation.Platform = form.Platform
	reservation.CheckIn = form.CheckIn
	reservation.CheckOut = form.CheckOut
	reservation.Adults = form.Adults
	reservation.Children = form.Children
	reservation.SpecialRequests = form.SpecialRequests
	reservation.Notes = form.Notes

	if err := h.db.Save(reservation).Error; err != nil {
		return saveStorageError, err
	}
	return saveOK, nil
}

// respondSave turns a save outcome into the user-visible notice and redirect.
func respondSave(w http.ResponseWriter, r *http.Request, outcome saveOutcome, err error, verb, formTarget string) {
	switch outcome {
	case saveInvalidDates:
		session.Flash(w, "error", "Check-out date must be after check-in date!")
		http.Redirect(w, r, formTarget, http.StatusFound)
	case saveBadInput, saveStorageError:
		session.Flash(w, "error", fmt.Sprintf("Error %s reservation: %v", verb, err))
		http.Redirect(w, r, formTarget, http.StatusFound)
	default:
		session.Flash(w, "success", fmt.Sprintf("Reservation %s successfully!", pastTense(verb)))
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func pastTense(verb string) string {
	switch verb {
	case "adding":
		return "added"
	case "updating":
		return "updated"
	default:
		return verb
	}
}

func (h *ReservationHandler) notify(event string, reservation models.Reservation) {
	if h.notifier == nil {
		return
	}
	// Best effort; a broken notifier never surfaces to the user.
	if err := h.notifier.NotifyReservation(event, reservation); err != nil {
		log.Printf("Failed to notify about %s reservation %d: %v", event, reservation.ID, err)
	}
}

func (h *ReservationHandler) pageData(w http.ResponseWriter, r *http.Request) views.PageData {
	role := session.FromContext(r.Context())
	return views.PageData{
		IsAdmin:    role == session.RoleAdmin,
		IsReadOnly: role == session.RoleReadOnly,
		Today:      time.Now(),
		Notice:     session.PopFlash(w, r),
	}
}

func (h *ReservationHandler) listReservations() ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := h.db.Order("check_in").Find(&reservations).Error
	return reservations, err
}

func (h *ReservationHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)
	reservations, err := h.listReservations()
	if err != nil {
		http.Error(w, "Failed to load reservations", http.StatusInternalServerError)
		return
	}
	data.Reservations = reservations
	h.views.Render(w, "index.html", data)
}

func (h *ReservationHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)
	reservations, err := h.listReservations()
	if err != nil {
		http.Error(w, "Failed to load reservations", http.StatusInternalServerError)
		return
	}
	data.Reservations = reservations
	data.Months = views.MonthsFor(reservations, data.Today)
	h.views.Render(w, "calendar.html", data)
}

func (h *ReservationHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "add_reservation.html", h.pageData(w, r))
}

func (h *ReservationHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var reservation models.Reservation
	outcome, err := h.saveReservation(r, &reservation)
	if outcome == saveOK {
		h.notify("added", reservation)
	}
	respondSave(w, r, outcome, err, "adding", "/add")
}

// loadReservation resolves the {id} URL param. A nil return means the
// response is already written.
func (h *ReservationHandler) loadReservation(w http.ResponseWriter, r *http.Request) *models.Reservation {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil
	}

	var reservation models.Reservation
	if err := h.db.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Failed to load reservation", http.StatusInternalServerError)
		}
		return nil
	}
	return &reservation
}

func (h *ReservationHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	reservation := h.loadReservation(w, r)
	if reservation == nil {
		return
	}
	data := h.pageData(w, r)
	data.Reservation = reservation
	h.views.Render(w, "edit_reservation.html", data)
}

func (h *ReservationHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	reservation := h.loadReservation(w, r)
	if reservation == nil {
		return
	}
	outcome, err := h.saveReservation(r, reservation)
	if outcome == saveOK {
		h.notify("updated", *reservation)
	}
	respondSave(w, r, outcome, err, "updating", fmt.Sprintf("/edit/%d", reservation.ID))
}

func (h *ReservationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reservation := h.loadReservation(w, r)
	if reservation == nil {
		return
	}

	if err := h.db.Delete(reservation).Error; err != nil {
		// Reported, not fatal; the listing is still a valid place to land.
		session.Flash(w, "error", fmt.Sprintf("Error deleting reservation: %v", err))
	} else {
		session.Flash(w, "success", "Reservation deleted successfully!")
		h.notify("deleted", *reservation)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
