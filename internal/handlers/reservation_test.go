package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/config"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/views"
	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*chi.Mux, *gorm.DB, *session.Manager) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Reservation{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	cfg := &config.Config{
		AdminPassword: "test-password",
		SessionSecret: "test-secret",
	}
	sessions := session.NewManager(cfg.SessionSecret)
	renderer := views.New()

	authHandler := NewAuthHandler(cfg, sessions, renderer)
	reservationHandler := NewReservationHandler(db, renderer, nil)
	apiHandler := NewAPIHandler(db)

	r := chi.NewRouter()
	RegisterRoutes(r, sessions, authHandler, reservationHandler, apiHandler)
	return r, db, sessions
}

func roleCookie(t *testing.T, sessions *session.Manager, role session.Role) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := sessions.SetRole(rr, role); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie was set")
	}
	return cookies[0]
}

func doGet(mux http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func doPost(mux http.Handler, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func validForm() url.Values {
	return url.Values{
		"guest_name":       {"A. Smith"},
		"platform":         {"Airbnb"},
		"check_in":         {"2024-03-01"},
		"check_out":        {"2024-03-05"},
		"adults":           {"2"},
		"children":         {"0"},
		"special_requests": {"Late arrival"},
		"notes":            {""},
	}
}

func seedReservation(t *testing.T, db *gorm.DB) models.Reservation {
	t.Helper()
	reservation := models.Reservation{
		GuestName: "B. Jones",
		Platform:  "Booking.com",
		CheckIn:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		Adults:    1,
		Children:  1,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return reservation
}

func TestAddReservation(t *testing.T) {
	mux, db, sessions := newTestApp(t)
	admin := roleCookie(t, sessions, session.RoleAdmin)

	rr := doPost(mux, "/add", validForm(), admin)
	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %s", loc)
	}

	var reservation models.Reservation
	if err := db.First(&reservation).Error; err != nil {
		t.Fatalf("failed to find created reservation: %v", err)
	}
	if reservation.ID == 0 {
		t.Error("expected a generated id")
	}
	if reservation.GuestName != "A. Smith" {
		t.Errorf("expected guest 'A. Smith', got '%s'", reservation.GuestName)
	}
	if reservation.Platform != "Airbnb" {
		t.Errorf("expected platform 'Airbnb', got '%s'", reservation.Platform)
	}
	if got := reservation.CheckIn.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("expected check-in 2024-03-01, got %s", got)
	}
	if got := reservation.CheckOut.Format("2006-01-02"); got != "2024-03-05" {
		t.Errorf("expected check-out 2024-03-05, got %s", got)
	}
	if reservation.Adults != 2 || reservation.Children != 0 {
		t.Errorf("expected 2 adults and 0 children, got %d and %d", reservation.Adults, reservation.Children)
	}
	if reservation.SpecialRequests != "Late arrival" {
		t.Errorf("unexpected special requests: %s", reservation.SpecialRequests)
	}
}

func TestAddReservationRejectsBadInput(t *testing.T) {
	mux, db, sessions := newTestApp(t)
	admin := roleCookie(t, sessions, session.RoleAdmin)

	cases := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"CheckOutBeforeCheckIn", func(f url.Values) {
			f.Set("check_in", "2024-03-05")
			f.Set("check_out", "2024-03-01")
		}},
		{"CheckOutEqualsCheckIn", func(f url.Values) {
			f.Set("check_out", "2024-03-01")
		}},
		{"UnparsableDate", func(f url.Values) {
			f.Set("check_in", "not-a-date")
		}},
		{"UnparsableAdults", func(f url.Values) {
			f.Set("adults", "two")
		}},
		{"MissingGuestName", func(f url.Values) {
			f.Set("guest_name", "")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(form)

			rr := doPost(mux, "/add", form, admin)
			if rr.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/add" {
				t.Errorf("expected redirect back to /add, got %s", loc)
			}

			var count int64
			db.Model(&models.Reservation{}).Count(&count)
			if count != 0 {
				t.Errorf("expected no reservation to be created, found %d", count)
			}
		})
	}
}

func TestEditReservation(t *testing.T) {
	mux, db, sessions := newTestApp(t)
	admin := roleCookie(t, sessions, session.RoleAdmin)
	seeded := seedReservation(t, db)

	t.Run("UpdatesFields", func(t *testing.T) {
		form := validForm()
		rr := doPost(mux, "/edit/"+itoa(seeded.ID), form, admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}

		var updated models.Reservation
		if err := db.First(&updated, seeded.ID).Error; err != nil {
			t.Fatalf("failed to reload reservation: %v", err)
		}
		if updated.GuestName != "A. Smith" {
			t.Errorf("expected guest 'A. Smith', got '%s'", updated.GuestName)
		}
		if got := updated.CheckIn.Format("2006-01-02"); got != "2024-03-01" {
			t.Errorf("expected check-in 2024-03-01, got %s", got)
		}

		var count int64
		db.Model(&models.Reservation{}).Count(&count)
		if count != 1 {
			t.Errorf("expected edit to not create records, found %d", count)
		}
	})

	t.Run("RejectsBadDateOrder", func(t *testing.T) {
		form := validForm()
		form.Set("check_in", "2024-03-05")
		form.Set("check_out", "2024-03-01")

		rr := doPost(mux, "/edit/"+itoa(seeded.ID), form, admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/edit/"+itoa(seeded.ID) {
			t.Errorf("expected redirect back to the edit form, got %s", loc)
		}

		var unchanged models.Reservation
		if err := db.First(&unchanged, seeded.ID).Error; err != nil {
			t.Fatalf("failed to reload reservation: %v", err)
		}
		if got := unchanged.CheckIn.Format("2006-01-02"); got != "2024-03-01" {
			t.Errorf("expected record to keep previous check-in, got %s", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rr := doPost(mux, "/edit/9999", validForm(), admin)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})
}

func TestDeleteReservation(t *testing.T) {
	mux, db, sessions := newTestApp(t)
	admin := roleCookie(t, sessions, session.RoleAdmin)
	seeded := seedReservation(t, db)

	t.Run("Deletes", func(t *testing.T) {
		rr := doGet(mux, "/delete/"+itoa(seeded.ID), admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}

		var count int64
		db.Model(&models.Reservation{}).Count(&count)
		if count != 0 {
			t.Errorf("expected reservation to be deleted, found %d", count)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rr := doGet(mux, "/delete/9999", admin)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})
}

func TestAccessControl(t *testing.T) {
	mux, db, sessions := newTestApp(t)
	readonly := roleCookie(t, sessions, session.RoleReadOnly)

	t.Run("AnonymousViewsRedirectToModeSelect", func(t *testing.T) {
		for _, target := range []string{"/", "/calendar"} {
			rr := doGet(mux, target, nil)
			if rr.Code != http.StatusFound {
				t.Fatalf("%s: expected 302, got %d", target, rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/login-select" {
				t.Errorf("%s: expected redirect to /login-select, got %s", target, loc)
			}
		}
	})

	t.Run("AnonymousMutationsRedirectToLogin", func(t *testing.T) {
		for _, target := range []string{"/add", "/edit/1", "/delete/1"} {
			rr := doGet(mux, target, nil)
			if rr.Code != http.StatusFound {
				t.Fatalf("%s: expected 302, got %d", target, rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/admin-login" {
				t.Errorf("%s: expected redirect to /admin-login, got %s", target, loc)
			}
		}
	})

	t.Run("ReadOnlyCanView", func(t *testing.T) {
		rr := doGet(mux, "/", readonly)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("ReadOnlyCannotMutate", func(t *testing.T) {
		rr := doPost(mux, "/add", validForm(), readonly)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		// The read-only session fails the admin gate first.
		if loc := rr.Header().Get("Location"); loc != "/admin-login" {
			t.Errorf("expected redirect to /admin-login, got %s", loc)
		}

		var count int64
		db.Model(&models.Reservation{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no reservation to be created, found %d", count)
		}
	})
}

func TestAdminLogin(t *testing.T) {
	mux, _, sessions := newTestApp(t)

	t.Run("CorrectPassword", func(t *testing.T) {
		rr := doPost(mux, "/admin-login", url.Values{"password": {"test-password"}}, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}

		req := httptest.NewRequest("GET", "/", nil)
		for _, c := range rr.Result().Cookies() {
			req.AddCookie(c)
		}
		if got := sessions.RoleFromRequest(req); got != session.RoleAdmin {
			t.Errorf("expected admin session after login, got %v", got)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rr := doPost(mux, "/admin-login", url.Values{"password": {"nope"}}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected the form to be re-rendered with 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Invalid admin password") {
			t.Error("expected the error notice in the re-rendered form")
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_token" {
				t.Error("expected no session cookie on failed login")
			}
		}
	})

	t.Run("AlreadyAdminGetRedirects", func(t *testing.T) {
		admin := roleCookie(t, sessions, session.RoleAdmin)
		rr := doGet(mux, "/admin-login", admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}
	})
}

func TestModeTransitions(t *testing.T) {
	mux, _, sessions := newTestApp(t)

	t.Run("ReadOnlyEntryReplacesAdmin", func(t *testing.T) {
		admin := roleCookie(t, sessions, session.RoleAdmin)
		rr := doGet(mux, "/readonly", admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}

		req := httptest.NewRequest("GET", "/", nil)
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_token" {
				req.AddCookie(c)
			}
		}
		if got := sessions.RoleFromRequest(req); got != session.RoleReadOnly {
			t.Errorf("expected read-only session after /readonly, got %v", got)
		}
	})

	t.Run("ExitReadOnly", func(t *testing.T) {
		readonly := roleCookie(t, sessions, session.RoleReadOnly)
		rr := doGet(mux, "/exit-readonly", readonly)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login-select" {
			t.Errorf("expected redirect to /login-select, got %s", loc)
		}
	})

	t.Run("AdminLogout", func(t *testing.T) {
		admin := roleCookie(t, sessions, session.RoleAdmin)
		rr := doGet(mux, "/admin-logout", admin)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/admin-login" {
			t.Errorf("expected redirect to /admin-login, got %s", loc)
		}
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
