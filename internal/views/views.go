// Package views renders the server-side HTML pages. It is the only consumer
// of the templates; handlers hand it a PageData and a template name.
package views

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the view-model shared by all pages. Pages use the fields they
// need and ignore the rest.
type PageData struct {
	Reservations []models.Reservation
	Reservation  *models.Reservation
	Months       []CalendarMonth
	IsAdmin      bool
	IsReadOnly   bool
	Today        time.Time
	Notice       *session.Notice
}

type Renderer struct {
	templates *template.Template
}

func New() *Renderer {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"isodate": func(t time.Time) string { return t.Format("2006-01-02") },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	return &Renderer{templates: tmpl}
}

func (rd *Renderer) Render(w http.ResponseWriter, name string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rd.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Failed to render %s: %v", name, err)
	}
}
