package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/alerts"
	"github.com/vetcare/portal/users"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

// parseView parses a page template inside the shared layout. Templates are
// embedded, so a parse failure is a programming error caught at startup.
func parseView(name string) *template.Template {
	tmpl, err := template.New("layout.html").ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
	if err != nil {
		panic("Failed to parse template " + name + ": " + err.Error())
	}
	return tmpl
}

// parsePage parses a standalone template (login, register, loading)
func parsePage(name string) *template.Template {
	tmpl, err := template.ParseFS(templateFiles, "templates/"+name)
	if err != nil {
		panic("Failed to parse template " + name + ": " + err.Error())
	}
	return tmpl
}

// viewData is what the layout template renders around every page
type viewData struct {
	AppName       string
	Title         string
	Base          string // role subtree prefix for navigation links
	User          *users.User
	Alerts        []alerts.Alert
	SessionExpiry string
	Data          any
}

func (s *Server) viewData(r *http.Request, title string, data any) viewData {
	vd := viewData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Base:    s.session.LandingRoute(),
		User:    s.session.CurrentUser(),
		Alerts:  s.alerts.Active(),
		Data:    data,
	}
	if expiry, ok := s.session.TokenExpiry(); ok {
		vd.SessionExpiry = expiry.Local().Format(time.Kitchen)
	}
	return vd
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// renderStatus renders a non-200 page. The template executes into a buffer
// first so a render failure can still produce a clean error response
// instead of writing after the status header has gone out.
func (s *Server) renderStatus(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var loadingTmpl = parsePage("loading.html")

// renderLoading shows the neutral placeholder used while the startup
// session check is in flight.
func (s *Server) renderLoading(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.Header().Set("Refresh", "1")
	_ = loadingTmpl.Execute(w, map[string]string{"AppName": s.config.GetAppName()})
}
