// Package web serves the application surface: the public RSVP form, the
// admin panel and the door check-in screen.
package web

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"event-rsvp/internal/lifecycle"
	"event-rsvp/internal/settings"
	"event-rsvp/internal/storage"
)

// Config holds the credential hashes for the two gated areas.
type Config struct {
	AdminPasswordHash string
	DoorPasswordHash  string
}

// Server wires the HTTP routes to the lifecycle service.
type Server struct {
	lifecycle *lifecycle.Lifecycle
	store     storage.GuestStore
	settings  *settings.Service
	encoder   lifecycle.QREncoder
	sessions  *sessionStore
	cfg       Config
	templates map[string]*template.Template
	log       zerolog.Logger
	mux       *http.ServeMux
}

// NewServer creates the HTTP server around the lifecycle service.
func NewServer(lc *lifecycle.Lifecycle, store storage.GuestStore, svc *settings.Service, encoder lifecycle.QREncoder, cfg Config, log zerolog.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		lifecycle: lc,
		store:     store,
		settings:  svc,
		encoder:   encoder,
		sessions:  newSessionStore(),
		cfg:       cfg,
		templates: templates,
		log:       log.With().Str("component", "web").Logger(),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Public
	s.mux.HandleFunc("GET /{$}", s.handleWelcome)
	s.mux.HandleFunc("GET /rsvp", s.handleFormPage)
	s.mux.HandleFunc("POST /rsvp", s.handleFormSubmit)
	s.mux.HandleFunc("GET /rsvp/success", s.handleSuccess)

	// Admin panel
	s.mux.HandleFunc("GET /admin/login", s.handleAdminLoginPage)
	s.mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("POST /admin/logout", s.handleLogout)
	s.mux.HandleFunc("GET /admin", s.requireAdmin(s.handleAdminDashboard))
	s.mux.HandleFunc("POST /admin/guests", s.requireAdmin(s.handleAdminAddGuest))
	s.mux.HandleFunc("POST /admin/guests/{id}/approve", s.requireAdmin(s.handleAdminApprove))
	s.mux.HandleFunc("POST /admin/guests/{id}/reject", s.requireAdmin(s.handleAdminReject))
	s.mux.HandleFunc("GET /admin/guests/{id}/qr.png", s.requireAdmin(s.handleGuestQR))
	s.mux.HandleFunc("GET /admin/guests.json", s.requireAdmin(s.handleGuestsJSON))
	s.mux.HandleFunc("GET /admin/settings", s.requireAdmin(s.handleSettingsPage))
	s.mux.HandleFunc("POST /admin/settings", s.requireAdmin(s.handleSettingsSave))

	// Door check-in
	s.mux.HandleFunc("GET /checkin/login", s.handleCheckinLoginPage)
	s.mux.HandleFunc("POST /checkin/login", s.handleCheckinLogin)
	s.mux.HandleFunc("POST /checkin/logout", s.handleLogout)
	s.mux.HandleFunc("GET /checkin", s.requireDoor(s.handleCheckinDashboard))
	s.mux.HandleFunc("POST /checkin/scan", s.requireDoor(s.handleCheckinScan))
	s.mux.HandleFunc("POST /checkin/guests/{id}", s.requireDoor(s.handleCheckinByID))
	s.mux.HandleFunc("GET /checkin/guests.json", s.requireDoor(s.handleGuestsJSON))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
