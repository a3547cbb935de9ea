package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"event-rsvp/internal/lifecycle"
	"event-rsvp/internal/models"
)

func (s *Server) handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "admin/login.html", map[string]any{
		"Title": "Admin login",
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	if !s.login(w, RoleAdmin, s.cfg.AdminPasswordHash, r.FormValue("password")) {
		s.log.Warn().Str("area", "admin").Msg("Failed login attempt")
		s.render(w, http.StatusUnauthorized, "admin/login.html", map[string]any{
			"Title": "Admin login",
			"Error": "Incorrect password.",
		})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	guests, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	counts := map[string]int{"total": len(guests)}
	for _, g := range guests {
		counts[string(g.Status)]++
		if g.CheckedIn {
			counts["checked_in"]++
		}
	}

	s.render(w, http.StatusOK, "admin/dashboard.html", map[string]any{
		"Title":  "Admin panel",
		"Guests": guests,
		"Counts": counts,
		"Notice": r.URL.Query().Get("notice"),
		"Error":  r.URL.Query().Get("error"),
	})
}

func (s *Server) handleAdminApprove(w http.ResponseWriter, r *http.Request) {
	result, err := s.lifecycle.Approve(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		s.redirectAdmin(w, r, "", "Guest not found.")
	case err != nil:
		s.serverError(w, err)
	case !result.Notified():
		s.redirectAdmin(w, r, "", "Guest approved, but the confirmation email could not be sent.")
	default:
		s.redirectAdmin(w, r, "Guest approved and email sent to "+result.Guest.Email+".", "")
	}
}

func (s *Server) handleAdminReject(w http.ResponseWriter, r *http.Request) {
	_, err := s.lifecycle.Reject(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		s.redirectAdmin(w, r, "", "Guest not found.")
	case err != nil:
		s.serverError(w, err)
	default:
		s.redirectAdmin(w, r, "Guest rejected.", "")
	}
}

func (s *Server) handleAdminAddGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	result, err := s.lifecycle.AddApproved(r.Context(), r.FormValue("name"), r.FormValue("email"))

	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		s.redirectAdmin(w, r, "", verr.Error())
	case errors.Is(err, lifecycle.ErrDuplicateEmail):
		s.redirectAdmin(w, r, "", "This email has already been registered.")
	case err != nil:
		s.serverError(w, err)
	case !result.Notified():
		s.redirectAdmin(w, r, "", "Guest added and approved, but the confirmation email could not be sent.")
	default:
		s.redirectAdmin(w, r, "Guest added and approved.", "")
	}
}

// handleGuestQR serves the guest's credential as a PNG, for reprinting
// or showing at the door when the email went missing.
func (s *Server) handleGuestQR(w http.ResponseWriter, r *http.Request) {
	guest, err := s.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if guest.QRToken == "" {
		http.Error(w, "guest has no credential yet", http.StatusNotFound)
		return
	}
	png, err := s.encoder.Encode(guest.QRToken)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleGuestsJSON backs the periodic client refresh on the admin and
// check-in screens.
func (s *Server) handleGuestsJSON(w http.ResponseWriter, r *http.Request) {
	guests, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if guests == nil {
		guests = []*models.Guest{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(guests); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode guest list")
	}
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	info, err := s.settings.EventInfo(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "admin/settings.html", map[string]any{
		"Title": "Event settings",
		"Event": info,
	})
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	info := models.EventInfo{
		Name:              r.FormValue("event_name"),
		Date:              r.FormValue("event_date"),
		Location:          r.FormValue("event_location"),
		Address:           r.FormValue("event_address"),
		WhatsAppGroupLink: r.FormValue("whatsapp_group_link"),
		ContactPhone:      r.FormValue("contact_phone"),
		ContactEmail:      r.FormValue("contact_email"),
	}
	if err := s.settings.Save(r.Context(), info); err != nil {
		s.serverError(w, err)
		return
	}
	s.redirectAdmin(w, r, "Settings saved.", "")
}

func (s *Server) redirectAdmin(w http.ResponseWriter, r *http.Request, notice, errMsg string) {
	target := "/admin"
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	} else if errMsg != "" {
		target += "?error=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
