package web

import (
	"errors"
	"net/http"
	"net/url"

	"event-rsvp/internal/lifecycle"
	"event-rsvp/internal/models"
)

func (s *Server) handleCheckinLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "checkin/login.html", map[string]any{
		"Title": "Check-in login",
	})
}

func (s *Server) handleCheckinLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	if !s.login(w, RoleDoor, s.cfg.DoorPasswordHash, r.FormValue("password")) {
		s.log.Warn().Str("area", "checkin").Msg("Failed login attempt")
		s.render(w, http.StatusUnauthorized, "checkin/login.html", map[string]any{
			"Title": "Check-in login",
			"Error": "Incorrect password.",
		})
		return
	}
	http.Redirect(w, r, "/checkin", http.StatusSeeOther)
}

func (s *Server) handleCheckinDashboard(w http.ResponseWriter, r *http.Request) {
	guests, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	checkedIn := 0
	var approved []*models.Guest
	for _, g := range guests {
		if g.Approved() {
			approved = append(approved, g)
			if g.CheckedIn {
				checkedIn++
			}
		}
	}

	q := r.URL.Query()
	s.render(w, http.StatusOK, "checkin/dashboard.html", map[string]any{
		"Title":     "Check-in",
		"Guests":    approved,
		"CheckedIn": checkedIn,
		"Admitted":  q.Get("admitted"),
		"Companion": q.Get("companion") == "1",
		"Error":     checkinErrorMessage(q.Get("error")),
	})
}

// handleCheckinScan admits a guest by the decoded QR token, whether it
// came from the camera scanner or was typed in by hand.
func (s *Server) handleCheckinScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	guest, err := s.lifecycle.CheckIn(r.Context(), r.FormValue("token"))
	s.redirectCheckin(w, r, guest, err)
}

func (s *Server) handleCheckinByID(w http.ResponseWriter, r *http.Request) {
	guest, err := s.lifecycle.CheckInByID(r.Context(), r.PathValue("id"))
	s.redirectCheckin(w, r, guest, err)
}

// redirectCheckin maps each check-in outcome to its own operator-facing
// message; the classes must stay distinguishable.
func (s *Server) redirectCheckin(w http.ResponseWriter, r *http.Request, guest *models.Guest, err error) {
	target := "/checkin"
	switch {
	case err == nil:
		target += "?admitted=" + url.QueryEscape(guest.Name)
		if guest.HasCompanion {
			target += "&companion=1"
		}
	case errors.Is(err, lifecycle.ErrInvalidToken):
		target += "?error=invalid_token"
	case errors.Is(err, lifecycle.ErrNotApproved):
		target += "?error=not_approved"
	case errors.Is(err, lifecycle.ErrAlreadyCheckedIn):
		target += "?error=already_checked_in"
	case errors.Is(err, lifecycle.ErrNotFound):
		target += "?error=not_found"
	default:
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func checkinErrorMessage(code string) string {
	switch code {
	case "invalid_token":
		return "Invalid code."
	case "not_approved":
		return "This guest is not approved."
	case "already_checked_in":
		return "This guest has already checked in."
	case "not_found":
		return "Guest not found."
	default:
		return ""
	}
}
