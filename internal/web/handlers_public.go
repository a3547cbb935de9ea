package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"event-rsvp/internal/lifecycle"
	"event-rsvp/internal/models"
)

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	info, err := s.settings.EventInfo(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "public/welcome.html", map[string]any{
		"Title": info.Name,
		"Event": info,
	})
}

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	info, err := s.settings.EventInfo(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "public/form.html", map[string]any{
		"Title": "Confirm attendance",
		"Event": info,
		"Form":  lifecycle.RegisterInput{},
	})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	in := lifecycle.RegisterInput{
		Name:          r.FormValue("name"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		Instagram:     r.FormValue("instagram"),
		HasCompanion:  r.FormValue("has_companion") == "on",
		AcceptedTerms: r.FormValue("accepted_terms") == "on",
	}

	_, err := s.lifecycle.Register(r.Context(), in)
	if err != nil {
		info, infoErr := s.settings.EventInfo(r.Context())
		if infoErr != nil {
			s.serverError(w, infoErr)
			return
		}

		var verr *lifecycle.ValidationError
		data := map[string]any{
			"Title": "Confirm attendance",
			"Event": info,
			"Form":  in,
		}
		switch {
		case errors.As(err, &verr):
			data["Error"] = verr.Error()
			s.render(w, http.StatusUnprocessableEntity, "public/form.html", data)
		case errors.Is(err, lifecycle.ErrDuplicateEmail):
			data["Error"] = "This email has already been registered."
			s.render(w, http.StatusConflict, "public/form.html", data)
		default:
			s.serverError(w, err)
		}
		return
	}
	http.Redirect(w, r, "/rsvp/success", http.StatusSeeOther)
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	info, err := s.settings.EventInfo(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "public/success.html", map[string]any{
		"Title":     "Attendance confirmed",
		"Event":     info,
		"ShareLink": shareLink(info),
	})
}

// shareLink builds the wa.me share URL for a confirmed guest.
func shareLink(info models.EventInfo) string {
	message := fmt.Sprintf("I just confirmed my attendance at %s!\n\n%s\n%s\n\nSee you there!",
		info.Name, info.Date, info.Location)
	return "https://wa.me/?text=" + url.QueryEscape(message)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("Request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
