package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role separates the two gated areas: the admin panel and the door
// check-in screen. Admins may also run the door.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleDoor  Role = "door"
)

const sessionCookieName = "session_token"

// sessionStore keeps active session tokens in memory. Sessions do not
// survive a restart; staff simply sign in again.
type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]Role
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: make(map[string]Role)}
}

func (s *sessionStore) create(role Role) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = role
	return token
}

func (s *sessionStore) role(token string) (Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.tokens[token]
	return role, ok
}

func (s *sessionStore) destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// login verifies the submitted password against the configured bcrypt
// hash and opens a session. An empty hash disables the login entirely.
func (s *Server) login(w http.ResponseWriter, role Role, hash, password string) bool {
	if hash == "" {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return false
	}
	token := s.sessions.create(role)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(12 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.destroy(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) sessionRole(r *http.Request) (Role, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return s.sessions.role(cookie.Value)
}

// requireAdmin gates the admin panel.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if role, ok := s.sessionRole(r); !ok || role != RoleAdmin {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requireDoor gates the check-in screen. Admin sessions pass too.
func (s *Server) requireDoor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := s.sessionRole(r)
		if !ok || (role != RoleDoor && role != RoleAdmin) {
			http.Redirect(w, r, "/checkin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
