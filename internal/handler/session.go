package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mangobar/mangobar-web/internal/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "mangobar_session"

// AccessKeyHeader lets API clients supply the access key per request instead
// of holding a session cookie.
const AccessKeyHeader = "X-Access-Key"

// currentSession returns the session referenced by the request cookie.
func (s *Server) currentSession(r *http.Request) (session.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return session.Session{}, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return session.Session{}, false
	}
	return s.sessions.Get(id)
}

func (s *Server) authenticated(r *http.Request) bool {
	sess, ok := s.currentSession(r)
	return ok && sess.State == session.Authenticated
}

// PostSession handles POST /session: it captures the access key from the
// form and marks the session Authenticated. A blank key re-renders the key
// form with a warning.
func (s *Server) PostSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, pageData{Warning: "요청을 읽을 수 없습니다."})
		return
	}

	sess, ok := s.currentSession(r)
	if !ok {
		sess = s.sessions.Start()
	}
	if err := sess.Authenticate(r.PostForm.Get("access_key")); err != nil {
		if !ok {
			s.sessions.End(sess.ID)
		}
		if errors.Is(err, session.ErrEmptyKey) {
			s.render(w, r, http.StatusUnprocessableEntity, pageData{Warning: "인증키를 입력해주세요."})
			return
		}
		s.render(w, r, http.StatusInternalServerError, pageData{Warning: "인증 처리 중 오류가 발생했습니다."})
		return
	}
	s.sessions.Save(sess)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.InfoContext(r.Context(), "session authenticated", "session_id", sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PostSessionEnd handles POST /session/end: it forgets the session and
// clears the cookie.
func (s *Server) PostSessionEnd(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.currentSession(r); ok {
		s.sessions.End(sess.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requireSessionPage sends unauthenticated browsers back to the key form.
func (s *Server) requireSessionPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSessionAPI accepts an authenticated session cookie or a non-blank
// X-Access-Key header, and answers 401 otherwise.
func (s *Server) requireSessionAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) && strings.TrimSpace(r.Header.Get(AccessKeyHeader)) == "" {
			writeJSON(w, http.StatusUnauthorized, unauthorizedBody())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionState reports how r is authenticated, for request logging:
// "authenticated" for a session cookie, "access_key" for the API header,
// "unauthenticated" otherwise.
func (s *Server) SessionState(r *http.Request) string {
	if s.authenticated(r) {
		return session.Authenticated.String()
	}
	if strings.TrimSpace(r.Header.Get(AccessKeyHeader)) != "" {
		return "access_key"
	}
	return session.Unauthenticated.String()
}
