package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

type issueFunc func(r *http.Request, username, password string) (*models.User, string, error)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, http.StatusOK, func(r *http.Request, u, p string) (*models.User, string, error) {
		return s.users.Login(r.Context(), u, p)
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, http.StatusCreated, func(r *http.Request, u, p string) (*models.User, string, error) {
		return s.users.Register(r.Context(), u, p)
	})
}

// submit reads the url-encoded form, runs issue and on success sets the
// session cookie and answers with the user.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, okStatus int, issue issueFunc) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, common.ErrorBody{Error: services.MsgMissingFields})
		return
	}
	username := r.PostForm.Get(common.FieldUsername)
	password := r.PostForm.Get(common.FieldPassword)

	user, token, err := issue(r, username, password)
	if err != nil {
		var ie *services.InputError
		switch {
		case errors.As(err, &ie):
			writeJSON(w, http.StatusBadRequest, common.ErrorBody{Error: ie.Message})
		case errors.Is(err, common.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, common.ErrorBody{Error: services.MsgUsernameTaken})
		case errors.Is(err, common.ErrorUnauthorized):
			s.logger.Warn(ctx, "failed login attempt", "username", username, "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, common.ErrorBody{Error: services.MsgBadCredentials})
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(ctx, "session issued", "username", user.UserName, "path", r.URL.Path)
	s.setSessionCookie(w, token)
	writeJSON(w, okStatus, userBody(user))
}

// logout needs no session: it always clears the cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) checkSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userBody(userFromContext(r.Context())))
}

func (s *Server) allUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	body := common.UsersBody{Users: make([]common.UserBody, 0, len(users))}
	for i := range users {
		body.Users = append(body.Users, userBody(&users[i]))
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.users.SessionValidity() / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "deleted",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, common.ErrorBody{Error: "Internal server error"})
}

func userBody(u *models.User) common.UserBody {
	return common.UserBody{UserID: u.ID, Username: u.UserName}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
