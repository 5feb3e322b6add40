package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const (
	defaultTokenTTL = 15 * time.Minute
	homePath        = "/"
	sseBuffer       = 8
)

type Server struct {
	Gate     *Gate
	JWT      *TokenMaker
	Log      *zap.Logger
	TokenTTL time.Duration

	LoginLimiter    *kit.IPRateLimiter
	RegisterLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Route("/auth", func(rr chi.Router) {
		rr.With(limit(s.RegisterLimiter)).Post("/register", s.handleRegister)
		rr.With(limit(s.LoginLimiter)).Post("/login", s.handleLogin)
		rr.Post("/logout", s.handleLogout)
		rr.Get("/session", s.handleSession)
		rr.Get("/whoami", s.handleWhoAmI)
		rr.Get("/events", s.handleEvents)
	})
}

func limit(l *kit.IPRateLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware
}

type registerReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	State       State    `json:"state"`
	Session     *Session `json:"session,omitempty"`
	AccessToken string   `json:"access_token,omitempty"`
	Redirect    string   `json:"redirect,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	client, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req registerReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	sess, err := s.Gate.Register(r.Context(), client, Registration{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.writeGateError(w, r, err, "Registration failed. Please try again.")
		return
	}

	s.writeSession(w, r, http.StatusCreated, client, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	client, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	sess, err := s.Gate.Login(r.Context(), client, req.Email, req.Password)
	if err != nil {
		s.writeGateError(w, r, err, "Login failed. Please try again.")
		return
	}

	s.writeSession(w, r, http.StatusOK, client, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	client, ok := requireClient(w, r)
	if !ok {
		return
	}

	if err := s.Gate.Logout(r.Context(), client); err != nil {
		s.logError("logout failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sessionResp{State: LoggedOut, Redirect: homePath})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	client, ok := requireClient(w, r)
	if !ok {
		return
	}

	sess, found, err := s.Gate.Sessions.Current(r.Context(), client)
	if err != nil {
		s.logError("read session failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteJSON(w, http.StatusOK, sessionResp{State: LoggedOut})
		return
	}
	kit.WriteJSON(w, http.StatusOK, sessionResp{State: LoggedIn, Session: &sess})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	tok, ok := kit.BearerToken(r)
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	claims, err := s.JWT.Parse(tok)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"name":   claims.Name,
		"email":  claims.Email,
		"client": claims.Client,
	})
}

// handleEvents streams this client's session changes as server-sent
// events, starting with the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	client, ok := requireClient(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	events, cancel := s.Gate.Events.Subscribe(sseBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := s.writeCurrent(r.Context(), w, client); err != nil {
		s.logError("session stream failed", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Client != client {
				continue
			}
			if err := writeSSE(w, string(e.Kind), e); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) writeCurrent(ctx context.Context, w http.ResponseWriter, client string) error {
	sess, found, err := s.Gate.Sessions.Current(ctx, client)
	if err != nil {
		return err
	}
	cur := sessionResp{State: LoggedOut}
	if found {
		cur = sessionResp{State: LoggedIn, Session: &sess}
	}
	return writeSSE(w, "state", cur)
}

func writeSSE(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, client string, sess Session) {
	resp := sessionResp{State: LoggedIn, Session: &sess, Redirect: homePath}

	if s.JWT != nil {
		ttl := s.TokenTTL
		if ttl <= 0 {
			ttl = defaultTokenTTL
		}
		tok, err := s.JWT.New(sess, client, ttl)
		if err != nil {
			s.logError("token issue", err)
		} else {
			resp.AccessToken = tok
		}
	}

	kit.WriteJSON(w, status, resp)
}

func (s *Server) writeGateError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		kit.WriteError(w, r, http.StatusBadRequest, ve.Msg, nil)
	case errors.Is(err, ErrDuplicateEmail):
		kit.WriteError(w, r, http.StatusConflict, "Email already registered", nil)
	case errors.Is(err, ErrInvalidCredentials):
		kit.WriteError(w, r, http.StatusUnauthorized, "Invalid email or password", nil)
	default:
		s.logError("auth failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, fallback, nil)
	}
}

func (s *Server) logError(msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
}

func requireClient(w http.ResponseWriter, r *http.Request) (string, bool) {
	client, ok := kit.ClientFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "missing client context", nil)
	}
	return client, ok
}
