package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

const maxBodyBytes = 1 << 20

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type userResponse struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginRecordResponse struct {
	ID          string    `json:"id"`
	AttemptedAt time.Time `json:"attempted_at"`
	RemoteAddr  string    `json:"remote_addr"`
	Success     bool      `json:"success"`
}

type loginHistoryResponse struct {
	Items []loginRecordResponse `json:"items"`
}

func (s *HTTPServer) root(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Hello")
}

func (s *HTTPServer) about(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "This is the about page.")
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Ping(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Service Unavailable")
		return
	}
	writeMessage(w, http.StatusOK, "ok")
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeMappedError(w, r, "signup", err)
		return
	}

	if _, err := s.users.Signup(r.Context(), req); err != nil {
		s.writeMappedError(w, r, "signup", err)
		return
	}
	writeMessage(w, http.StatusCreated, "Signup successful")
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeMappedError(w, r, "login", err)
		return
	}
	req.RemoteAddr = readIP(r)

	session, err := s.users.Login(r.Context(), req)
	if err != nil {
		s.writeMappedError(w, r, "login", err)
		return
	}

	resp := loginResponse{AccessToken: session.Token, TokenType: "bearer"}
	if !session.ExpiresAt.IsZero() {
		resp.ExpiresAt = &session.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// logout only needs a well-formed header; an unknown or already invalidated
// token still logs out successfully.
func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	token, err := bearerTokenFromHeader(r.Header.Get(common.AuthorizationHeaderName))
	if err != nil {
		s.writeMappedError(w, r, "logout", common.ErrorUnauthorized)
		return
	}

	if err := s.users.Logout(r.Context(), token); err != nil {
		s.writeMappedError(w, r, "logout", err)
		return
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		s.writeMappedError(w, r, "profile", common.ErrorUnauthorized)
		return
	}

	user, err := s.users.Profile(r.Context(), session.UserID)
	if err != nil {
		s.writeMappedError(w, r, "profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Message: "Profile info",
		User: userResponse{
			ID:        user.ID,
			UserName:  user.UserName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

func (s *HTTPServer) loginHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		s.writeMappedError(w, r, "login_history", common.ErrorUnauthorized)
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), services.DefaultHistoryLimit)
	recs, err := s.users.LoginHistory(r.Context(), session.UserID, limit)
	if err != nil {
		s.writeMappedError(w, r, "login_history", err)
		return
	}

	items := make([]loginRecordResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, loginRecordResponse{
			ID:          rec.ID,
			AttemptedAt: rec.AttemptedAt,
			RemoteAddr:  rec.RemoteAddr,
			Success:     rec.Success,
		})
	}
	writeJSON(w, http.StatusOK, loginHistoryResponse{Items: items})
}

// decodeBody reads exactly one JSON object. Unknown fields are ignored; any
// decoding failure is reported as invalid input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must contain a single JSON value", common.ErrInvalidInput)
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// readIP returns the peer address without its port. Forwarding headers are
// honoured only through middleware.RealIP, which the router installs when
// proxy headers are trusted.
func readIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
