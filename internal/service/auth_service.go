package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/session"

	"github.com/rs/zerolog/log"
)

// --- Error Definitions ---
var (
	ErrMissingCredentials = errors.New("email and password cannot be empty")
)

const (
	msgInvalidCredentials = "Invalid credentials. Please check your email and password."
	msgServiceNotFound    = "Service not found. Please contact support."
	msgTooManyAttempts    = "Too many login attempts. Please try again later."
	msgServerError        = "Server error. Please try again later."
	msgLoginFailed        = "Login failed. Please try again."
	msgInvalidFormat      = "Invalid response format from server."
)

// AuthService acquires and releases the operator's session.
type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Operator, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client    Requester
	session   *session.Session
	navigator nav.Navigator
}

func NewAuthService(client Requester, sess *session.Session, navigator nav.Navigator) AuthService {
	return &authService{client: client, session: sess, navigator: navigator}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Operator `json:"user"`
}

// Login exchanges credentials for a bearer token and stores it. A 401 here
// is a wrong password, not an expired session, so it never redirects.
func (s *authService) Login(ctx context.Context, email, password string) (domain.Operator, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Operator{}, ErrMissingCredentials
	}

	data, err := s.client.Public(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		log.Warn().Str("module", "service.auth").Str("email", email).Err(err).Msg("login failed")
		return domain.Operator{}, loginError(err)
	}

	resp, err := api.Decode[loginResponse](data)
	if err != nil || resp.Token == "" {
		return domain.Operator{}, &apierr.Error{Kind: apierr.NetworkError, Status: http.StatusOK, Message: msgInvalidFormat, Err: err}
	}
	if err := s.session.Acquire(resp.Token); err != nil {
		return domain.Operator{}, err
	}
	log.Info().Str("module", "service.auth").Str("email", email).Msg("logged in")
	return resp.User, nil
}

// Logout tells the backend and clears the local credential. A failed
// backend call is logged, not returned: the operator is signed out either
// way.
func (s *authService) Logout(ctx context.Context) error {
	if s.session.Authenticated() && !s.session.Expired() {
		_, err := s.client.Authorized(ctx, api.Request{Method: http.MethodPost, Path: "/auth/logout"})
		if err != nil && !apierr.IsAuth(err) {
			log.Warn().Str("module", "service.auth").Err(err).Msg("logout request failed")
		}
	}
	if err := s.session.Clear(); err != nil {
		return err
	}
	if s.navigator != nil {
		s.navigator.Navigate(nav.RouteLogin)
	}
	log.Info().Str("module", "service.auth").Msg("logged out")
	return nil
}

// loginError replaces the generic request failure with the login screen's
// status-specific wording.
func loginError(err error) error {
	var e *apierr.Error
	if !errors.As(err, &e) || e.Kind != apierr.RequestFailed {
		return err
	}
	msg := e.Message
	switch e.Status {
	case http.StatusUnauthorized:
		if msg == "" || strings.HasPrefix(msg, "Request failed with status") {
			msg = msgInvalidCredentials
		}
	case http.StatusNotFound:
		msg = msgServiceNotFound
	case http.StatusTooManyRequests:
		msg = msgTooManyAttempts
	case http.StatusInternalServerError:
		msg = msgServerError
	default:
		if msg == "" || strings.HasPrefix(msg, "Request failed with status") {
			msg = msgLoginFailed
		}
	}
	return &apierr.Error{Kind: apierr.RequestFailed, Status: e.Status, Message: msg, Err: err}
}
