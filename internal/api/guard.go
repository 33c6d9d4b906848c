// Package api is the Session Guard: the only place the client talks HTTP.
// It attaches the bearer credential, unwraps the response envelope and turns
// every failure into an apierr kind. Authorization failures end the session
// globally, whichever component issued the call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/session"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 8 << 20
)

// Request describes one backend call. Body is JSON-encoded unless Form is set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *Multipart
}

// Guard wraps every outbound request.
type Guard struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	navigator  nav.Navigator
	loginRoute string
}

type Option func(*Guard)

// WithHTTPClient replaces the default client (tests pass httptest clients).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Guard) { g.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.httpClient.Timeout = d
		}
	}
}

// WithLoginRoute changes where the operator is sent when the session ends.
func WithLoginRoute(route string) Option {
	return func(g *Guard) { g.loginRoute = route }
}

func NewGuard(baseURL string, sess *session.Session, navigator nav.Navigator, opts ...Option) *Guard {
	g := &Guard{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    sess,
		navigator:  navigator,
		loginRoute: nav.RouteLogin,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorized sends req with the bearer credential and returns the envelope's
// data. Without a credential the request is never sent.
func (g *Guard) Authorized(ctx context.Context, req Request) (json.RawMessage, error) {
	token := g.session.Token()
	if token == "" {
		g.endSession(req, "no stored credential")
		return nil, apierr.NewUnauthenticated()
	}
	if g.session.Expired() {
		g.endSession(req, "credential expired at rest")
		return nil, apierr.NewSessionExpired("")
	}
	return g.send(ctx, req, token)
}

// Public sends req without a credential and without the 401 redirect; it is
// used by login, where 401 means wrong email or password.
func (g *Guard) Public(ctx context.Context, req Request) (json.RawMessage, error) {
	return g.send(ctx, req, "")
}

func (g *Guard) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return g.Authorized(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (g *Guard) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return g.Authorized(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (g *Guard) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return g.Authorized(ctx, Request{Method: http.MethodDelete, Path: path})
}

// envelope mirrors domain.Envelope with the data left undecoded.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (g *Guard) send(ctx context.Context, req Request, token string) (json.RawMessage, error) {
	httpReq, err := g.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Str("module", "api.guard").Str("method", req.Method).Str("path", req.Path).Err(err).Msg("transport failure")
		return nil, apierr.NewNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apierr.NewNetwork(err)
	}
	log.Debug().Str("module", "api.guard").Str("method", req.Method).Str("path", req.Path).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request")

	var env envelope
	decodeErr := decodeEnvelope(body, &env)

	if token != "" && resp.StatusCode == http.StatusUnauthorized {
		g.endSession(req, "server rejected credential")
		return nil, apierr.NewSessionExpired(env.Message)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.NewRequestFailed(resp.StatusCode, env.Message)
	}
	if decodeErr != nil {
		return nil, apierr.NewBadResponse(resp.StatusCode, decodeErr)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request was not successful"
		}
		return nil, apierr.NewRequestFailed(resp.StatusCode, msg)
	}
	return env.Data, nil
}

func (g *Guard) build(ctx context.Context, req Request) (*http.Request, error) {
	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.Encode()
		if err != nil {
			return nil, fmt.Errorf("api: encode multipart: %w", err)
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("api: encode body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// endSession clears the credential and forces navigation to login.
func (g *Guard) endSession(req Request, reason string) {
	log.Warn().Str("module", "api.guard").Str("method", req.Method).Str("path", req.Path).
		Str("reason", reason).Msg("session ended, redirecting to login")
	if err := g.session.Clear(); err != nil {
		log.Error().Str("module", "api.guard").Err(err).Msg("failed to clear credential")
	}
	if g.navigator != nil {
		g.navigator.Navigate(g.loginRoute)
	}
}

var errEmptyBody = errors.New("empty response body")

func decodeEnvelope(body []byte, env *envelope) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, env)
}

// Decode unmarshals an envelope's data into T. A missing or malformed
// payload is reported as a bad response.
func Decode[T any](data json.RawMessage) (T, error) {
	var out T
	if len(data) == 0 || string(data) == "null" {
		return out, apierr.NewBadResponse(http.StatusOK, errEmptyBody)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, apierr.NewBadResponse(http.StatusOK, err)
	}
	return out, nil
}
