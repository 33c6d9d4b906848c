package fakeapi

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// --- Request/Response Structs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  domain.Operator `json:"user"`
}

// --- Handler Methods ---

// Login checks the operator's credentials and issues a bearer token.
// @Router /auth/login [post]
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	op, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := s.IssueToken(op)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}
	s.metrics.sessions.Inc()
	respond(c, http.StatusOK, LoginResponse{Token: token, User: op})
}

// Logout revokes the presented token.
// @Router /auth/logout [post]
func (s *Server) Logout(c *gin.Context) {
	token := c.GetString(ContextTokenKey)
	s.mu.Lock()
	s.revokedTokens[token] = struct{}{}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// --- JWT Helper ---

// IssueToken signs a token for op that expires after the server's TTL.
func (s *Server) IssueToken(op domain.Operator) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		OperatorID: op.ID,
		Email:      op.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gym-backoffice",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) revoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revokedTokens[token]
	return ok
}

