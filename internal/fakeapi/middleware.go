package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

// Constants for context keys
const (
	ContextOperatorIDKey = "operatorID"
	ContextTokenKey      = "token"
)

// jwtClaims defines the structure of the operator token payload.
type jwtClaims struct {
	OperatorID string `json:"uid"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.OperatorID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}
		if s.revoked(tokenString) {
			abortWithError(c, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		c.Set(ContextOperatorIDKey, claims.OperatorID)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

// faultMiddleware counts every request and answers with an injected
// failure when one is queued for the route.
func (s *Server) faultMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := routeKey(c.Request.Method, c.FullPath())
		s.mu.Lock()
		s.hits[key]++
		f, ok := s.faults[key]
		if ok {
			delete(s.faults, key)
		}
		s.mu.Unlock()

		if ok {
			if f.raw != "" {
				c.Data(f.status, "text/plain; charset=utf-8", []byte(f.raw))
				c.Abort()
				return
			}
			abortWithError(c, f.status, f.message)
			return
		}
		c.Next()
	}
}

// requestLogger logs each request once it has been served.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Str("module", "fakeapi").Str("method", c.Request.Method).Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).Dur("elapsed", time.Since(start)).Msg("served")
	}
}

// Helper to return the error envelope and abort the request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}

func respond(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func routeKey(method, path string) string {
	return method + " " + path
}
