// Package fakeapi is an in-memory implementation of the gym back-office REST
// backend. It backs the client's tests and the gymctl serve command.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultTokenTTL = time.Hour

type fault struct {
	status  int
	message string
	raw     string
}

// Server serves the REST API over a Store.
type Server struct {
	store    *Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	engine   *gin.Engine
	metrics  *metrics

	mu            sync.Mutex
	hits          map[string]int
	faults        map[string]fault
	revokedTokens map[string]struct{}
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock sets the time tokens are issued at.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

func New(opts ...Option) *Server {
	s := &Server{
		store:         NewStore(),
		secret:        []byte("fakeapi-secret"),
		tokenTTL:      defaultTokenTTL,
		now:           time.Now,
		hits:          map[string]int{},
		faults:        map[string]fault{},
		revokedTokens: map[string]struct{}{},
		metrics:       newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), s.metrics.middleware())
	s.SetupRoutes(router)
	s.engine = router
	return s
}

// SetupRoutes registers the API on router. Paths are relative to the API
// base URL.
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", s.metrics.handler())

	router.Use(s.faultMiddleware())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", s.Login)
		authGroup.POST("/logout", s.AuthMiddleware(), s.Logout)
	}

	protected := router.Group("")
	protected.Use(s.AuthMiddleware())
	{
		members := protected.Group("/members")
		{
			members.GET("", s.ListMembers)
			members.GET("/:id", s.GetMember)
			members.POST("", s.CreateMember)
			members.PUT("/:id", s.UpdateMember)
			members.DELETE("/:id", s.DeleteMember)
		}

		equipment := protected.Group("/equipment")
		{
			equipment.GET("", s.ListEquipment)
			equipment.POST("", s.CreateEquipment)
			equipment.PUT("/:id", s.UpdateEquipment)
			equipment.DELETE("/:id", s.DeleteEquipment)
		}

		protected.GET("/support", s.ListSupport)
		protected.GET("/users/get-all", s.ListUsers)

		owner := protected.Group("/gym-owner")
		{
			owner.GET("/by-token", s.GetProfile)
			owner.PUT("/update", s.UpdateProfile)
			owner.POST("/change-password", s.ChangePassword)
		}
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Store() *Store { return s.store }

// Fail makes the next request to route answer status with message. route
// is the registered pattern, e.g. "/members/:id".
func (s *Server) Fail(method, route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, route)] = fault{status: status, message: message}
}

// FailRaw is Fail with a non-JSON body.
func (s *Server) FailRaw(method, route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, route)] = fault{status: status, raw: body}
}

// Hits counts requests that reached route.
func (s *Server) Hits(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, route)]
}

// TotalHits counts every request except /ping and /metrics.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}
