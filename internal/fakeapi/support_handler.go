package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListSupport returns all support queries in arrival order.
// @Router /support [get]
func (s *Server) ListSupport(c *gin.Context) {
	respond(c, http.StatusOK, s.store.Support())
}
