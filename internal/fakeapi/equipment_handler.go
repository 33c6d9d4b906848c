package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

// --- DTOs for API (Data Transfer Objects) ---

// EquipmentRequest is always sent as a multipart form.
type EquipmentRequest struct {
	Name     string `form:"equipment_name" binding:"required"`
	Number   string `form:"equipment_number" binding:"required"`
	Category string `form:"category" binding:"required,oneof=Aerobic Exercise"`
}

func (r EquipmentRequest) toDomain() domain.Equipment {
	return domain.Equipment{
		Name:     strings.TrimSpace(r.Name),
		Number:   strings.TrimSpace(r.Number),
		Category: domain.Category(r.Category),
	}
}

// --- Handler Methods ---

// ListEquipment returns every item, or one category with ?category=.
// @Router /equipment [get]
func (s *Server) ListEquipment(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	if category != "" && category != domain.CategoryAerobic && category != domain.CategoryExercise {
		abortWithError(c, http.StatusBadRequest, "category must be Aerobic or Exercise")
		return
	}
	respond(c, http.StatusOK, s.store.Equipment(category))
}

// @Router /equipment [post]
func (s *Server) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	e := req.toDomain()
	e.Image = uploadedRef(c, "equipment_image", "equipment")

	created, err := s.store.CreateEquipment(e)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// @Router /equipment/{id} [put]
func (s *Server) UpdateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	e := req.toDomain()
	e.Image = uploadedRef(c, "equipment_image", "equipment")

	updated, err := s.store.UpdateEquipment(c.Param("id"), e)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// @Router /equipment/{id} [delete]
func (s *Server) DeleteEquipment(c *gin.Context) {
	if err := s.store.DeleteEquipment(c.Param("id")); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
