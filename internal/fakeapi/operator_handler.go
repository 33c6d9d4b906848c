package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/validation"

	"github.com/gin-gonic/gin"
)

// ProfileRequest is sent as a multipart form so a new picture can ride
// along.
type ProfileRequest struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
	Phone string `form:"phone" binding:"omitempty,numeric,len=10"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// GetProfile returns the operator the token was issued to.
// @Router /gym-owner/by-token [get]
func (s *Server) GetProfile(c *gin.Context) {
	op, err := s.store.Operator(c.GetString(ContextOperatorIDKey))
	if err != nil {
		s.writeOperatorError(c, err)
		return
	}
	respond(c, http.StatusOK, op)
}

// @Router /gym-owner/update [put]
func (s *Server) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	patch := domain.Operator{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		ProfileImage: uploadedRef(c, "profile_image", "operators"),
	}
	op, err := s.store.UpdateOperator(c.GetString(ContextOperatorIDKey), patch)
	if err != nil {
		s.writeOperatorError(c, err)
		return
	}
	respond(c, http.StatusOK, op)
}

// @Router /gym-owner/change-password [post]
func (s *Server) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		abortWithError(c, http.StatusBadRequest, "New password and confirmation do not match")
		return
	}
	if !validation.StrongPassword(req.NewPassword) {
		abortWithError(c, http.StatusBadRequest, "Password does not meet the strength requirements")
		return
	}
	if err := s.store.ChangePassword(c.GetString(ContextOperatorIDKey), req.OldPassword, req.NewPassword); err != nil {
		s.writeOperatorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// ListUsers returns every app user at once; the client pages locally.
// @Router /users/get-all [get]
func (s *Server) ListUsers(c *gin.Context) {
	respond(c, http.StatusOK, s.store.Members())
}

func (s *Server) writeOperatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		abortWithError(c, http.StatusNotFound, "")
	case errors.Is(err, ErrWrongPassword):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		s.writeStoreError(c, err)
	}
}
