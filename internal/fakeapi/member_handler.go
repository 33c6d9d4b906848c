package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// --- DTOs for API (Data Transfer Objects) ---

// MemberRequest is accepted as JSON or, with a profile image, as a
// multipart form.
type MemberRequest struct {
	FirstName        string  `json:"firstName" form:"firstName" binding:"required,min=2"`
	LastName         string  `json:"lastName" form:"lastName" binding:"required"`
	DateOfBirth      string  `json:"dateOfBirth" form:"dateOfBirth" binding:"required,datetime=2006-01-02"`
	Gender           string  `json:"gender" form:"gender" binding:"required"`
	Weight           float64 `json:"weight" form:"weight" binding:"required,gte=20,lte=500"`
	Email            string  `json:"email" form:"email" binding:"required,email"`
	Phone            string  `json:"phone" form:"phone" binding:"required,numeric,len=10"`
	CountryCode      string  `json:"countryCode" form:"countryCode" binding:"required"`
	SubscriptionType string  `json:"subscriptionType" form:"subscriptionType" binding:"required,oneof=Monthly Quarterly Yearly"`
	DateOfJoining    string  `json:"dateOfJoining" form:"dateOfJoining" binding:"required,datetime=2006-01-02"`
	HealthInfo       string  `json:"healthInfo" form:"healthInfo"`
	Status           *bool   `json:"status" form:"status"`
}

func (r MemberRequest) toDomain() domain.Member {
	health := strings.TrimSpace(r.HealthInfo)
	if health == "" {
		health = domain.NoHealthIssues
	}
	status := true
	if r.Status != nil {
		status = *r.Status
	}
	return domain.Member{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		DateOfBirth:      r.DateOfBirth,
		Gender:           domain.Gender(r.Gender),
		Weight:           r.Weight,
		Email:            r.Email,
		Phone:            r.Phone,
		CountryCode:      r.CountryCode,
		SubscriptionType: domain.SubscriptionType(r.SubscriptionType),
		DateOfJoining:    r.DateOfJoining,
		HealthInfo:       health,
		Status:           status,
	}
}

type memberPage struct {
	Items []domain.Member `json:"items"`
	Total int             `json:"total"`
}

// --- Handler Methods ---

// ListMembers pages and sorts the members collection.
// @Router /members [get]
func (s *Server) ListMembers(c *gin.Context) {
	q, err := parsePageQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	page := directory.PageLocally(s.store.Members(), q)
	respond(c, http.StatusOK, memberPage{Items: page.Items, Total: page.Total})
}

// @Router /members/{id} [get]
func (s *Server) GetMember(c *gin.Context) {
	m, err := s.store.Member(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Member not found")
		return
	}
	respond(c, http.StatusOK, m)
}

// @Router /members [post]
func (s *Server) CreateMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	m := req.toDomain()
	m.ProfileImage = uploadedRef(c, "profileImage", "members")

	created, err := s.store.CreateMember(m)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// @Router /members/{id} [put]
func (s *Server) UpdateMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	m := req.toDomain()
	m.ProfileImage = uploadedRef(c, "profileImage", "members")

	updated, err := s.store.UpdateMember(c.Param("id"), m)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// @Router /members/{id} [delete]
func (s *Server) DeleteMember(c *gin.Context) {
	if err := s.store.DeleteMember(c.Param("id")); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member deleted"})
}

func parsePageQuery(c *gin.Context) (directory.Query, error) {
	q := directory.Query{Page: 0, Size: directory.DefaultPageSize, SortBy: c.Query("sortBy"), Order: directory.Asc}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, errors.New("page must be a non-negative integer")
		}
		q.Page = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return q, errors.New("size must be a positive integer")
		}
		q.Size = n
	}
	if strings.EqualFold(c.Query("order"), string(directory.Desc)) {
		q.Order = directory.Desc
	}
	return q, nil
}

// uploadedRef returns the object key for an uploaded file part, or "" when
// the request carried none.
func uploadedRef(c *gin.Context, field, prefix string) string {
	fh, err := c.FormFile(field)
	if err != nil {
		return ""
	}
	return path.Join(prefix, uuid.NewString()[:8]+"-"+path.Base(fh.Filename))
}

func (s *Server) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateNumber):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
