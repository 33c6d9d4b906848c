package service

import (
	"context"
	"net/http"
	"strconv"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"

	"github.com/rs/zerolog/log"
)

const (
	membersPath       = "/members"
	profileImageField = "profileImage"
)

// MemberService is the members resource. It is both the directory's fetcher
// and the mutation coordinator's remote.
type MemberService interface {
	Fetch(ctx context.Context, q directory.Query) (directory.Page[domain.Member], error)
	Get(ctx context.Context, id string) (domain.Member, error)
	Create(ctx context.Context, m domain.Member, image *domain.Attachment) (domain.Member, error)
	Update(ctx context.Context, id string, m domain.Member, image *domain.Attachment) (domain.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	client Requester
}

func NewMemberService(client Requester) MemberService {
	return &memberService{client: client}
}

type memberPage struct {
	Items []domain.Member `json:"items"`
	Total int             `json:"total"`
}

// Fetch loads one server-side page: GET /members?page&size&sortBy&order.
func (s *memberService) Fetch(ctx context.Context, q directory.Query) (directory.Page[domain.Member], error) {
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: membersPath, Query: pageQuery(q)})
	if err != nil {
		return directory.Page[domain.Member]{}, err
	}
	page, err := api.Decode[memberPage](data)
	if err != nil {
		return directory.Page[domain.Member]{}, err
	}
	return directory.Page[domain.Member]{Items: page.Items, Total: page.Total}, nil
}

func (s *memberService) Get(ctx context.Context, id string) (domain.Member, error) {
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: resourcePath(membersPath, id)})
	if err != nil {
		return domain.Member{}, err
	}
	return api.Decode[domain.Member](data)
}

// Create registers a member. With an image the body is multipart.
func (s *memberService) Create(ctx context.Context, m domain.Member, image *domain.Attachment) (domain.Member, error) {
	return s.write(ctx, http.MethodPost, membersPath, m, image)
}

// Update replaces the whole member record.
func (s *memberService) Update(ctx context.Context, id string, m domain.Member, image *domain.Attachment) (domain.Member, error) {
	m.ID = id
	return s.write(ctx, http.MethodPut, resourcePath(membersPath, id), m, image)
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Authorized(ctx, api.Request{Method: http.MethodDelete, Path: resourcePath(membersPath, id)})
	return err
}

func (s *memberService) write(ctx context.Context, method, path string, m domain.Member, image *domain.Attachment) (domain.Member, error) {
	req := api.Request{Method: method, Path: path}
	if image != nil {
		req.Form = &api.Multipart{Fields: memberFields(m), FileField: profileImageField, File: image}
	} else {
		req.Body = m
	}

	data, err := s.client.Authorized(ctx, req)
	if err != nil {
		return domain.Member{}, err
	}
	saved, err := api.Decode[domain.Member](data)
	if err != nil {
		log.Warn().Str("module", "service.member").Str("path", path).Err(err).Msg("undecodable member in response")
		return domain.Member{}, err
	}
	return saved, nil
}

// memberFields flattens a member into multipart form fields keyed by the
// JSON names.
func memberFields(m domain.Member) map[string]string {
	fields := map[string]string{
		"firstName":        m.FirstName,
		"lastName":         m.LastName,
		"dateOfBirth":      m.DateOfBirth,
		"gender":           string(m.Gender),
		"weight":           strconv.FormatFloat(m.Weight, 'f', -1, 64),
		"email":            m.Email,
		"phone":            m.Phone,
		"countryCode":      m.CountryCode,
		"subscriptionType": string(m.SubscriptionType),
		"dateOfJoining":    m.DateOfJoining,
		"healthInfo":       m.HealthInfo,
		"status":           strconv.FormatBool(m.Status),
	}
	if m.ID != "" {
		fields["id"] = m.ID
	}
	return fields
}
