package service

import (
	"context"
	"net/http"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
)

const supportPath = "/support"

// Support list screens sort newest first until the operator picks a column.
const (
	SupportDefaultSort  = "created_at"
	SupportDefaultOrder = directory.Desc
)

// SupportService reads member support queries. They cannot be edited.
type SupportService interface {
	List(ctx context.Context) ([]domain.SupportQuery, error)
	Directory() *directory.LocalFetcher[domain.SupportQuery]
}

type supportService struct {
	client Requester
}

func NewSupportService(client Requester) SupportService {
	return &supportService{client: client}
}

func (s *supportService) List(ctx context.Context) ([]domain.SupportQuery, error) {
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: supportPath})
	if err != nil {
		return nil, err
	}
	return api.Decode[[]domain.SupportQuery](data)
}

func (s *supportService) Directory() *directory.LocalFetcher[domain.SupportQuery] {
	return directory.NewLocalFetcher(s.List, nil)
}
