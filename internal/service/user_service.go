package service

import (
	"context"
	"net/http"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
)

const usersPath = "/users/get-all"

// UserService reads every registered app user in one call. Users share the
// member record shape.
type UserService interface {
	List(ctx context.Context) ([]domain.Member, error)
	Directory() *directory.LocalFetcher[domain.Member]
}

type userService struct {
	client Requester
}

func NewUserService(client Requester) UserService {
	return &userService{client: client}
}

func (s *userService) List(ctx context.Context) ([]domain.Member, error) {
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: usersPath})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return []domain.Member{}, nil
	}
	return api.Decode[[]domain.Member](data)
}

func (s *userService) Directory() *directory.LocalFetcher[domain.Member] {
	return directory.NewLocalFetcher(s.List, nil)
}
