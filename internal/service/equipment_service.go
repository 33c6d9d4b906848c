package service

import (
	"context"
	"net/http"
	"net/url"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
)

const (
	equipmentPath       = "/equipment"
	equipmentImageField = "equipment_image"
)

// EquipmentService is the equipment resource. Writes are always multipart.
type EquipmentService interface {
	List(ctx context.Context, category domain.Category) ([]domain.Equipment, error)
	// Directory pages the collection, filtered to category, for a list
	// screen. The endpoint returns everything, so paging is local and the
	// fetcher keeps the whole list for the duplicate-number check.
	Directory(category domain.Category) *directory.LocalFetcher[domain.Equipment]
	Create(ctx context.Context, e domain.Equipment, image *domain.Attachment) (domain.Equipment, error)
	Update(ctx context.Context, id string, e domain.Equipment, image *domain.Attachment) (domain.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type equipmentService struct {
	client Requester
}

func NewEquipmentService(client Requester) EquipmentService {
	return &equipmentService{client: client}
}

// List returns all equipment, or only category when it is set.
func (s *equipmentService) List(ctx context.Context, category domain.Category) ([]domain.Equipment, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {string(category)}}
	}
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: equipmentPath, Query: query})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return []domain.Equipment{}, nil
	}
	return api.Decode[[]domain.Equipment](data)
}

func (s *equipmentService) Directory(category domain.Category) *directory.LocalFetcher[domain.Equipment] {
	return directory.NewLocalFetcher(
		func(ctx context.Context) ([]domain.Equipment, error) { return s.List(ctx, category) },
		func(e domain.Equipment) bool { return category == "" || e.Category == category },
	)
}

func (s *equipmentService) Create(ctx context.Context, e domain.Equipment, image *domain.Attachment) (domain.Equipment, error) {
	return s.write(ctx, http.MethodPost, equipmentPath, e, image)
}

func (s *equipmentService) Update(ctx context.Context, id string, e domain.Equipment, image *domain.Attachment) (domain.Equipment, error) {
	e.ID = id
	return s.write(ctx, http.MethodPut, resourcePath(equipmentPath, id), e, image)
}

func (s *equipmentService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Authorized(ctx, api.Request{Method: http.MethodDelete, Path: resourcePath(equipmentPath, id)})
	return err
}

func (s *equipmentService) write(ctx context.Context, method, path string, e domain.Equipment, image *domain.Attachment) (domain.Equipment, error) {
	data, err := s.client.Authorized(ctx, api.Request{
		Method: method,
		Path:   path,
		Form: &api.Multipart{
			Fields: map[string]string{
				"equipment_name":   e.Name,
				"equipment_number": e.Number,
				"category":         string(e.Category),
			},
			FileField: equipmentImageField,
			File:      image,
		},
	})
	if err != nil {
		return domain.Equipment{}, err
	}
	return api.Decode[domain.Equipment](data)
}
