package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/domain"

	"github.com/rs/zerolog/log"
)

const (
	profilePath         = "/gym-owner/by-token"
	profileUpdatePath   = "/gym-owner/update"
	changePasswordPath  = "/gym-owner/change-password"
	operatorImageField  = "profile_image"
	msgOwnerNotFound    = "Gym owner not found."
	msgInvalidPassword  = "Invalid password data"
	msgPasswordMismatch = "New password and confirmation do not match"
)

// ProfileService reads and edits the signed-in operator's own account.
type ProfileService interface {
	Get(ctx context.Context) (domain.Operator, error)
	// Update saves the editable profile fields. With an image the new
	// picture is uploaded alongside.
	Update(ctx context.Context, op domain.Operator, image *domain.Attachment) (domain.Operator, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
}

type profileService struct {
	client Requester
}

func NewProfileService(client Requester) ProfileService {
	return &profileService{client: client}
}

func (s *profileService) Get(ctx context.Context) (domain.Operator, error) {
	data, err := s.client.Authorized(ctx, api.Request{Method: http.MethodGet, Path: profilePath})
	if err != nil {
		return domain.Operator{}, withMessage(err, http.StatusNotFound, msgOwnerNotFound)
	}
	op, err := api.Decode[domain.Operator](data)
	if err != nil || op.ID == "" {
		return domain.Operator{}, &apierr.Error{Kind: apierr.NetworkError, Status: http.StatusOK, Message: msgInvalidFormat, Err: err}
	}
	return op, nil
}

func (s *profileService) Update(ctx context.Context, op domain.Operator, image *domain.Attachment) (domain.Operator, error) {
	data, err := s.client.Authorized(ctx, api.Request{
		Method: http.MethodPut,
		Path:   profileUpdatePath,
		Form: &api.Multipart{
			Fields: map[string]string{
				"name":  op.Name,
				"email": op.Email,
				"phone": op.Phone,
			},
			FileField: operatorImageField,
			File:      image,
		},
	})
	if err != nil {
		log.Warn().Str("module", "service.profile").Err(err).Msg("profile update failed")
		return domain.Operator{}, withMessage(err, http.StatusNotFound, msgOwnerNotFound)
	}
	return api.Decode[domain.Operator](data)
}

// ChangePassword never sends a request whose confirmation does not match.
func (s *profileService) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if change.NewPassword != change.ConfirmPassword {
		return apierr.NewRequestFailed(http.StatusBadRequest, msgPasswordMismatch)
	}
	_, err := s.client.Authorized(ctx, api.Request{Method: http.MethodPost, Path: changePasswordPath, Body: change})
	if err != nil {
		log.Warn().Str("module", "service.profile").Err(err).Msg("change password failed")
		return withMessage(err, http.StatusBadRequest, msgInvalidPassword)
	}
	log.Info().Str("module", "service.profile").Msg("password changed")
	return nil
}

// withMessage swaps the generic status message of a failed request with
// status for msg. A message sent by the server is kept.
func withMessage(err error, status int, msg string) error {
	var e *apierr.Error
	if !errors.As(err, &e) || e.Kind != apierr.RequestFailed || e.Status != status {
		return err
	}
	if e.Message != "" && !strings.HasPrefix(e.Message, "Request failed with status") {
		return err
	}
	return &apierr.Error{Kind: apierr.RequestFailed, Status: status, Message: msg, Err: err}
}
