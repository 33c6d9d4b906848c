package mutation

import (
	"fmt"
	"strings"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/validation"
)

// UniqueEquipmentNumber rejects a number already used by another loaded
// record, ignoring case. Numbers outside loaded are left to the backend.
func UniqueEquipmentNumber(candidate domain.Equipment, loaded []domain.Equipment, editingID string) error {
	number := strings.TrimSpace(candidate.Number)
	if number == "" {
		return nil
	}
	for _, e := range loaded {
		if editingID != "" && e.ID == editingID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(e.Number), number) {
			return apierr.NewDuplicate(validation.EquipmentNumber,
				fmt.Sprintf("Equipment number %q already exists. Please use a unique number.", number))
		}
	}
	return nil
}

func NewMemberCoordinator(remote Remote[domain.Member], opts ...Option[domain.Member]) *Coordinator[domain.Member] {
	opts = append([]Option[domain.Member]{WithName[domain.Member]("member")}, opts...)
	return New(remote, validation.MemberRules, validation.MemberFromFields, opts...)
}

// NewEquipmentCoordinator always applies the equipment number check.
func NewEquipmentCoordinator(remote Remote[domain.Equipment], opts ...Option[domain.Equipment]) *Coordinator[domain.Equipment] {
	opts = append([]Option[domain.Equipment]{
		WithName[domain.Equipment]("equipment"),
		WithCheck(UniqueEquipmentNumber),
	}, opts...)
	return New(remote, validation.EquipmentRules, validation.EquipmentFromFields, opts...)
}
