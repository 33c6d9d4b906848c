package validation

import (
	"strings"

	"alcyxob/gym-backoffice/internal/domain"
)

const (
	EquipmentName     = "equipment_name"
	EquipmentNumber   = "equipment_number"
	EquipmentCategory = "category"
)

var EquipmentRules = NewRuleset(
	Field(EquipmentName, Required("Equipment name is required")),
	Field(EquipmentNumber, Required("Equipment number is required")),
	Field(EquipmentCategory,
		Required("Category is required"),
		OneOf("Category must be Aerobic or Exercise", string(domain.CategoryAerobic), string(domain.CategoryExercise))),
)

// NewEquipmentForm starts on the Exercise category, like the add dialog.
func NewEquipmentForm() *Form {
	return NewForm(Fields{
		EquipmentName:     "",
		EquipmentNumber:   "",
		EquipmentCategory: string(domain.CategoryExercise),
	})
}

func EquipmentFields(e domain.Equipment) Fields {
	return Fields{
		EquipmentName:     e.Name,
		EquipmentNumber:   e.Number,
		EquipmentCategory: string(e.Category),
	}
}

func EquipmentFromFields(id string, f Fields) (domain.Equipment, error) {
	return domain.Equipment{
		ID:       id,
		Name:     strings.TrimSpace(f[EquipmentName]),
		Number:   strings.TrimSpace(f[EquipmentNumber]),
		Category: domain.Category(strings.TrimSpace(f[EquipmentCategory])),
	}, nil
}
