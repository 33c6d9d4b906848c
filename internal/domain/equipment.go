package domain

// Category tags equipment. All categories live in one collection and are
// filtered at query time.
type Category string

const (
	CategoryAerobic  Category = "Aerobic"
	CategoryExercise Category = "Exercise"
)

// Categories lists the accepted categories; the empty Category means all.
var Categories = []Category{CategoryAerobic, CategoryExercise}

// Equipment is one piece of gym equipment.
type Equipment struct {
	ID       string   `json:"id"`
	Name     string   `json:"equipment_name"`
	Number   string   `json:"equipment_number"` // Unique, compared case-insensitively
	Category Category `json:"category"`
	Image    string   `json:"equipment_image,omitempty"`
}

func (e Equipment) RecordID() string { return e.ID }

func (e Equipment) ImageRef() string { return e.Image }

func (e Equipment) SortValue(key string) any {
	switch key {
	case "id":
		return e.ID
	case "equipment_name":
		return e.Name
	case "equipment_number":
		return e.Number
	case "category":
		return string(e.Category)
	}
	return nil
}

func (e Equipment) SearchText() []string {
	return []string{e.Name, e.Number}
}
