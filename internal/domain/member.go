package domain

import (
	"strings"
	"time"
)

// SubscriptionType is the membership tier a member pays for.
type SubscriptionType string

const (
	SubscriptionMonthly   SubscriptionType = "Monthly"
	SubscriptionQuarterly SubscriptionType = "Quarterly"
	SubscriptionYearly    SubscriptionType = "Yearly"
)

// SubscriptionTypes lists the accepted tiers in display order.
var SubscriptionTypes = []SubscriptionType{SubscriptionMonthly, SubscriptionQuarterly, SubscriptionYearly}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// NoHealthIssues is stored when the health note is left blank.
const NoHealthIssues = "None"

// DateLayout is the wire and form format of calendar dates.
const DateLayout = "2006-01-02"

// Member is a registered gym member.
type Member struct {
	ID               string           `json:"id"`
	UniqueID         string           `json:"uniqueId"` // Human-readable member code, e.g. MEM001
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	DateOfBirth      string           `json:"dateOfBirth"`
	Gender           Gender           `json:"gender"`
	Weight           float64          `json:"weight"` // lbs
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	CountryCode      string           `json:"countryCode"`
	SubscriptionType SubscriptionType `json:"subscriptionType"`
	DateOfJoining    string           `json:"dateOfJoining"`
	HealthInfo       string           `json:"healthInfo"`
	Status           bool             `json:"status"`
	ProfileImage     string           `json:"profileImage,omitempty"`
}

func (m Member) RecordID() string { return m.ID }

// ImageRef returns the stored profile image reference, if any.
func (m Member) ImageRef() string { return m.ProfileImage }

// FullName joins first and last name.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Initials returns the avatar initials shown in listings.
func (m Member) Initials() string {
	var b strings.Builder
	for _, part := range []string{m.FirstName, m.LastName} {
		if r := []rune(strings.TrimSpace(part)); len(r) > 0 {
			b.WriteString(strings.ToUpper(string(r[0])))
		}
	}
	return b.String()
}

// Age returns the member's age in whole years at the given instant.
// ok is false when the date of birth is missing or malformed.
func (m Member) Age(at time.Time) (age int, ok bool) {
	dob, err := time.Parse(DateLayout, m.DateOfBirth)
	if err != nil {
		return 0, false
	}
	return YearsBetween(dob, at), true
}

// SortValue exposes the raw field value used for ordering listings.
func (m Member) SortValue(key string) any {
	switch key {
	case "id":
		return m.ID
	case "uniqueId":
		return m.UniqueID
	case "firstName":
		return m.FirstName
	case "lastName":
		return m.LastName
	case "email":
		return m.Email
	case "phone":
		return m.Phone
	case "subscriptionType":
		return string(m.SubscriptionType)
	case "dateOfBirth":
		return m.DateOfBirth
	case "dateOfJoining":
		return m.DateOfJoining
	case "weight":
		return m.Weight
	case "status":
		return m.Status
	}
	return nil
}

// SearchText lists the fields matched by the list screen's search box.
func (m Member) SearchText() []string {
	return []string{m.FirstName, m.LastName, m.Email, m.Phone, m.UniqueID, m.ID}
}

// YearsBetween counts completed years from born to at.
func YearsBetween(born, at time.Time) int {
	years := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		years--
	}
	return years
}
