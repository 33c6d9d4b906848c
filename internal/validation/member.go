package validation

import (
	"fmt"
	"strconv"
	"strings"

	"alcyxob/gym-backoffice/internal/domain"
)

// Member form field names, matching the wire keys.
const (
	MemberFirstName        = "firstName"
	MemberLastName         = "lastName"
	MemberEmail            = "email"
	MemberCountryCode      = "countryCode"
	MemberPhone            = "phone"
	MemberSubscriptionType = "subscriptionType"
	MemberDateOfBirth      = "dateOfBirth"
	MemberDateOfJoining    = "dateOfJoining"
	MemberGender           = "gender"
	MemberWeight           = "weight"
	MemberHealthInfo       = "healthInfo"
	MemberStatus           = "status"
)

// MemberRules is shared by the add and edit member forms.
var MemberRules = NewRuleset(
	Field(MemberFirstName,
		Required("First name is required"),
		MinLength(2, "First name must be at least 2 characters")),
	Field(MemberLastName,
		Required("Last name is required")),
	Field(MemberEmail,
		Required("Email is required"),
		EmailFormat("Please enter a valid email address")),
	Field(MemberCountryCode,
		Required("Country code is required")),
	Field(MemberPhone,
		Required("Phone number is required"),
		ExactDigits(10, "Phone number must be exactly 10 digits")),
	Field(MemberSubscriptionType,
		Required("Subscription type is required"),
		OneOf("Subscription type must be Monthly, Quarterly or Yearly", subscriptionNames()...)),
	Field(MemberDateOfBirth,
		DateRequired("Date of birth is required"),
		DerivedAgeRange(10, 100, "Age must be between 10 and 100 years")),
	Field(MemberDateOfJoining,
		DateRequired("Date of joining is required")),
	Field(MemberGender,
		Required("Gender is required")),
	Field(MemberWeight,
		Required("Weight is required"),
		NumericRange(20, 500, "Weight must be between 20 and 500 lbs")),
)

// NewMemberForm returns a blank registration form.
func NewMemberForm() *Form {
	return NewForm(Fields{
		MemberFirstName:        "",
		MemberLastName:         "",
		MemberEmail:            "",
		MemberCountryCode:      "",
		MemberPhone:            "",
		MemberSubscriptionType: "",
		MemberDateOfBirth:      "",
		MemberDateOfJoining:    "",
		MemberGender:           "",
		MemberWeight:           "",
		MemberHealthInfo:       "",
		MemberStatus:           "true",
	})
}

// MemberFields renders a member into form values for the edit screen.
func MemberFields(m domain.Member) Fields {
	weight := ""
	if m.Weight != 0 {
		weight = strconv.FormatFloat(m.Weight, 'f', -1, 64)
	}
	return Fields{
		MemberFirstName:        m.FirstName,
		MemberLastName:         m.LastName,
		MemberEmail:            m.Email,
		MemberCountryCode:      m.CountryCode,
		MemberPhone:            m.Phone,
		MemberSubscriptionType: string(m.SubscriptionType),
		MemberDateOfBirth:      m.DateOfBirth,
		MemberDateOfJoining:    m.DateOfJoining,
		MemberGender:           string(m.Gender),
		MemberWeight:           weight,
		MemberHealthInfo:       m.HealthInfo,
		MemberStatus:           strconv.FormatBool(m.Status),
	}
}

// MemberFromFields builds the record sent to the backend. Edits replace the
// whole record, so every field is taken from the form.
func MemberFromFields(id string, f Fields) (domain.Member, error) {
	get := func(k string) string { return strings.TrimSpace(f[k]) }

	weight, err := strconv.ParseFloat(get(MemberWeight), 64)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member form: weight: %w", err)
	}
	status := true
	if s := get(MemberStatus); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			status = v
		}
	}
	health := get(MemberHealthInfo)
	if health == "" {
		health = domain.NoHealthIssues
	}

	return domain.Member{
		ID:               id,
		FirstName:        get(MemberFirstName),
		LastName:         get(MemberLastName),
		Email:            get(MemberEmail),
		CountryCode:      get(MemberCountryCode),
		Phone:            get(MemberPhone),
		SubscriptionType: domain.SubscriptionType(get(MemberSubscriptionType)),
		DateOfBirth:      get(MemberDateOfBirth),
		DateOfJoining:    get(MemberDateOfJoining),
		Gender:           domain.Gender(get(MemberGender)),
		Weight:           weight,
		HealthInfo:       health,
		Status:           status,
	}, nil
}

func subscriptionNames() []string {
	out := make([]string, len(domain.SubscriptionTypes))
	for i, s := range domain.SubscriptionTypes {
		out[i] = string(s)
	}
	return out
}
