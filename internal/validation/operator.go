package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"alcyxob/gym-backoffice/internal/domain"
)

// Profile form fields.
const (
	ProfileName  = "name"
	ProfileEmail = "email"
	ProfilePhone = "phone"
)

var ProfileRules = NewRuleset(
	Field(ProfileName,
		Required("Name is required"),
		MinLength(2, "Name must be at least 2 characters")),
	Field(ProfileEmail,
		Required("Email is required"),
		EmailFormat("Please enter a valid email address")),
	Field(ProfilePhone,
		ExactDigits(10, "Phone number must be exactly 10 digits")),
)

func NewProfileForm(op domain.Operator) *Form {
	return NewForm(ProfileFields(op))
}

func ProfileFields(op domain.Operator) Fields {
	return Fields{
		ProfileName:  op.Name,
		ProfileEmail: op.Email,
		ProfilePhone: op.Phone,
	}
}

// ProfileFromFields binds the editable fields over current, which keeps
// the id, role and image.
func ProfileFromFields(current domain.Operator, f Fields) domain.Operator {
	current.Name = strings.TrimSpace(f[ProfileName])
	current.Email = strings.TrimSpace(f[ProfileEmail])
	current.Phone = strings.TrimSpace(f[ProfilePhone])
	return current
}

// Change password form fields, matching the wire keys.
const (
	PasswordOld     = "oldPassword"
	PasswordNew     = "newPassword"
	PasswordConfirm = "confirmPassword"
)

var PasswordRules = NewRuleset(
	Field(PasswordOld,
		Required("Current password is required")),
	Field(PasswordNew,
		Required("New password is required"),
		PasswordStrength(),
		NotSameAs(PasswordOld, "New password must be different from the current password")),
	Field(PasswordConfirm,
		Required("Please confirm the new password"),
		SameAs(PasswordNew, "Passwords do not match")),
)

func NewPasswordForm() *Form {
	return NewForm(Fields{PasswordOld: "", PasswordNew: "", PasswordConfirm: ""})
}

// PasswordFromFields reads the passwords untrimmed; spaces are rejected
// by PasswordStrength rather than silently dropped.
func PasswordFromFields(f Fields) domain.PasswordChange {
	return domain.PasswordChange{
		OldPassword:     f[PasswordOld],
		NewPassword:     f[PasswordNew],
		ConfirmPassword: f[PasswordConfirm],
	}
}

var (
	hasLower    = regexp.MustCompile(`[a-z]`)
	hasUpper    = regexp.MustCompile(`[A-Z]`)
	hasDigit    = regexp.MustCompile(`\d`)
	hasSpecial  = regexp.MustCompile(`[@$!%*?&]`)
	onlyAllowed = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]*$`)
)

// PasswordFeedback lists the strength requirements pw misses, in the order
// the password form shows them. It is empty for a strong password.
func PasswordFeedback(pw string) []string {
	var missing []string
	if utf8.RuneCountInString(pw) < 8 {
		missing = append(missing, "At least 8 characters")
	}
	if !hasUpper.MatchString(pw) {
		missing = append(missing, "At least 1 uppercase letter")
	}
	if !hasLower.MatchString(pw) {
		missing = append(missing, "At least 1 lowercase letter")
	}
	if !hasDigit.MatchString(pw) {
		missing = append(missing, "At least 1 number")
	}
	if !hasSpecial.MatchString(pw) {
		missing = append(missing, "At least 1 special character (@$!%*?&)")
	}
	if !onlyAllowed.MatchString(pw) {
		missing = append(missing, "Only letters, numbers and @$!%*?&")
	}
	return missing
}

// StrongPassword reports whether pw has 8 or more characters drawn from
// letters, digits and @$!%*?&, with at least one of each class.
func StrongPassword(pw string) bool {
	return len(PasswordFeedback(pw)) == 0
}

// PasswordStrength checks the untrimmed value.
func PasswordStrength() Rule {
	return func(in Input) string {
		if in.Value == "" {
			return ""
		}
		if missing := PasswordFeedback(in.Fields[in.Field]); len(missing) > 0 {
			return "Password needs: " + strings.Join(missing, ", ")
		}
		return ""
	}
}
