package validation

import (
	"testing"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPasswordFeedback(t *testing.T) {
	assert.Empty(t, PasswordFeedback("Str0ng!pw"))
	assert.True(t, StrongPassword("Abcdef1@"))

	assert.Equal(t, []string{
		"At least 8 characters",
		"At least 1 uppercase letter",
		"At least 1 number",
		"At least 1 special character (@$!%*?&)",
	}, PasswordFeedback("short"))
	assert.Equal(t, []string{"Only letters, numbers and @$!%*?&"}, PasswordFeedback("Str0ng!pw#"))
	assert.Equal(t, []string{"Only letters, numbers and @$!%*?&"}, PasswordFeedback("Str0ng! pw"))
	assert.False(t, StrongPassword(""))
}

func TestPasswordRules(t *testing.T) {
	valid := Fields{PasswordOld: "Old-pass1", PasswordNew: "N3w!pass", PasswordConfirm: "N3w!pass"}
	assert.Empty(t, PasswordRules.Validate(valid))

	cases := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"old missing", PasswordOld, "", "Current password is required"},
		{"new missing", PasswordNew, "  ", "New password is required"},
		{"new weak", PasswordNew, "password", "Password needs: At least 1 uppercase letter, At least 1 number, At least 1 special character (@$!%*?&)"},
		{"new equals old", PasswordNew, "Old-pass1", "Password needs: At least 1 special character (@$!%*?&), Only letters, numbers and @$!%*?&"},
		{"confirm missing", PasswordConfirm, "", "Please confirm the new password"},
		{"confirm differs", PasswordConfirm, "N3w!pasS", "Passwords do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := PasswordRules.Validate(with(valid, tc.field, tc.value))
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}

	reused := Fields{PasswordOld: "Same!pw1", PasswordNew: "Same!pw1", PasswordConfirm: "Same!pw1"}
	assert.Equal(t, "New password must be different from the current password", PasswordRules.Validate(reused)[PasswordNew])
}

func TestPasswordFromFieldsKeepsSpaces(t *testing.T) {
	pc := PasswordFromFields(Fields{PasswordOld: " old ", PasswordNew: "N3w!pass", PasswordConfirm: "N3w!pass"})
	assert.Equal(t, domain.PasswordChange{OldPassword: " old ", NewPassword: "N3w!pass", ConfirmPassword: "N3w!pass"}, pc)
}

func TestProfileRules(t *testing.T) {
	op := domain.Operator{ID: "op-1", Name: "Front Desk", Email: "desk@gym.test", Role: "admin"}
	form := NewProfileForm(op)
	assert.Empty(t, form.Validate(ProfileRules))

	form.Set(ProfileEmail, "not-an-email")
	form.Set(ProfilePhone, "123")
	errs := form.Validate(ProfileRules)
	assert.Equal(t, "Please enter a valid email address", errs[ProfileEmail])
	assert.Equal(t, "Phone number must be exactly 10 digits", errs[ProfilePhone])

	form.Set(ProfileEmail, " owner@gym.test ")
	form.Set(ProfilePhone, "5550100009")
	assert.Empty(t, form.Validate(ProfileRules))
	got := ProfileFromFields(op, form.Values())
	assert.Equal(t, domain.Operator{ID: "op-1", Name: "Front Desk", Email: "owner@gym.test", Phone: "5550100009", Role: "admin"}, got)
}
