package validation

import (
	"strings"
	"testing"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_SetClearsFieldErrorImmediately(t *testing.T) {
	f := NewMemberForm()
	f.Set(MemberWeight, "600")
	errs := f.Validate(MemberRules)
	require.Contains(t, errs, MemberWeight)
	require.Contains(t, errs, MemberEmail)

	f.Set(MemberWeight, "6000")
	assert.Empty(t, f.Error(MemberWeight))
	assert.NotEmpty(t, f.Error(MemberEmail))
}

func TestForm_ResetRestoresInitialValues(t *testing.T) {
	f := NewMemberForm()
	initial := f.Values()
	f.Set(MemberFirstName, "Jane")
	f.Attach(&domain.Attachment{FileName: "a.png", Body: strings.NewReader("x")})
	f.SetErrors(map[string]string{MemberEmail: "Email is required"})

	f.Reset()
	assert.Equal(t, initial, f.Values())
	assert.Empty(t, f.Errors())
	assert.Nil(t, f.Attachment())
}

func TestForm_LoadBecomesResetPoint(t *testing.T) {
	f := NewEquipmentForm()
	assert.Equal(t, "Exercise", f.Get(EquipmentCategory))

	f.Load(EquipmentFields(domain.Equipment{Name: "Bike", Number: "EQ-7", Category: domain.CategoryAerobic}))
	f.Set(EquipmentName, "Rower")
	f.Reset()
	assert.Equal(t, "Bike", f.Get(EquipmentName))
}

func TestForm_ValuesAreCopies(t *testing.T) {
	f := NewForm(Fields{"a": "1"})
	v := f.Values()
	v["a"] = "2"
	assert.Equal(t, "1", f.Get("a"))
}

func TestMemberFromFields(t *testing.T) {
	fields := validMember()
	fields[MemberHealthInfo] = "   "
	fields[MemberStatus] = "false"

	m, err := MemberFromFields("42", fields)
	require.NoError(t, err)
	assert.Equal(t, "42", m.ID)
	assert.Equal(t, 180.0, m.Weight)
	assert.Equal(t, domain.NoHealthIssues, m.HealthInfo)
	assert.False(t, m.Status)
	assert.Equal(t, domain.SubscriptionMonthly, m.SubscriptionType)

	back := MemberFields(m)
	assert.Equal(t, "180", back[MemberWeight])
	assert.Equal(t, "false", back[MemberStatus])

	_, err = MemberFromFields("", with(fields, MemberWeight, "abc"))
	assert.Error(t, err)
}
