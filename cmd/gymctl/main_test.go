package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/fakeapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*fakeapi.Server, []string) {
	t.Helper()
	fake := fakeapi.New()
	_, err := fake.Store().AddOperator("Admin", "admin@gym.test", "pw-123456")
	require.NoError(t, err)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("SESSION_STORE_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("LOG_LEVEL", "error")
	return fake, []string{"-config", dir}
}

func cli(global []string, args ...string) int {
	return run(append(append([]string{}, global...), args...))
}

var janeFlags = []string{
	"-first-name", "Jane", "-last-name", "Doe", "-email", "jane@example.com",
	"-country-code", "+1", "-phone", "5550100001", "-subscription", "Monthly",
	"-dob", "1990-04-12", "-joined", "2024-01-08", "-gender", "Female", "-weight", "140",
}

func TestRun_UsageErrors(t *testing.T) {
	_, global := newBackend(t)
	assert.Equal(t, 2, cli(global))
	assert.Equal(t, 2, cli(global, "no-such-command"))
	assert.Equal(t, 1, cli(global, "member"))
}

func TestRun_MemberLifecycle(t *testing.T) {
	fake, global := newBackend(t)

	require.Equal(t, 1, cli(global, "members"), "listing needs a session")
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))

	require.Equal(t, 0, cli(global, append([]string{"add-member"}, janeFlags...)...))
	members := fake.Store().Members()
	require.Len(t, members, 1)
	id := members[0].ID
	assert.Equal(t, "MEM001", members[0].UniqueID)
	assert.Equal(t, domain.NoHealthIssues, members[0].HealthInfo)

	bad := append([]string{"add-member"}, janeFlags...)
	bad = append(bad, "-phone", "123")
	assert.Equal(t, 1, cli(global, bad...))
	assert.Len(t, fake.Store().Members(), 1, "invalid form never reaches the backend")

	assert.Equal(t, 0, cli(global, "members", "-search", "doe"))
	assert.Equal(t, 0, cli(global, "member", id))
	assert.Equal(t, 1, cli(global, "member", "missing"))

	require.Equal(t, 0, cli(global, "edit-member", id, "-weight", "150"))
	m, err := fake.Store().Member(id)
	require.NoError(t, err)
	assert.Equal(t, 150.0, m.Weight)
	assert.Equal(t, "Jane", m.FirstName)

	require.Equal(t, 0, cli(global, "delete-member", id, "-yes"))
	assert.Empty(t, fake.Store().Members())

	require.Equal(t, 0, cli(global, "logout"))
	assert.Equal(t, 1, cli(global, "members"))
}

func TestRun_LogoutSucceedsWhenBackendFails(t *testing.T) {
	fake, global := newBackend(t)
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))
	fake.Fail(http.MethodPost, "/auth/logout", http.StatusInternalServerError, "")

	assert.Equal(t, 0, cli(global, "logout"))
	assert.Equal(t, 1, cli(global, "members"), "the local session is gone")
}

func TestRun_DuplicateEquipmentNumberNeverSent(t *testing.T) {
	fake, global := newBackend(t)
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))

	require.Equal(t, 0, cli(global, "add-equipment", "-name", "Treadmill", "-number", "TM-01", "-category", "aerobic"))
	require.Equal(t, 1, fake.Hits(http.MethodPost, "/equipment"))

	assert.Equal(t, 1, cli(global, "add-equipment", "-name", "Bike", "-number", "tm-01"))
	assert.Equal(t, 1, fake.Hits(http.MethodPost, "/equipment"))

	all := fake.Store().Equipment("")
	require.Len(t, all, 1)
	assert.Equal(t, domain.CategoryAerobic, all[0].Category)

	assert.Equal(t, 0, cli(global, "equipment", "-category", "Aerobic"))
	assert.Equal(t, 1, cli(global, "equipment", "-size", "7"))
	assert.Equal(t, 0, cli(global, "support"))
}

func TestRun_DuplicateEquipmentNumberOnLaterPage(t *testing.T) {
	fake, global := newBackend(t)
	for i := 1; i <= 12; i++ {
		_, err := fake.Store().CreateEquipment(domain.Equipment{
			Name: fmt.Sprintf("Machine %d", i), Number: fmt.Sprintf("EQ-%03d", i), Category: domain.CategoryExercise,
		})
		require.NoError(t, err)
	}
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))

	assert.Equal(t, 1, cli(global, "add-equipment", "-name", "Spare", "-number", "eq-012"))
	assert.Equal(t, 0, fake.Hits(http.MethodPost, "/equipment"))
	assert.Len(t, fake.Store().Equipment(""), 12)
}

func TestRun_ProfileAndPassword(t *testing.T) {
	fake, global := newBackend(t)
	require.Equal(t, 1, cli(global, "profile"), "profile needs a session")
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))

	assert.Equal(t, 0, cli(global, "profile"))
	assert.Equal(t, 1, cli(global, "edit-profile", "-phone", "123"))
	require.Equal(t, 0, cli(global, "edit-profile", "-name", "Head Coach", "-phone", "5550100009"))
	op, err := fake.Store().Authenticate("admin@gym.test", "pw-123456")
	require.NoError(t, err)
	assert.Equal(t, "Head Coach", op.Name)
	assert.Equal(t, "5550100009", op.Phone)

	hits := fake.Hits(http.MethodPost, "/gym-owner/change-password")
	assert.Equal(t, 1, cli(global, "passwd", "-current", "pw-123456", "-new", "weakpass", "-confirm", "weakpass"))
	assert.Equal(t, 1, cli(global, "passwd", "-current", "pw-123456", "-new", "N3w!pass", "-confirm", "N3w!pas"))
	assert.Equal(t, hits, fake.Hits(http.MethodPost, "/gym-owner/change-password"), "rejected locally")

	require.Equal(t, 0, cli(global, "passwd", "-current", "pw-123456", "-new", "N3w!pass", "-confirm", "N3w!pass"))
	_, err = fake.Store().Authenticate("admin@gym.test", "N3w!pass")
	assert.NoError(t, err)
}

func TestRun_Users(t *testing.T) {
	_, global := newBackend(t)
	require.Equal(t, 0, cli(global, "login", "-email", "admin@gym.test", "-password", "pw-123456"))
	require.Equal(t, 0, cli(global, append([]string{"add-member"}, janeFlags...)...))

	assert.Equal(t, 0, cli(global, "users"))
	assert.Equal(t, 0, cli(global, "users", "-sort", "firstName", "-order", "desc", "-search", "jane"))
	assert.Equal(t, 1, cli(global, "users", "-size", "7"))
}
