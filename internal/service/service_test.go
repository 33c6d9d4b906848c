package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/detail"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/fakeapi"
	"alcyxob/gym-backoffice/internal/mutation"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/session"
	"alcyxob/gym-backoffice/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	operatorEmail    = "admin@gym.test"
	operatorPassword = "s3cret-pass"
)

type env struct {
	fake      *fakeapi.Server
	guard     *api.Guard
	session   *session.Session
	recorder  *nav.Recorder
	auth      AuthService
	members   MemberService
	equipment EquipmentService
	support   SupportService
	profile   ProfileService
	users     UserService
}

func newEnv(t *testing.T) env {
	t.Helper()
	fake := fakeapi.New()
	_, err := fake.Store().AddOperator("Admin", operatorEmail, operatorPassword)
	require.NoError(t, err)

	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	sess, err := session.New(session.NewMemoryStore())
	require.NoError(t, err)
	rec := &nav.Recorder{}
	guard := api.NewGuard(srv.URL, sess, rec, api.WithHTTPClient(srv.Client()))

	return env{
		fake:      fake,
		guard:     guard,
		session:   sess,
		recorder:  rec,
		auth:      NewAuthService(guard, sess, rec),
		members:   NewMemberService(guard),
		equipment: NewEquipmentService(guard),
		support:   NewSupportService(guard),
		profile:   NewProfileService(guard),
		users:     NewUserService(guard),
	}
}

func (e env) login(t *testing.T) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), operatorEmail, operatorPassword)
	require.NoError(t, err)
}

func seedMembers(t *testing.T, store *fakeapi.Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		last := "Smith"
		if i%6 == 0 {
			last = "Doe"
		}
		_, err := store.CreateMember(domain.Member{
			ID:               fmt.Sprintf("m%02d", i),
			FirstName:        fmt.Sprintf("Member%02d", i),
			LastName:         last,
			Email:            fmt.Sprintf("member%02d@gym.test", i),
			Phone:            fmt.Sprintf("55500000%02d", i),
			CountryCode:      "+1",
			SubscriptionType: domain.SubscriptionMonthly,
			DateOfBirth:      "1990-01-01",
			DateOfJoining:    "2024-01-01",
			Gender:           domain.GenderOther,
			Weight:           160,
			HealthInfo:       domain.NoHealthIssues,
			Status:           true,
		})
		require.NoError(t, err)
	}
}

func TestLogin_AcquiresSession(t *testing.T) {
	e := newEnv(t)
	op, err := e.auth.Login(context.Background(), operatorEmail, operatorPassword)
	require.NoError(t, err)
	assert.Equal(t, "Admin", op.Name)
	assert.True(t, e.session.Authenticated())
	exp, ok := e.session.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		inject  func(f *fakeapi.Server)
		pass    string
		wantMsg string
	}{
		{"wrong password", nil, "nope", "Invalid credentials"},
		{"not found", func(f *fakeapi.Server) { f.Fail(http.MethodPost, "/auth/login", 404, "") }, operatorPassword, msgServiceNotFound},
		{"rate limited", func(f *fakeapi.Server) { f.Fail(http.MethodPost, "/auth/login", 429, "slow down") }, operatorPassword, msgTooManyAttempts},
		{"server error", func(f *fakeapi.Server) { f.Fail(http.MethodPost, "/auth/login", 500, "db down") }, operatorPassword, msgServerError},
		{"other status keeps message", func(f *fakeapi.Server) { f.Fail(http.MethodPost, "/auth/login", 403, "Account locked") }, operatorPassword, "Account locked"},
		{"other status without message", func(f *fakeapi.Server) { f.FailRaw(http.MethodPost, "/auth/login", 503, "unavailable") }, operatorPassword, msgLoginFailed},
		{"401 without message", func(f *fakeapi.Server) { f.FailRaw(http.MethodPost, "/auth/login", 401, "") }, operatorPassword, msgInvalidCredentials},
		{"no token in response", func(f *fakeapi.Server) { f.FailRaw(http.MethodPost, "/auth/login", 200, `{"success":true,"data":{}}`) }, operatorPassword, msgInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.inject != nil {
				tt.inject(e.fake)
			}
			_, err := e.auth.Login(context.Background(), operatorEmail, tt.pass)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.False(t, e.session.Authenticated())
			assert.Empty(t, e.recorder.History(), "login failures never redirect")
		})
	}
}

func TestLogin_RequiresBothFields(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Login(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, e.fake.TotalHits())
}

func TestLogout_RevokesAndRedirects(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	require.NoError(t, e.auth.Logout(context.Background()))
	assert.False(t, e.session.Authenticated())
	assert.Equal(t, nav.RouteLogin, e.recorder.Last())
	assert.Equal(t, 1, e.fake.Hits(http.MethodPost, "/auth/logout"))

	_, err := e.members.Fetch(context.Background(), directory.Query{Size: 10})
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
}

func TestLogout_BackendFailureStillSignsOut(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.fake.Fail(http.MethodPost, "/auth/logout", http.StatusInternalServerError, "database unavailable")

	require.NoError(t, e.auth.Logout(context.Background()))
	assert.False(t, e.session.Authenticated())
	assert.Equal(t, nav.RouteLogin, e.recorder.Last())
}

func TestMemberDirectory_TwelveMembers(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedMembers(t, e.fake.Store(), 12)
	ctx := context.Background()

	dir := directory.New[domain.Member](e.members)
	defer dir.Close()
	require.NoError(t, dir.Load(ctx))
	v := dir.View()
	assert.Len(t, v.Items, 10)
	assert.Equal(t, "Page 1 of 2", v.Label())

	require.NoError(t, dir.NextPage(ctx))
	v = dir.View()
	assert.Equal(t, []string{"m11", "m12"}, idsOf(v.Items))

	hits := e.fake.Hits(http.MethodGet, "/members")
	dir.SetSearch("doe")
	assert.Equal(t, []string{"m12"}, idsOf(dir.View().Items))
	assert.Equal(t, hits, e.fake.Hits(http.MethodGet, "/members"))

	require.NoError(t, dir.Sort(ctx, "firstName"))
	require.NoError(t, dir.Sort(ctx, "firstName"))
	require.NoError(t, dir.FirstPage(ctx))
	assert.Equal(t, []string{"m12", "m06"}, idsOf(dir.View().Items), "desc sort, search still applied")
}

func TestMemberMutations_EndToEnd(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedMembers(t, e.fake.Store(), 3)
	ctx := context.Background()

	dir := directory.New[domain.Member](e.members)
	defer dir.Close()
	require.NoError(t, dir.Load(ctx))
	coord := mutation.NewMemberCoordinator(e.members, mutation.WithSnapshot[domain.Member](dir))

	form := validation.NewMemberForm()
	for k, v := range map[string]string{
		validation.MemberFirstName:        "Jane",
		validation.MemberLastName:         "Doe",
		validation.MemberEmail:            "jane@gym.test",
		validation.MemberCountryCode:      "+1",
		validation.MemberPhone:            "9876543210",
		validation.MemberSubscriptionType: "Quarterly",
		validation.MemberDateOfBirth:      "1995-03-04",
		validation.MemberDateOfJoining:    "2026-02-01",
		validation.MemberGender:           "Female",
		validation.MemberWeight:           "130",
	} {
		form.Set(k, v)
	}
	form.Attach(&domain.Attachment{FileName: "jane.png", Body: strings.NewReader("png")})

	created, err := coord.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "MEM004", created.UniqueID)
	assert.True(t, strings.HasPrefix(created.ProfileImage, "members/"))
	assert.Len(t, dir.Items(), 4)
	assert.Equal(t, 4, dir.View().Total)

	edit := validation.NewMemberForm()
	edit.Load(validation.MemberFields(created))
	edit.Set(validation.MemberWeight, "128")
	updated, err := coord.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, 128.0, updated.Weight)
	assert.Equal(t, created.ProfileImage, updated.ProfileImage, "image kept when none is sent")
	got, ok := dir.Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, 128.0, got.Weight)

	// Server-side conflicts pass through verbatim.
	dup := validation.NewMemberForm()
	dup.Load(validation.MemberFields(created))
	dup.Set(validation.MemberEmail, "member01@gym.test")
	_, err = coord.Update(ctx, created.ID, dup)
	assert.EqualError(t, err, "Email already registered")

	deleted, err := coord.Delete(ctx, "m02", "Member02 Smith", mutation.ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, e.fake.Store().Members(), 3)
	assert.NotContains(t, idsOf(dir.Items()), "m02")
	assert.Equal(t, 3, dir.View().Total)
}

func TestSessionExpiryMidSession(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedMembers(t, e.fake.Store(), 2)

	dir := directory.New[domain.Member](e.members)
	defer dir.Close()
	e.fake.Fail(http.MethodGet, "/members", http.StatusUnauthorized, "Token has expired")

	err := dir.Load(context.Background())
	assert.ErrorIs(t, err, apierr.ErrSessionExpired)
	assert.False(t, e.session.Authenticated())
	assert.Equal(t, []string{nav.RouteLogin}, e.recorder.History())
	assert.Empty(t, dir.View().Message(), "auth failures are not bannered")
}

func TestEquipment_CategoryFilterAndMultipart(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()
	store := e.fake.Store()
	for _, eq := range []domain.Equipment{
		{Name: "Treadmill", Number: "TR-01", Category: domain.CategoryAerobic},
		{Name: "Bike", Number: "BK-01", Category: domain.CategoryAerobic},
		{Name: "Bench", Number: "BN-01", Category: domain.CategoryExercise},
	} {
		_, err := store.CreateEquipment(eq)
		require.NoError(t, err)
	}

	aerobic, err := e.equipment.List(ctx, domain.CategoryAerobic)
	require.NoError(t, err)
	assert.Len(t, aerobic, 2)

	dir := directory.New[domain.Equipment](e.equipment.Directory(""), directory.WithSort("equipment_name", directory.Asc))
	defer dir.Close()
	require.NoError(t, dir.Load(ctx))
	assert.Equal(t, []string{"Bench", "Bike", "Treadmill"}, names(dir.Items()))

	coord := mutation.NewEquipmentCoordinator(e.equipment, mutation.WithSnapshot[domain.Equipment](dir))
	form := validation.NewEquipmentForm()
	form.Set(validation.EquipmentName, "Rower")
	form.Set(validation.EquipmentNumber, "bk-01")
	_, err = coord.Create(ctx, form)
	assert.ErrorIs(t, err, apierr.ErrDuplicateConflict)
	assert.Equal(t, 0, e.fake.Hits(http.MethodPost, "/equipment"))

	form.Set(validation.EquipmentNumber, "RW-01")
	form.Attach(&domain.Attachment{FileName: "rower.jpg", Body: strings.NewReader("jpg")})
	created, err := coord.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryExercise, created.Category)
	assert.True(t, strings.HasPrefix(created.Image, "equipment/"))
	assert.Len(t, dir.Items(), 4)

	deleted, err := coord.Delete(ctx, created.ID, "Rower", mutation.ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, store.Equipment(""), 3)
}

func TestEquipment_BackendRemainsAuthoritative(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()
	_, err := e.fake.Store().CreateEquipment(domain.Equipment{Name: "Bench", Number: "BN-01", Category: domain.CategoryExercise})
	require.NoError(t, err)

	// The directory only holds Aerobic items, so the local check cannot see BN-01.
	dir := directory.New[domain.Equipment](e.equipment.Directory(domain.CategoryAerobic))
	defer dir.Close()
	require.NoError(t, dir.Load(ctx))
	coord := mutation.NewEquipmentCoordinator(e.equipment, mutation.WithSnapshot[domain.Equipment](dir))

	form := validation.NewEquipmentForm()
	form.Set(validation.EquipmentName, "Other bench")
	form.Set(validation.EquipmentNumber, "BN-01")
	_, err = coord.Create(ctx, form)
	assert.ErrorIs(t, err, &apierr.Error{Kind: apierr.RequestFailed, Status: http.StatusConflict})
	assert.EqualError(t, err, "Equipment number already exists")
}

func TestEquipment_CreateOnOtherCategoryTab(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()
	_, err := e.fake.Store().CreateEquipment(domain.Equipment{Name: "Treadmill", Number: "TR-01", Category: domain.CategoryAerobic})
	require.NoError(t, err)

	fetcher := e.equipment.Directory(domain.CategoryAerobic)
	dir := directory.New[domain.Equipment](fetcher)
	defer dir.Close()
	require.NoError(t, dir.Load(ctx))
	coord := mutation.NewEquipmentCoordinator(e.equipment,
		mutation.WithSnapshot[domain.Equipment](dir), mutation.WithCollection[domain.Equipment](fetcher))

	form := validation.NewEquipmentForm()
	form.Set(validation.EquipmentName, "Bench")
	form.Set(validation.EquipmentNumber, "BN-01")
	form.Set(validation.EquipmentCategory, string(domain.CategoryExercise))
	created, err := coord.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryExercise, created.Category)
	assert.Equal(t, []string{"Treadmill"}, names(dir.Items()))
	assert.Equal(t, 1, dir.View().Total)
	assert.Len(t, fetcher.All(), 1)
	assert.Len(t, e.fake.Store().Equipment(""), 2)
}

func TestSupport_NewestFirst(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, q := range []string{"Locker broken", "Pool hours?", "Refund"} {
		e.fake.Store().AddSupport(domain.SupportQuery{SenderID: fmt.Sprintf("MEM00%d", i+1), Query: q, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	dir := directory.New[domain.SupportQuery](e.support.Directory(), directory.WithSort(SupportDefaultSort, SupportDefaultOrder))
	defer dir.Close()
	require.NoError(t, dir.Load(context.Background()))
	items := dir.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Refund", items[0].Query)
	assert.Equal(t, base.Add(2*time.Hour), items[0].CreatedAt.UTC())

	dir.SetSearch("pool")
	assert.Len(t, dir.View().Items, 1)
}

func TestDetailLoader_ThroughService(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedMembers(t, e.fake.Store(), 1)
	ctx := context.Background()

	coord := mutation.NewMemberCoordinator(e.members)
	loader := detail.NewLoader[domain.Member]("Member", e.members, coord, nil, e.recorder, nav.RouteMembers)

	p := loader.Load(ctx, "m01")
	require.Equal(t, detail.Loaded, p.State)
	assert.Equal(t, "Member01 Smith", p.Record.FullName())

	p = loader.Load(ctx, "missing")
	assert.Equal(t, detail.NotFound, p.State)
	assert.Equal(t, "Member not found", p.Message)

	deleted, err := loader.Delete(ctx, "m01", "Member01 Smith", mutation.ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, nav.RouteMembers, e.recorder.Last())
}

func idsOf[T directory.Record](records []T) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}

func names(items []domain.Equipment) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Name
	}
	return out
}
