package detail

import (
	"context"
	"errors"
	"testing"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/mutation"
	"alcyxob/gym-backoffice/internal/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type getterFunc func(ctx context.Context, id string) (domain.Member, error)

func (f getterFunc) Get(ctx context.Context, id string) (domain.Member, error) { return f(ctx, id) }

type fakeDeleter struct {
	calls int
	err   error
}

func (d *fakeDeleter) Delete(_ context.Context, _, label string, confirm mutation.Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(label) {
		return false, nil
	}
	d.calls++
	return d.err == nil, d.err
}

type prefixLinker struct{ err error }

func (l prefixLinker) ImageURL(_ context.Context, ref string) (string, error) {
	return "https://img.test/" + ref, l.err
}

func members() map[string]domain.Member {
	return map[string]domain.Member{
		"1": {ID: "1", FirstName: "Jane", LastName: "Doe", ProfileImage: "members/1.png"},
		"2": {ID: "2", FirstName: "Bob", LastName: "Ray"},
	}
}

func memberGetter() getterFunc {
	all := members()
	return func(_ context.Context, id string) (domain.Member, error) {
		m, ok := all[id]
		if !ok {
			return domain.Member{}, apierr.NewRequestFailed(404, "Member not found in database")
		}
		return m, nil
	}
}

func TestLoad_Found(t *testing.T) {
	l := NewLoader[domain.Member]("Member", memberGetter(), &fakeDeleter{}, prefixLinker{}, &nav.Recorder{}, nav.RouteMembers)

	p := l.Load(context.Background(), "1")
	require.Equal(t, Loaded, p.State)
	assert.Equal(t, "Jane Doe", p.Record.FullName())
	assert.Equal(t, "https://img.test/members/1.png", p.ImageURL)

	p = l.Load(context.Background(), "2")
	assert.Empty(t, p.ImageURL)
}

func TestLoad_NotFoundStates(t *testing.T) {
	failing := getterFunc(func(context.Context, string) (domain.Member, error) {
		return domain.Member{}, apierr.NewNetwork(errors.New("refused"))
	})

	tests := []struct {
		name   string
		getter getterFunc
		id     string
		want   string
	}{
		{"missing record", memberGetter(), "404", "Member not found"},
		{"blank id", memberGetter(), " ", "Member not found"},
		{"fetch failure", failing, "1", "Member not found: Failed to fetch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader[domain.Member]("Member", tt.getter, &fakeDeleter{}, nil, &nav.Recorder{}, nav.RouteMembers)
			p := l.Load(context.Background(), tt.id)
			assert.Equal(t, NotFound, p.State)
			assert.Equal(t, tt.want, p.Message)
		})
	}
}

func TestLoad_ImageLinkFailureStillLoads(t *testing.T) {
	l := NewLoader[domain.Member]("Member", memberGetter(), &fakeDeleter{}, prefixLinker{err: errors.New("no creds")}, nil, nav.RouteMembers)
	p := l.Load(context.Background(), "1")
	assert.Equal(t, Loaded, p.State)
	assert.Empty(t, p.ImageURL)
}

func TestDelete_NavigatesBackOnSuccess(t *testing.T) {
	rec := &nav.Recorder{}
	del := &fakeDeleter{}
	l := NewLoader[domain.Member]("Member", memberGetter(), del, nil, rec, nav.RouteMembers)
	ctx := context.Background()

	deleted, err := l.Delete(ctx, "1", "Jane Doe", mutation.ConfirmFunc(func(string) bool { return false }))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, rec.History())

	del.err = apierr.NewRequestFailed(500, "")
	_, err = l.Delete(ctx, "1", "Jane Doe", mutation.ConfirmFunc(func(string) bool { return true }))
	assert.ErrorIs(t, err, apierr.ErrRequestFailed)
	assert.Empty(t, rec.History())

	del.err = nil
	deleted, err = l.Delete(ctx, "1", "Jane Doe", mutation.ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{nav.RouteMembers}, rec.History())
}
