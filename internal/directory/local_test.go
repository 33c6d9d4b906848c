package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equipmentList(n int) []domain.Equipment {
	out := make([]domain.Equipment, n)
	for i := range out {
		cat := domain.CategoryAerobic
		if i%2 == 1 {
			cat = domain.CategoryExercise
		}
		out[i] = domain.Equipment{ID: fmt.Sprintf("e%d", i+1), Name: fmt.Sprintf("Machine %d", i+1),
			Number: fmt.Sprintf("EQ-%03d", i+1), Category: cat}
	}
	return out
}

func byCategory(all []domain.Equipment, cat domain.Category) *LocalFetcher[domain.Equipment] {
	return NewLocalFetcher(func(context.Context) ([]domain.Equipment, error) {
		var out []domain.Equipment
		for _, e := range all {
			if e.Category == cat {
				out = append(out, e)
			}
		}
		return out, nil
	}, func(e domain.Equipment) bool { return e.Category == cat })
}

func TestLocalFetcher_KeepsWholeCollection(t *testing.T) {
	f := NewLocalFetcher(func(context.Context) ([]domain.Equipment, error) { return equipmentList(12), nil }, nil)
	c := New[domain.Equipment](f)
	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.Items(), 10)
	assert.Equal(t, 12, c.View().Total)
	all := f.All()
	require.Len(t, all, 12)
	assert.Equal(t, "EQ-012", all[11].Number)

	f.Upsert(domain.Equipment{ID: "e13", Number: "EQ-013"})
	f.Upsert(domain.Equipment{ID: "e1", Number: "EQ-100"})
	f.Remove("e2")
	all = f.All()
	assert.Len(t, all, 12)
	assert.Equal(t, "EQ-100", all[0].Number)
	assert.Equal(t, "e13", all[11].ID)
}

func TestLocalFetcher_ErrorKeepsLastList(t *testing.T) {
	fail := false
	f := NewLocalFetcher(func(context.Context) ([]domain.Equipment, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return equipmentList(3), nil
	}, nil)
	_, err := f.Fetch(context.Background(), Query{Size: 10})
	require.NoError(t, err)

	fail = true
	_, err = f.Fetch(context.Background(), Query{Size: 10})
	assert.EqualError(t, err, "boom")
	assert.Len(t, f.All(), 3)
}

func TestController_FilteredFetcherRejectsOtherCategory(t *testing.T) {
	f := byCategory(equipmentList(6), domain.CategoryAerobic)
	c := New[domain.Equipment](f)
	require.NoError(t, c.Load(context.Background()))
	require.Len(t, c.Items(), 3)

	assert.False(t, c.Append(domain.Equipment{ID: "x1", Number: "LEG-1", Category: domain.CategoryExercise}))
	assert.Len(t, c.Items(), 3)
	assert.Equal(t, 3, c.View().Total)

	f.Upsert(domain.Equipment{ID: "x1", Number: "LEG-1", Category: domain.CategoryExercise})
	assert.Len(t, f.All(), 3)

	assert.True(t, c.Append(domain.Equipment{ID: "x2", Number: "ROW-1", Category: domain.CategoryAerobic}))
	assert.Len(t, c.Items(), 4)

	// Moving a record to the other category takes it off the tab.
	moved := c.Items()[0]
	moved.Category = domain.CategoryExercise
	found, resort := c.Replace(moved)
	assert.True(t, found)
	assert.False(t, resort)
	assert.NotContains(t, idsOfEquipment(c.Items()), moved.ID)
	assert.Equal(t, 3, c.View().Total)

	f.Upsert(moved)
	assert.NotContains(t, idsOfEquipment(f.All()), moved.ID)
}

func idsOfEquipment(es []domain.Equipment) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}
