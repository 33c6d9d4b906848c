package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearsBetween(t *testing.T) {
	born := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 24, YearsBetween(born, time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, YearsBetween(born, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, YearsBetween(born, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMember_DisplayHelpers(t *testing.T) {
	m := Member{FirstName: "john", LastName: "Doe", DateOfBirth: "1990-01-31"}

	assert.Equal(t, "john Doe", m.FullName())
	assert.Equal(t, "JD", m.Initials())

	age, ok := m.Age(time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 35, age)

	_, ok = Member{DateOfBirth: "31/01/1990"}.Age(time.Now())
	assert.False(t, ok)
}

func TestMember_SortAndSearchFields(t *testing.T) {
	m := Member{ID: "7", UniqueID: "MEM007", FirstName: "Robert", Weight: 180, Status: true}

	assert.Equal(t, "MEM007", m.SortValue("uniqueId"))
	assert.Equal(t, 180.0, m.SortValue("weight"))
	assert.Equal(t, true, m.SortValue("status"))
	assert.Nil(t, m.SortValue("unknown"))
	assert.Contains(t, m.SearchText(), "MEM007")
	assert.Contains(t, m.SearchText(), "7")
}
