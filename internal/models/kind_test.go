package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindByName(t *testing.T) {
	for _, name := range []string{"events", "event"} {
		k, ok := KindByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, "category", k.FilterField)
	}
	k, ok := KindByName("workshops")
	assert.True(t, ok)
	assert.Equal(t, "workshop", k.Singular)

	_, ok = KindByName("concerts")
	assert.False(t, ok)
}

func TestAllowsFilter(t *testing.T) {
	assert.True(t, EventKind.AllowsFilter(""))
	assert.True(t, EventKind.AllowsFilter("All"))
	assert.True(t, EventKind.AllowsFilter("Creative"))
	assert.False(t, EventKind.AllowsFilter("Beginner"))
	assert.True(t, WorkshopKind.AllowsFilter("Beginner"))
	assert.False(t, WorkshopKind.AllowsFilter("beginner"))
}

func TestKindOfAndFilterValue(t *testing.T) {
	assert.Equal(t, EventKind, KindOf[Event]())
	assert.Equal(t, WorkshopKind, KindOf[Workshop]())

	ev := &Event{Category: "Ethics"}
	assert.Equal(t, "Ethics", ev.FilterValue())
	w := &Workshop{Level: "Advanced"}
	assert.Equal(t, "Advanced", w.FilterValue())
}

func TestApplyDefaults(t *testing.T) {
	r := Record{}
	r.ApplyDefaults()
	assert.Equal(t, StatusDraft, r.Status)

	r = Record{Status: StatusPublished}
	r.ApplyDefaults()
	assert.Equal(t, StatusPublished, r.Status)
}
