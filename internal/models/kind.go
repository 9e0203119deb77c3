package models

import "slices"

// Kind describes one record collection and the field its listings are filtered by.
type Kind struct {
	Name         string
	Singular     string
	FilterField  string
	FilterValues []string
}

var (
	Categories = []string{"Healthcare", "Competition", "Ethics", "Networking", "Entrepreneurship", "Creative"}
	Levels     = []string{"Beginner", "Intermediate", "Advanced"}

	EventKind = Kind{
		Name:         "events",
		Singular:     "event",
		FilterField:  "category",
		FilterValues: Categories,
	}
	WorkshopKind = Kind{
		Name:         "workshops",
		Singular:     "workshop",
		FilterField:  "level",
		FilterValues: Levels,
	}
)

// AllowsFilter reports whether v is a filter value offered for this kind.
// "All" and the empty string disable filtering.
func (k Kind) AllowsFilter(v string) bool {
	return v == "" || v == "All" || slices.Contains(k.FilterValues, v)
}

// KindByName resolves a collection name such as "events".
func KindByName(name string) (Kind, bool) {
	switch name {
	case EventKind.Name, EventKind.Singular:
		return EventKind, true
	case WorkshopKind.Name, WorkshopKind.Singular:
		return WorkshopKind, true
	}
	return Kind{}, false
}
