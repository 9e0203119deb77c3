// Package admin holds the client-side view state of the admin tool: the
// fetched collections with their filters, the record editor and the login session.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Eursukkul/club-cms/internal/models"
)

// Source is the remote collection a catalog mirrors; *client.Collection satisfies it.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record *T) (*T, error)
	Update(ctx context.Context, id string, record *T) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// Catalog is the local view over one collection. It is not safe for concurrent use.
type Catalog[T any, P models.EntityPtr[T]] struct {
	src          Source[T]
	kind         models.Kind
	records      []T
	filter       string
	featuredOnly bool
}

func NewCatalog[T any, P models.EntityPtr[T]](src Source[T]) *Catalog[T, P] {
	return &Catalog[T, P]{src: src, kind: models.KindOf[T, P]()}
}

func (c *Catalog[T, P]) Kind() models.Kind { return c.kind }

// Refresh replaces the local set with the server's. On failure the previous
// view is kept and the error is returned for display.
func (c *Catalog[T, P]) Refresh(ctx context.Context) error {
	records, err := c.src.List(ctx)
	if err != nil {
		slog.Warn("refresh failed, keeping previous view", "collection", c.kind.Name, "cached", len(c.records), "error", err)
		return fmt.Errorf("fetch %s: %w", c.kind.Name, err)
	}
	c.records = records
	return nil
}

func (c *Catalog[T, P]) Records() []T {
	return append([]T(nil), c.records...)
}

func (c *Catalog[T, P]) Find(id string) (T, bool) {
	for _, r := range c.records {
		if P(&r).Common().ID == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// SetFilter selects the category (events) or level (workshops) to show;
// "All" or "" shows everything.
func (c *Catalog[T, P]) SetFilter(value string) error {
	if !c.kind.AllowsFilter(value) {
		return fmt.Errorf("unknown %s %q", c.kind.FilterField, value)
	}
	if value == "All" {
		value = ""
	}
	c.filter = value
	return nil
}

func (c *Catalog[T, P]) Filter() string {
	if c.filter == "" {
		return "All"
	}
	return c.filter
}

func (c *Catalog[T, P]) SetFeaturedOnly(on bool) { c.featuredOnly = on }

// Visible applies the filter and the featured switch locally without a
// server round-trip.
func (c *Catalog[T, P]) Visible() []T {
	out := []T{}
	for _, r := range c.records {
		p := P(&r)
		if c.filter != "" && p.FilterValue() != c.filter {
			continue
		}
		if c.featuredOnly && !p.Common().Featured {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Delete removes the record locally only once the server confirms it.
func (c *Catalog[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	deleted, err := c.src.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete %s %s: %w", c.kind.Singular, id, err)
	}
	c.remove(id)
	return deleted, nil
}

// reconcile puts the server's copy of a record in place of the local one,
// appending it when the id is new.
func (c *Catalog[T, P]) reconcile(stored *T) {
	id := P(stored).Common().ID
	for i := range c.records {
		if P(&c.records[i]).Common().ID == id {
			c.records[i] = *stored
			return
		}
	}
	c.records = append(c.records, *stored)
}

func (c *Catalog[T, P]) remove(id string) {
	kept := c.records[:0]
	for _, r := range c.records {
		if P(&r).Common().ID != id {
			kept = append(kept, r)
		}
	}
	c.records = kept
}
