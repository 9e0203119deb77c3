package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/club-cms/internal/models"
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNotEditing    = errors.New("no record is being edited")
	ErrSubmitPending = errors.New("a submission is already in flight")
	ErrUnknownRecord = errors.New("record is not in the catalog")
)

// Editor drives one create or update form:
// Idle -> Editing -> Submitting -> Idle, or back to Editing with the draft
// intact when the server rejects the write.
type Editor[T any, P models.EntityPtr[T]] struct {
	catalog *Catalog[T, P]
	state   State
	id      string
	draft   T
}

func NewEditor[T any, P models.EntityPtr[T]](catalog *Catalog[T, P]) *Editor[T, P] {
	return &Editor[T, P]{catalog: catalog}
}

func (e *Editor[T, P]) State() State { return e.state }

// Target is the id being edited, empty when creating.
func (e *Editor[T, P]) Target() string { return e.id }

func (e *Editor[T, P]) BeginCreate() error {
	if e.state == Submitting {
		return ErrSubmitPending
	}
	var blank T
	P(&blank).Common().Status = models.StatusDraft
	e.id, e.draft, e.state = "", blank, Editing
	return nil
}

func (e *Editor[T, P]) BeginEdit(id string) error {
	if e.state == Submitting {
		return ErrSubmitPending
	}
	record, ok := e.catalog.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownRecord, e.catalog.kind.Singular, id)
	}
	e.id, e.draft, e.state = id, record, Editing
	return nil
}

// Draft exposes the form contents for editing; nil outside Editing.
func (e *Editor[T, P]) Draft() *T {
	if e.state != Editing {
		return nil
	}
	return &e.draft
}

// SetDraft replaces the form contents wholesale.
func (e *Editor[T, P]) SetDraft(draft T) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.draft = draft
	return nil
}

func (e *Editor[T, P]) Cancel() {
	if e.state == Submitting {
		return
	}
	var blank T
	e.id, e.draft, e.state = "", blank, Idle
}

// Submit sends the draft. On success the server's record replaces the local
// one in the catalog and the editor returns to Idle.
func (e *Editor[T, P]) Submit(ctx context.Context) (*T, error) {
	if e.state != Editing {
		return nil, ErrNotEditing
	}
	e.state = Submitting

	draft := e.draft
	var (
		stored *T
		err    error
	)
	if e.id == "" {
		stored, err = e.catalog.src.Create(ctx, &draft)
	} else {
		stored, err = e.catalog.src.Update(ctx, e.id, &draft)
	}
	if err != nil {
		e.state = Editing
		return nil, fmt.Errorf("save %s: %w", e.catalog.kind.Singular, err)
	}

	e.catalog.reconcile(stored)
	e.Cancel()
	return stored, nil
}
