package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the identifier is unknown or malformed.
	ErrNotFound = errors.New("record not found")
	// ErrStorage wraps every failure of the backing store.
	ErrStorage = errors.New("storage failure")
)

// RecordRepository persists one collection of records of kind T.
type RecordRepository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record *T) error
	// Replace overwrites every client field of the record stored under id.
	Replace(ctx context.Context, id string, record *T) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
