package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/repository"
)

const publishTimeout = 5 * time.Second

// Publisher announces committed changes, e.g. the RabbitMQ publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type RecordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id string, record *T) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

type recordService[T any, P models.EntityPtr[T]] struct {
	repo      repository.RecordRepository[T]
	publisher Publisher
	kind      models.Kind
}

// NewRecordService returns the CRUD service for kind T. A nil publisher
// disables change notifications.
func NewRecordService[T any, P models.EntityPtr[T]](repo repository.RecordRepository[T], publisher Publisher) RecordService[T] {
	return &recordService[T, P]{repo: repo, publisher: publisher, kind: models.KindOf[T, P]()}
}

func (s *recordService[T, P]) List(ctx context.Context) ([]T, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Name, err)
	}
	return records, nil
}

func (s *recordService[T, P]) Create(ctx context.Context, record *T) error {
	P(record).Common().ApplyDefaults()
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("create %s: %w", s.kind.Singular, err)
	}
	s.publish(ctx, "created", record)
	return nil
}

func (s *recordService[T, P]) Update(ctx context.Context, id string, record *T) (*T, error) {
	P(record).Common().ApplyDefaults()
	stored, err := s.repo.Replace(ctx, id, record)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.kind.Singular, id, err)
	}
	s.publish(ctx, "updated", stored)
	return stored, nil
}

func (s *recordService[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	stored, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete %s %s: %w", s.kind.Singular, id, err)
	}
	s.publish(ctx, "deleted", stored)
	return stored, nil
}

// publish is best effort: the write is already committed.
func (s *recordService[T, P]) publish(ctx context.Context, action string, record *T) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	key := s.kind.Singular + "." + action
	if err := s.publisher.Publish(ctx, key, record); err != nil {
		slog.Warn("publish change", "routing_key", key, "id", P(record).Common().ID, "error", err)
	}
}
