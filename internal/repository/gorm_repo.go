package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRecordRepository[T any, P models.EntityPtr[T]] struct {
	db   *gorm.DB
	kind models.Kind
}

// NewGormRecordRepository stores records of kind T in the table gorm derives from T.
func NewGormRecordRepository[T any, P models.EntityPtr[T]](db *gorm.DB) RecordRepository[T] {
	return &gormRecordRepository[T, P]{db: db, kind: models.KindOf[T, P]()}
}

func (r *gormRecordRepository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	records := []T{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, storageErr("list "+r.kind.Name, err)
	}
	return records, nil
}

func (r *gormRecordRepository[T, P]) Create(ctx context.Context, record *T) error {
	// the BeforeCreate hook assigns a fresh id
	P(record).Common().ID = ""
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return storageErr("create "+r.kind.Singular, err)
	}
	return nil
}

func (r *gormRecordRepository[T, P]) Replace(ctx context.Context, id string, record *T) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	P(record).Common().ID = id

	var stored T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") writes zero values too, so omitted fields are cleared
		res := tx.Model(record).Select("*").Omit("id", "created_at").Updates(record)
		if res.Error != nil {
			return storageErr("update "+r.kind.Singular, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(&stored, "id = ?", id).Error; err != nil {
			return storageErr("reload "+r.kind.Singular, err)
		}
		return nil
	})
	if err != nil {
		return nil, r.classify("update", err)
	}
	return &stored, nil
}

func (r *gormRecordRepository[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var stored T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stored, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageErr("find "+r.kind.Singular, err)
		}
		if err := tx.Delete(&stored).Error; err != nil {
			return storageErr("delete "+r.kind.Singular, err)
		}
		return nil
	})
	if err != nil {
		return nil, r.classify("delete", err)
	}
	return &stored, nil
}

// classify keeps sentinel errors from the transaction body and wraps
// begin/commit failures as storage errors.
func (r *gormRecordRepository[T, P]) classify(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
		return err
	}
	return storageErr(op+" "+r.kind.Singular, err)
}
