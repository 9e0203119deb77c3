package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

// Record holds the fields shared by every record kind.
type Record struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Title           string    `gorm:"not null" bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	FullDescription string    `bson:"fullDescription" json:"fullDescription"`
	Date            string    `bson:"date" json:"date"`
	Time            string    `bson:"time" json:"time"`
	Location        string    `gorm:"not null" bson:"location" json:"location"`
	Capacity        int       `gorm:"not null" bson:"capacity" json:"capacity"`
	Registered      int       `gorm:"not null" bson:"registered" json:"registered"`
	Status          Status    `gorm:"type:varchar(20);not null" bson:"status" json:"status"`
	Featured        bool      `gorm:"not null" bson:"featured" json:"featured"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (r *Record) Common() *Record { return r }

// ApplyDefaults fills the values the store assigns when the caller omits them.
// Registered and Featured already default to their zero values.
func (r *Record) ApplyDefaults() {
	if r.Status == "" {
		r.Status = StatusDraft
	}
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Entity is implemented by pointers to every record kind.
type Entity interface {
	Common() *Record
	Kind() Kind
	FilterValue() string
}

// EntityPtr constrains generic code to a record kind T whose pointer is an Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// KindOf returns the descriptor for record kind T.
func KindOf[T any, P EntityPtr[T]]() Kind {
	var zero T
	return P(&zero).Kind()
}
