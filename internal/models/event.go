package models

type Event struct {
	Record   `bson:",inline"`
	Category string `gorm:"type:varchar(40)" bson:"category" json:"category"`
}

func (*Event) Kind() Kind { return EventKind }

func (e *Event) FilterValue() string { return e.Category }
