package models

type Workshop struct {
	Record   `bson:",inline"`
	Level    string `gorm:"type:varchar(20)" bson:"level" json:"level"`
	Duration string `bson:"duration" json:"duration"`
}

func (*Workshop) Kind() Kind { return WorkshopKind }

func (w *Workshop) FilterValue() string { return w.Level }
