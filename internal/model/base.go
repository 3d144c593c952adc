package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel keys account records.
// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UUIDBase keys submissions and follow-ups. Ids are UUIDv7, so they sort in
// creation order and stay append-friendly in the primary key index.
// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewRecordID returns a time-ordered id for a UUIDBase record.
func NewRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Persisted reports whether the record has been inserted.
func (b *UUIDBase) Persisted() bool {
	return b.ID != ""
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) error {
	if b.Persisted() {
		return nil
	}
	id, err := NewRecordID()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}
