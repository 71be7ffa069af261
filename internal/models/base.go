package models

import "time"

// Base contains the columns shared by every stored record.
// ID is assigned by the store on insert and never changes afterwards.
type Base struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// GetID returns the record identifier.
func (b *Base) GetID() string { return b.ID }

// SetID assigns the record identifier.
func (b *Base) SetID(id string) { b.ID = id }

// Touch stamps CreatedAt on first write and UpdatedAt on every write.
// Stores without automatic timestamps call it before persisting.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
