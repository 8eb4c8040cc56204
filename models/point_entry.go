package models

import "time"

// Point entry kinds.
const (
	EntryCredit   = "credit"
	EntryReversal = "reversal"
)

// PointEntry is the audit ledger for the points accumulator. Every mutation
// of users.points is written here in the same transaction, so the balance can
// always be reconciled against the ledger.
type PointEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	Points    int64     `gorm:"not null" json:"points"`
	Kind      string    `gorm:"type:enum('credit','reversal');not null" json:"kind"`
	Reference string    `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	Message   *string   `gorm:"size:255" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (PointEntry) TableName() string {
	return "point_entries"
}
