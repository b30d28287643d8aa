package schema

import "time"

// EligibleHandle represents the eligible_handles table - the append-only allow list
type EligibleHandle struct {
	Handle    string    `gorm:"column:handle;primaryKey;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the EligibleHandle model
func (EligibleHandle) TableName() string {
	return "eligible_handles"
}
