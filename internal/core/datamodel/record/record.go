package record

import "time"

// PortalRecord is one key/value pair in the durable storage tier, scoped by
// portal session. Values holding identity payloads may be sealed at rest.
type PortalRecord struct {
	Scope     string    `gorm:"column:scope;primaryKey;size:64"`
	Key       string    `gorm:"column:record_key;primaryKey;size:255"`
	Value     string    `gorm:"column:record_value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PortalRecord) TableName() string {
	return "portal_records"
}
