package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting is a key/value switch stored as JSON so values can be booleans
// today and richer documents later without a migration.
type SystemSetting struct {
	Key         string         `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
