// file: internals/features/roster/model/tusbha_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// TusbhaChildModel — weekly tusbha attendance, its own collection. Day
// records here only carry the "present" field.
type TusbhaChildModel struct {
	TusbhaID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:tusbha_id" json:"tusbha_id"`
	TusbhaName string    `gorm:"type:text;not null;column:tusbha_name" json:"tusbha_name"`
	TusbhaPage string    `gorm:"type:varchar(20);not null;index:idx_tusbha_page;column:tusbha_page" json:"tusbha_page"`
	TusbhaDays DayMap    `gorm:"type:jsonb;not null;default:'{}';column:tusbha_days" json:"tusbha_days"`

	TusbhaCreatedAt time.Time  `gorm:"column:tusbha_created_at;autoCreateTime" json:"tusbha_created_at"`
	TusbhaUpdatedAt *time.Time `gorm:"column:tusbha_updated_at;autoUpdateTime" json:"tusbha_updated_at,omitempty"`
}

func (TusbhaChildModel) TableName() string { return "tusbha" }
