// file: internals/features/roster/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceChildModel is the shared attendance collection: the Sunday
// attendance page and the mass page read the same rows and only differ
// in which day-record field they touch.
type AttendanceChildModel struct {
	AttendanceID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_id" json:"attendance_id"`
	AttendanceName string    `gorm:"type:text;not null;column:attendance_name" json:"attendance_name"`

	// Stage the record currently belongs to ("page" in the documents).
	AttendancePage string `gorm:"type:varchar(20);not null;index:idx_attendance_page;column:attendance_page" json:"attendance_page"`

	AttendanceDays DayMap `gorm:"type:jsonb;not null;default:'{}';column:attendance_days" json:"attendance_days"`

	AttendanceCreatedAt time.Time  `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt *time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at,omitempty"`
}

func (AttendanceChildModel) TableName() string { return "attendance" }
