// file: internals/features/roster/model/children_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ChildProfileModel is the children directory: contact/biographical
// fields are free text (no validation), visits are tracked per month.
type ChildProfileModel struct {
	ChildrenID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:children_id" json:"children_id"`
	ChildrenName string    `gorm:"type:text;not null;column:children_name" json:"children_name"`
	ChildrenPage string    `gorm:"type:varchar(20);not null;index:idx_children_page;column:children_page" json:"children_page"`

	ChildrenPhone  string `gorm:"type:text;not null;default:'';column:children_phone" json:"children_phone"`
	ChildrenPhone1 string `gorm:"type:text;not null;default:'';column:children_phone1" json:"children_phone1"`
	ChildrenPhone2 string `gorm:"type:text;not null;default:'';column:children_phone2" json:"children_phone2"`
	ChildrenNotes  string `gorm:"type:text;not null;default:'';column:children_notes" json:"children_notes"`

	ChildrenAddress     string `gorm:"type:text;not null;default:'';column:children_address" json:"children_address"`
	ChildrenDateOfBirth string `gorm:"type:text;not null;default:'';column:children_date_of_birth" json:"children_date_of_birth"`

	// Free-text stage as written in the imported sheet; distinct from
	// ChildrenPage, which routes the record to a class.
	ChildrenStage string `gorm:"type:text;not null;default:'';column:children_stage" json:"children_stage"`

	ChildrenBirthCertificate string `gorm:"type:text;not null;default:'';column:children_birth_certificate" json:"children_birth_certificate"`

	// YYYY-MM → visited flag.
	ChildrenVisited MonthMap `gorm:"type:jsonb;not null;default:'{}';column:children_visited" json:"children_visited"`

	ChildrenCreatedAt time.Time  `gorm:"column:children_created_at;autoCreateTime" json:"children_created_at"`
	ChildrenUpdatedAt *time.Time `gorm:"column:children_updated_at;autoUpdateTime" json:"children_updated_at,omitempty"`
}

func (ChildProfileModel) TableName() string { return "children" }
