// file: internals/features/roster/dto/roster_dto.go
package dto

import (
	"strings"

	"gorm.io/datatypes"

	"el3adra_backend/internals/features/roster/model"
)

/* =========================================================
   Requests
   ========================================================= */

type AddChildRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddProfileRequest — the directory's "add row" starts blank, so the
// name is not required here; the duplicate check still applies.
type AddProfileRequest struct {
	Name string `json:"name"`
}

type ToggleDayRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Field string `json:"field" validate:"required,oneof=present massPresent"`
	Value bool   `json:"value"`
}

type ToggleTusbhaDayRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Value bool   `json:"value"`
}

type ResetDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type MoveStageRequest struct {
	TargetStage string   `json:"target_stage" validate:"required"`
	IDs         []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// PatchProfileFieldRequest updates one directory field. Value is raw
// JSON: a string for the text fields, the whole month map for
// "visited".
type PatchProfileFieldRequest struct {
	Field string         `json:"field" validate:"required,oneof=name phone phone1 phone2 notes address dateOfBirth stage birthCertificate visited"`
	Value datatypes.JSON `json:"value" validate:"required"`
}

type ResetVisitsRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

/* =========================================================
   Responses (client shape of the pages)
   ========================================================= */

type RosterChildResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Day          model.DayRecord `json:"day"`
	HasDay       bool            `json:"has_day"`
	MonthlyCount int             `json:"monthly_count"`
}

func FromAttendanceModel(m model.AttendanceChildModel, date, field string) RosterChildResponse {
	return RosterChildResponse{
		ID:           m.AttendanceID.String(),
		Name:         m.AttendanceName,
		Day:          m.AttendanceDays.Get(date),
		HasDay:       m.AttendanceDays.Has(date),
		MonthlyCount: m.AttendanceDays.MonthlyCount(yearMonth(date), field),
	}
}

func FromTusbhaModel(m model.TusbhaChildModel, date string) RosterChildResponse {
	return RosterChildResponse{
		ID:           m.TusbhaID.String(),
		Name:         m.TusbhaName,
		Day:          m.TusbhaDays.Get(date),
		HasDay:       m.TusbhaDays.Has(date),
		MonthlyCount: m.TusbhaDays.MonthlyCount(yearMonth(date), model.FieldPresent),
	}
}

type ChildProfileResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Phone1           string `json:"phone1"`
	Phone2           string `json:"phone2"`
	Notes            string `json:"notes"`
	Address          string `json:"address"`
	DateOfBirth      string `json:"dateOfBirth"`
	Stage            string `json:"stage"`
	BirthCertificate string `json:"birthCertificate"`
	Visited          bool   `json:"visited"`
}

func FromProfileModel(m model.ChildProfileModel, month string) ChildProfileResponse {
	return ChildProfileResponse{
		ID:               m.ChildrenID.String(),
		Name:             m.ChildrenName,
		Phone:            m.ChildrenPhone,
		Phone1:           m.ChildrenPhone1,
		Phone2:           m.ChildrenPhone2,
		Notes:            m.ChildrenNotes,
		Address:          m.ChildrenAddress,
		DateOfBirth:      m.ChildrenDateOfBirth,
		Stage:            m.ChildrenStage,
		BirthCertificate: m.ChildrenBirthCertificate,
		Visited:          m.ChildrenVisited[month],
	}
}

type ImportReport struct {
	Added int `json:"added"`
}

// yearMonth trims an ISO date to its YYYY-MM prefix.
func yearMonth(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

// TrimmedName is the ingest rule: display keeps the original name,
// trimmed once on the way in.
func TrimmedName(name string) string {
	return strings.TrimSpace(name)
}
