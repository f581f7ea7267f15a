// file: internals/features/roster/repository/store.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"el3adra_backend/internals/features/roster/model"
)

/* =========================================================
   Record store adapter
   =========================================================

   Thin layer over the three roster tables. Attendance cells are only
   ever persisted through partial jsonb patches so sibling dates and
   sibling fields of the same day are never clobbered by a stale full
   document.
*/

var (
	// ErrNotFound — the record id no longer exists (e.g. deleted while a
	// coalesced write was pending).
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable — the backing database could not be reached or
	// rejected the operation.
	ErrStoreUnavailable = errors.New("store unavailable")
)

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

/* ===============================
   Fetch (stage-scoped)
=================================*/

func (s *Store) AttendanceByStage(ctx context.Context, stage string) ([]model.AttendanceChildModel, error) {
	var rows []model.AttendanceChildModel
	err := s.DB.WithContext(ctx).
		Where("attendance_page = ?", stage).
		Find(&rows).Error
	return rows, wrapErr(err)
}

func (s *Store) TusbhaByStage(ctx context.Context, stage string) ([]model.TusbhaChildModel, error) {
	var rows []model.TusbhaChildModel
	err := s.DB.WithContext(ctx).
		Where("tusbha_page = ?", stage).
		Find(&rows).Error
	return rows, wrapErr(err)
}

func (s *Store) ChildrenByStage(ctx context.Context, stage string) ([]model.ChildProfileModel, error) {
	var rows []model.ChildProfileModel
	err := s.DB.WithContext(ctx).
		Where("children_page = ?", stage).
		Find(&rows).Error
	return rows, wrapErr(err)
}

/* ===============================
   Create (store assigns the id)
=================================*/

func (s *Store) CreateAttendance(ctx context.Context, row *model.AttendanceChildModel) error {
	return wrapErr(s.DB.WithContext(ctx).Create(row).Error)
}

func (s *Store) CreateTusbha(ctx context.Context, row *model.TusbhaChildModel) error {
	return wrapErr(s.DB.WithContext(ctx).Create(row).Error)
}

func (s *Store) CreateChild(ctx context.Context, row *model.ChildProfileModel) error {
	return wrapErr(s.DB.WithContext(ctx).Create(row).Error)
}

/* ===============================
   Day-map patches (jsonb_set)
=================================*/

// patchDayField sets days[date][field] without touching siblings:
//
//	days = jsonb_set(days, {date}, (days->date | '{}') || {field: value})
func (s *Store) patchDayField(ctx context.Context, table, daysCol, idCol string, id uuid.UUID, date, field string, value bool) error {
	sql := fmt.Sprintf(
		`UPDATE %s SET %s = jsonb_set(
			COALESCE(%s, '{}'::jsonb),
			ARRAY[?],
			COALESCE(%s -> ?, '{}'::jsonb) || jsonb_build_object(?::text, ?::boolean)
		) WHERE %s = ?`,
		table, daysCol, daysCol, daysCol, idCol,
	)
	res := s.DB.WithContext(ctx).Exec(sql, date, date, field, value, id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// setDay overwrites the whole record for one date (reset).
func (s *Store) setDay(ctx context.Context, table, daysCol, idCol string, id uuid.UUID, date string, rec model.DayRecord) error {
	payload, err := rec.JSON()
	if err != nil {
		return wrapErr(err)
	}
	sql := fmt.Sprintf(
		`UPDATE %s SET %s = jsonb_set(COALESCE(%s, '{}'::jsonb), ARRAY[?], ?::jsonb) WHERE %s = ?`,
		table, daysCol, daysCol, idCol,
	)
	res := s.DB.WithContext(ctx).Exec(sql, date, payload, id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) PatchAttendanceDayField(ctx context.Context, id uuid.UUID, date, field string, value bool) error {
	return s.patchDayField(ctx, "attendance", "attendance_days", "attendance_id", id, date, field, value)
}

func (s *Store) SetAttendanceDay(ctx context.Context, id uuid.UUID, date string, rec model.DayRecord) error {
	return s.setDay(ctx, "attendance", "attendance_days", "attendance_id", id, date, rec)
}

func (s *Store) PatchTusbhaDayField(ctx context.Context, id uuid.UUID, date, field string, value bool) error {
	return s.patchDayField(ctx, "tusbha", "tusbha_days", "tusbha_id", id, date, field, value)
}

func (s *Store) SetTusbhaDay(ctx context.Context, id uuid.UUID, date string, rec model.DayRecord) error {
	return s.setDay(ctx, "tusbha", "tusbha_days", "tusbha_id", id, date, rec)
}

/* ===============================
   Column patches / move / delete
=================================*/

// PatchChildColumn updates one directory column. The column name comes
// from the controller's field whitelist, never from raw input.
func (s *Store) PatchChildColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	res := s.DB.WithContext(ctx).
		Model(&model.ChildProfileModel{}).
		Where("children_id = ?", id).
		UpdateColumn(column, value)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) moveStage(ctx context.Context, mdl any, pageCol, idCol string, id uuid.UUID, target string) error {
	res := s.DB.WithContext(ctx).
		Model(mdl).
		Where(idCol+" = ?", id).
		UpdateColumn(pageCol, target)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MoveAttendanceStage(ctx context.Context, id uuid.UUID, target string) error {
	return s.moveStage(ctx, &model.AttendanceChildModel{}, "attendance_page", "attendance_id", id, target)
}

func (s *Store) MoveTusbhaStage(ctx context.Context, id uuid.UUID, target string) error {
	return s.moveStage(ctx, &model.TusbhaChildModel{}, "tusbha_page", "tusbha_id", id, target)
}

func (s *Store) MoveChildStage(ctx context.Context, id uuid.UUID, target string) error {
	return s.moveStage(ctx, &model.ChildProfileModel{}, "children_page", "children_id", id, target)
}

func (s *Store) DeleteAttendance(ctx context.Context, id uuid.UUID) error {
	return wrapErr(s.DB.WithContext(ctx).Delete(&model.AttendanceChildModel{}, "attendance_id = ?", id).Error)
}

func (s *Store) DeleteTusbha(ctx context.Context, id uuid.UUID) error {
	return wrapErr(s.DB.WithContext(ctx).Delete(&model.TusbhaChildModel{}, "tusbha_id = ?", id).Error)
}

func (s *Store) DeleteChild(ctx context.Context, id uuid.UUID) error {
	return wrapErr(s.DB.WithContext(ctx).Delete(&model.ChildProfileModel{}, "children_id = ?", id).Error)
}
