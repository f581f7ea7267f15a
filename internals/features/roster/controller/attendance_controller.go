// file: internals/features/roster/controller/attendance_controller.go
package controller

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"el3adra_backend/internals/configs"
	"el3adra_backend/internals/constants"
	"el3adra_backend/internals/features/roster/dto"
	"el3adra_backend/internals/features/roster/model"
	"el3adra_backend/internals/features/roster/repository"
	"el3adra_backend/internals/features/roster/service"
	helper "el3adra_backend/internals/helpers"
	"el3adra_backend/internals/helpers/logger"
)

const rosterPageSize = 10

// AttendanceController serves the Sunday attendance page. The mass
// page shares the same collection and cache and only differs in which
// day-record field it touches (see MassController).
type AttendanceController struct {
	Store     *repository.Store
	Cache     *service.RosterCache[model.AttendanceChildModel]
	Coalescer *service.WriteCoalescer
}

func NewAttendanceController(store *repository.Store, cache *service.RosterCache[model.AttendanceChildModel], co *service.WriteCoalescer) *AttendanceController {
	return &AttendanceController{Store: store, Cache: cache, Coalescer: co}
}

func (ctl *AttendanceController) stageRows(c *fiber.Ctx, stage string) ([]model.AttendanceChildModel, error) {
	return ctl.Cache.Get(stage, func() ([]model.AttendanceChildModel, error) {
		return ctl.Store.AttendanceByStage(c.UserContext(), stage)
	})
}

/* ===============================
   GET /:stage
   ?search= &date= &status= &page=
=================================*/

func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	return listAttendancePage(c, ctl, model.FieldPresent)
}

// listAttendancePage is shared between the attendance and mass views.
func listAttendancePage(c *fiber.Ctx, ctl *AttendanceController, field string) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	date := c.Query("date", todayISO())
	status := c.Query("status", service.StatusAll)
	if !service.IsValidStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "فلتر غير صالح")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		logger.LogError("roster", "AttendanceList", "fetchByStage", stage, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	rows = service.FilterByName(rows, c.Query("search"), func(m model.AttendanceChildModel) string { return m.AttendanceName })
	rows = service.FilterByDayStatus(rows, date, field, status, func(m model.AttendanceChildModel) model.DayMap { return m.AttendanceDays })
	service.SortByName(rows, func(m model.AttendanceChildModel) string { return m.AttendanceName })

	page := c.QueryInt("page", 1)
	window, pagination := service.Paginate(rows, page, rosterPageSize)

	out := make([]dto.RosterChildResponse, 0, len(window))
	for _, m := range window {
		out = append(out, dto.FromAttendanceModel(m, date, field))
	}
	// the page header shows the Arabic stage label
	return helper.JsonList(c, constants.StageLabel(stage), out, pagination)
}

/* ===============================
   POST /:stage  (manual add)
=================================*/

func (ctl *AttendanceController) Add(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	var req dto.AddChildRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ أدخل اسم الطفل")
	}
	name := dto.TrimmedName(req.Name)
	if name == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ أدخل اسم الطفل")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	for _, m := range rows {
		if helper.SameName(m.AttendanceName, name) {
			return helper.JsonError(c, fiber.StatusConflict, "⚠️ الاسم ده موجود بالفعل")
		}
	}

	row := model.AttendanceChildModel{
		AttendanceName: name,
		AttendancePage: stage,
		AttendanceDays: model.DayMap{},
	}
	if err := ctl.Store.CreateAttendance(c.UserContext(), &row); err != nil {
		logger.LogError("roster", "AttendanceAdd", "create", name, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء الإضافة")
	}

	ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
		return append(rows, row)
	})
	return helper.JsonCreated(c, "", dto.FromAttendanceModel(row, todayISO(), model.FieldPresent))
}

/* ===============================
   PATCH /:stage/:id/day  (checkbox)
=================================*/

// ToggleDay applies the optimistic update protocol: the cache row is
// replaced synchronously via the pure day-map update, then the store
// patch rides the coalescer. No read-back confirms the write.
func (ctl *AttendanceController) ToggleDay(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}

	var req dto.ToggleDayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "طلب غير صالح")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// snapshot must exist before the optimistic mutation
	if _, err := ctl.stageRows(c, stage); err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	found := false
	ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
		for i := range rows {
			if rows[i].AttendanceID == id {
				rows[i].AttendanceDays = rows[i].AttendanceDays.SetField(req.Date, req.Field, req.Value)
				found = true
				break
			}
		}
		return rows
	})
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "الطفل غير موجود")
	}

	store := ctl.Store
	date, field, value := req.Date, req.Field, req.Value
	ctl.Coalescer.Enqueue(service.WriteKey{RecordID: id.String(), Field: field}, func(ctx context.Context) {
		if err := store.PatchAttendanceDayField(ctx, id, date, field, value); err != nil {
			logger.LogError("roster", "AttendanceToggleDay", "patchDayField", id.String(), err)
		}
	})
	return helper.JsonUpdated(c, "", fiber.Map{"id": id.String(), "date": date, "field": field, "value": value})
}

/* ===============================
   POST /:stage/reset  (whole day)
=================================*/

// ResetDay writes {present:false, massPresent:false} for the date on
// every child of the stage, one sequential store write per record.
// Not transactional: a failure partway leaves earlier records reset.
func (ctl *AttendanceController) ResetDay(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	var req dto.ResetDayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "طلب غير صالح")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	blank := model.DayRecord{model.FieldPresent: false, model.FieldMassPresent: false}
	for _, m := range rows {
		if err := ctl.Store.SetAttendanceDay(c.UserContext(), m.AttendanceID, req.Date, blank); err != nil {
			logger.LogError("roster", "AttendanceResetDay", "setDay", m.AttendanceID.String(), err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء إعادة ضبط الحضور")
		}
		id := m.AttendanceID
		ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
			for i := range rows {
				if rows[i].AttendanceID == id {
					rows[i].AttendanceDays = rows[i].AttendanceDays.SetDay(req.Date, blank)
				}
			}
			return rows
		})
	}
	return helper.JsonUpdated(c, "تمت إعادة الضبط", fiber.Map{"date": req.Date, "count": len(rows)})
}

/* ===============================
   POST /:stage/move  (feature-flagged)
=================================*/

func (ctl *AttendanceController) MoveSelected(c *fiber.Ctx) error {
	if !configs.EnableStageMove {
		return helper.JsonError(c, fiber.StatusForbidden, "🔒 مقفول")
	}
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	var req dto.MoveStageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر الصف أولًا")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر طفل واحد على الأقل")
	}
	if !constants.IsValidStage(req.TargetStage) {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر الصف أولًا")
	}

	moved := make(map[uuid.UUID]bool, len(req.IDs))
	for _, raw := range req.IDs {
		id := uuid.MustParse(raw) // validated above
		if err := ctl.Store.MoveAttendanceStage(c.UserContext(), id, req.TargetStage); err != nil {
			logger.LogError("roster", "AttendanceMove", "moveStage", raw, err)
			break
		}
		moved[id] = true
	}

	// Moved records disappear from this stage's list; the destination
	// stage picks them up on its next fetch.
	ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
		out := rows[:0]
		for _, m := range rows {
			if !moved[m.AttendanceID] {
				out = append(out, m)
			}
		}
		return out
	})
	ctl.Cache.Invalidate(req.TargetStage)

	if len(moved) != len(req.IDs) {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء النقل")
	}
	return helper.JsonUpdated(c, "تم النقل", fiber.Map{"moved": len(moved), "target_stage": req.TargetStage})
}

/* ===============================
   DELETE /:stage/:id
=================================*/

// Delete removes the local row regardless of the store outcome; a
// remote failure is logged, not rolled back.
func (ctl *AttendanceController) Delete(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}

	if err := ctl.Store.DeleteAttendance(c.UserContext(), id); err != nil {
		logger.LogError("roster", "AttendanceDelete", "delete", id.String(), err)
	}
	ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
		out := rows[:0]
		for _, m := range rows {
			if m.AttendanceID != id {
				out = append(out, m)
			}
		}
		return out
	})
	return helper.JsonDeleted(c, "", fiber.Map{"id": id.String()})
}

/* ===============================
   POST /:stage/import  (name-only)
=================================*/

func (ctl *AttendanceController) Import(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	filename, data, err := readUploadedSheet(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ حدث خطأ أثناء رفع الملف، تأكد أنه ملف إكسل صالح وعمود 'الاسم' موجود")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	existing := make(map[string]bool, len(rows))
	for _, m := range rows {
		existing[helper.NormalizeName(m.AttendanceName)] = true
	}

	candidates, err := service.ParseAndMerge(filename, data, existing)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ الملف غير صالح، تأكد أن عمود 'الاسم' موجود")
	}

	added := 0
	for _, cand := range candidates {
		row := model.AttendanceChildModel{
			AttendanceName: cand.Name,
			AttendancePage: stage,
			AttendanceDays: model.DayMap{},
		}
		if err := ctl.Store.CreateAttendance(c.UserContext(), &row); err != nil {
			logger.LogError("roster", "AttendanceImport", "create", cand.Name, err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء رفع الإكسل")
		}
		ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
			return append(rows, row)
		})
		added++
	}
	return helper.JsonOK(c, "✅ تم إضافة الصفوف بنجاح", dto.ImportReport{Added: added})
}

/* ===============================
   shared small helpers
=================================*/

func readUploadedSheet(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

// stubbed in tests
var timeNow = time.Now

func todayISO() string {
	return timeNow().Format("2006-01-02")
}
