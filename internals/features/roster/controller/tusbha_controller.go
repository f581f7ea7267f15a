// file: internals/features/roster/controller/tusbha_controller.go
package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"el3adra_backend/internals/constants"
	"el3adra_backend/internals/features/roster/dto"
	"el3adra_backend/internals/features/roster/model"
	"el3adra_backend/internals/features/roster/repository"
	"el3adra_backend/internals/features/roster/service"
	helper "el3adra_backend/internals/helpers"
	"el3adra_backend/internals/helpers/logger"
)

// TusbhaController — weekly tusbha attendance, its own collection,
// grade3..grade6 only. Day records carry just "present". Stage move is
// live on this page.
type TusbhaController struct {
	Store     *repository.Store
	Cache     *service.RosterCache[model.TusbhaChildModel]
	Coalescer *service.WriteCoalescer
}

func NewTusbhaController(store *repository.Store, cache *service.RosterCache[model.TusbhaChildModel], co *service.WriteCoalescer) *TusbhaController {
	return &TusbhaController{Store: store, Cache: cache, Coalescer: co}
}

func (ctl *TusbhaController) stageRows(c *fiber.Ctx, stage string) ([]model.TusbhaChildModel, error) {
	return ctl.Cache.Get(stage, func() ([]model.TusbhaChildModel, error) {
		return ctl.Store.TusbhaByStage(c.UserContext(), stage)
	})
}

func requireTusbhaStage(c *fiber.Ctx) (string, bool) {
	stage := c.Params("stage")
	if !constants.IsTusbhaStage(stage) {
		return "", false
	}
	return stage, true
}

/* ===============================
   GET /:stage
=================================*/

func (ctl *TusbhaController) List(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	date := c.Query("date", todayISO())
	status := c.Query("status", service.StatusAll)
	if !service.IsValidStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "فلتر غير صالح")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		logger.LogError("roster", "TusbhaList", "fetchByStage", stage, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	rows = service.FilterByName(rows, c.Query("search"), func(m model.TusbhaChildModel) string { return m.TusbhaName })
	rows = service.FilterByDayStatus(rows, date, model.FieldPresent, status, func(m model.TusbhaChildModel) model.DayMap { return m.TusbhaDays })
	service.SortByName(rows, func(m model.TusbhaChildModel) string { return m.TusbhaName })

	window, pagination := service.Paginate(rows, c.QueryInt("page", 1), rosterPageSize)
	out := make([]dto.RosterChildResponse, 0, len(window))
	for _, m := range window {
		out = append(out, dto.FromTusbhaModel(m, date))
	}
	return helper.JsonList(c, constants.StageLabel(stage), out, pagination)
}

/* ===============================
   POST /:stage
=================================*/

func (ctl *TusbhaController) Add(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
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
		if helper.SameName(m.TusbhaName, name) {
			return helper.JsonError(c, fiber.StatusConflict, "⚠️ الاسم ده موجود بالفعل")
		}
	}

	row := model.TusbhaChildModel{
		TusbhaName: name,
		TusbhaPage: stage,
		TusbhaDays: model.DayMap{},
	}
	if err := ctl.Store.CreateTusbha(c.UserContext(), &row); err != nil {
		logger.LogError("roster", "TusbhaAdd", "create", name, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء الإضافة")
	}
	ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
		return append(rows, row)
	})
	return helper.JsonCreated(c, "", dto.FromTusbhaModel(row, todayISO()))
}

/* ===============================
   PATCH /:stage/:id/day
=================================*/

func (ctl *TusbhaController) ToggleDay(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}

	var req dto.ToggleTusbhaDayRequest
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
	ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
		for i := range rows {
			if rows[i].TusbhaID == id {
				rows[i].TusbhaDays = rows[i].TusbhaDays.SetField(req.Date, model.FieldPresent, req.Value)
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
	date, value := req.Date, req.Value
	ctl.Coalescer.Enqueue(service.WriteKey{RecordID: id.String(), Field: model.FieldPresent}, func(ctx context.Context) {
		if err := store.PatchTusbhaDayField(ctx, id, date, model.FieldPresent, value); err != nil {
			logger.LogError("roster", "TusbhaToggleDay", "patchDayField", id.String(), err)
		}
	})
	return helper.JsonUpdated(c, "", fiber.Map{"id": id.String(), "date": date, "value": value})
}

/* ===============================
   POST /:stage/reset
=================================*/

func (ctl *TusbhaController) ResetDay(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
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

	blank := model.DayRecord{model.FieldPresent: false}
	for _, m := range rows {
		if err := ctl.Store.SetTusbhaDay(c.UserContext(), m.TusbhaID, req.Date, blank); err != nil {
			logger.LogError("roster", "TusbhaResetDay", "setDay", m.TusbhaID.String(), err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء إعادة ضبط الحضور")
		}
		id := m.TusbhaID
		ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
			for i := range rows {
				if rows[i].TusbhaID == id {
					rows[i].TusbhaDays = rows[i].TusbhaDays.SetDay(req.Date, blank)
				}
			}
			return rows
		})
	}
	return helper.JsonUpdated(c, "تمت إعادة الضبط", fiber.Map{"date": req.Date, "count": len(rows)})
}

/* ===============================
   POST /:stage/move — live here
=================================*/

func (ctl *TusbhaController) MoveSelected(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	var req dto.MoveStageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر الأطفال لنقلهم أولاً")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر الأطفال لنقلهم أولاً")
	}
	if !constants.IsTusbhaStage(req.TargetStage) {
		return helper.JsonError(c, fiber.StatusBadRequest, "⚠️ اختر الصف أولًا")
	}

	moved := make(map[uuid.UUID]bool, len(req.IDs))
	for _, raw := range req.IDs {
		id := uuid.MustParse(raw)
		if err := ctl.Store.MoveTusbhaStage(c.UserContext(), id, req.TargetStage); err != nil {
			logger.LogError("roster", "TusbhaMove", "moveStage", raw, err)
			break
		}
		moved[id] = true
	}

	ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
		out := rows[:0]
		for _, m := range rows {
			if !moved[m.TusbhaID] {
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

func (ctl *TusbhaController) Delete(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}
	if err := ctl.Store.DeleteTusbha(c.UserContext(), id); err != nil {
		logger.LogError("roster", "TusbhaDelete", "delete", id.String(), err)
	}
	ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
		out := rows[:0]
		for _, m := range rows {
			if m.TusbhaID != id {
				out = append(out, m)
			}
		}
		return out
	})
	return helper.JsonDeleted(c, "", fiber.Map{"id": id.String()})
}

/* ===============================
   POST /:stage/import
=================================*/

func (ctl *TusbhaController) Import(c *fiber.Ctx) error {
	stage, ok := requireTusbhaStage(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	filename, data, err := readUploadedSheet(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ حدث خطأ أثناء رفع الإكسل. تأكد أن الملف صالح وعمود 'الاسم' موجود")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	existing := make(map[string]bool, len(rows))
	for _, m := range rows {
		existing[helper.NormalizeName(m.TusbhaName)] = true
	}

	candidates, err := service.ParseAndMerge(filename, data, existing)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ الملف غير صالح، تأكد أن عمود 'الاسم' موجود")
	}

	added := 0
	for _, cand := range candidates {
		row := model.TusbhaChildModel{
			TusbhaName: cand.Name,
			TusbhaPage: stage,
			TusbhaDays: model.DayMap{},
		}
		if err := ctl.Store.CreateTusbha(c.UserContext(), &row); err != nil {
			logger.LogError("roster", "TusbhaImport", "create", cand.Name, err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء رفع الإكسل")
		}
		ctl.Cache.Mutate(stage, func(rows []model.TusbhaChildModel) []model.TusbhaChildModel {
			return append(rows, row)
		})
		added++
	}
	return helper.JsonOK(c, "✅ تم إضافة الصفوف بنجاح", dto.ImportReport{Added: added})
}
