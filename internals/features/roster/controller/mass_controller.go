// file: internals/features/roster/controller/mass_controller.go
package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"el3adra_backend/internals/constants"
	"el3adra_backend/internals/features/roster/dto"
	"el3adra_backend/internals/features/roster/model"
	"el3adra_backend/internals/features/roster/service"
	helper "el3adra_backend/internals/helpers"
	"el3adra_backend/internals/helpers/logger"
)

// MassController is the mass-attendance view over the SAME collection
// as the attendance page — same rows, same cache — touching only the
// massPresent field of each day record. Add/Delete/Import are
// inherited unchanged from the attendance controller.
type MassController struct {
	*AttendanceController
}

func NewMassController(base *AttendanceController) *MassController {
	return &MassController{AttendanceController: base}
}

// GET /:stage — monthly counts and the status filter run on
// massPresent here.
func (ctl *MassController) List(c *fiber.Ctx) error {
	return listAttendancePage(c, ctl.AttendanceController, model.FieldMassPresent)
}

// PATCH /:stage/:id/day — the mass checkbox.
func (ctl *MassController) ToggleDay(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}

	var req dto.ToggleTusbhaDayRequest // same shape: date + value
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
				rows[i].AttendanceDays = rows[i].AttendanceDays.SetField(req.Date, model.FieldMassPresent, req.Value)
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
	ctl.Coalescer.Enqueue(service.WriteKey{RecordID: id.String(), Field: model.FieldMassPresent}, func(ctx context.Context) {
		if err := store.PatchAttendanceDayField(ctx, id, date, model.FieldMassPresent, value); err != nil {
			logger.LogError("roster", "MassToggleDay", "patchDayField", id.String(), err)
		}
	})
	return helper.JsonUpdated(c, "", fiber.Map{"id": id.String(), "date": date, "field": model.FieldMassPresent, "value": value})
}

// POST /:stage/reset — unlike the attendance reset, this patches ONLY
// days.<date>.massPresent and leaves the present field alone.
func (ctl *MassController) ResetDay(c *fiber.Ctx) error {
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

	for _, m := range rows {
		if err := ctl.Store.PatchAttendanceDayField(c.UserContext(), m.AttendanceID, req.Date, model.FieldMassPresent, false); err != nil {
			logger.LogError("roster", "MassResetDay", "patchDayField", m.AttendanceID.String(), err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء إعادة ضبط الحضور")
		}
		id := m.AttendanceID
		ctl.Cache.Mutate(stage, func(rows []model.AttendanceChildModel) []model.AttendanceChildModel {
			for i := range rows {
				if rows[i].AttendanceID == id {
					rows[i].AttendanceDays = rows[i].AttendanceDays.SetField(req.Date, model.FieldMassPresent, false)
				}
			}
			return rows
		})
	}
	return helper.JsonUpdated(c, "تمت إعادة الضبط", fiber.Map{"date": req.Date, "count": len(rows)})
}
