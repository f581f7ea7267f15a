// file: internals/features/roster/controller/children_controller.go
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

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

// ChildrenController is the directory page: contact/biographical
// fields, monthly visit flags, full-profile import and Excel export.
type ChildrenController struct {
	Store     *repository.Store
	Cache     *service.RosterCache[model.ChildProfileModel]
	Coalescer *service.WriteCoalescer
}

func NewChildrenController(store *repository.Store, cache *service.RosterCache[model.ChildProfileModel], co *service.WriteCoalescer) *ChildrenController {
	return &ChildrenController{Store: store, Cache: cache, Coalescer: co}
}

// request field → directory column, the only names PatchChildColumn
// ever sees.
var profileColumns = map[string]string{
	"name":             "children_name",
	"phone":            "children_phone",
	"phone1":           "children_phone1",
	"phone2":           "children_phone2",
	"notes":            "children_notes",
	"address":          "children_address",
	"dateOfBirth":      "children_date_of_birth",
	"stage":            "children_stage",
	"birthCertificate": "children_birth_certificate",
	"visited":          "children_visited",
}

func (ctl *ChildrenController) stageRows(c *fiber.Ctx, stage string) ([]model.ChildProfileModel, error) {
	return ctl.Cache.Get(stage, func() ([]model.ChildProfileModel, error) {
		return ctl.Store.ChildrenByStage(c.UserContext(), stage)
	})
}

/* ===============================
   GET /:stage  ?search= &month= &page=
=================================*/

func (ctl *ChildrenController) List(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	month := c.Query("month", currentMonth())

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		logger.LogError("roster", "ChildrenList", "fetchByStage", stage, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	rows = service.FilterByName(rows, c.Query("search"), func(m model.ChildProfileModel) string { return m.ChildrenName })
	service.SortByName(rows, func(m model.ChildProfileModel) string { return m.ChildrenName })

	window, pagination := service.Paginate(rows, c.QueryInt("page", 1), rosterPageSize)
	out := make([]dto.ChildProfileResponse, 0, len(window))
	for _, m := range window {
		out = append(out, dto.FromProfileModel(m, month))
	}
	return helper.JsonList(c, constants.StageLabel(stage), out, pagination)
}

/* ===============================
   POST /:stage  (blank row)
=================================*/

// Add inserts a directory row. The page's "add row" button sends no
// name at all; the duplicate rule still applies, so a second blank row
// is rejected until the first gets a name.
func (ctl *ChildrenController) Add(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	var req dto.AddProfileRequest
	_ = c.BodyParser(&req) // empty body means blank row
	name := dto.TrimmedName(req.Name)

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	for _, m := range rows {
		if helper.SameName(m.ChildrenName, name) {
			return helper.JsonError(c, fiber.StatusConflict, "⚠️ الاسم موجود بالفعل")
		}
	}

	row := model.ChildProfileModel{
		ChildrenName:    name,
		ChildrenPage:    stage,
		ChildrenVisited: model.MonthMap{},
	}
	if err := ctl.Store.CreateChild(c.UserContext(), &row); err != nil {
		logger.LogError("roster", "ChildrenAdd", "create", name, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء الإضافة")
	}
	ctl.Cache.Mutate(stage, func(rows []model.ChildProfileModel) []model.ChildProfileModel {
		return append(rows, row)
	})
	return helper.JsonCreated(c, "", dto.FromProfileModel(row, currentMonth()))
}

/* ===============================
   PATCH /:stage/:id  (field edit)
=================================*/

// PatchField is the debounced per-field edit. Local state updates
// immediately; the store write rides the coalescer keyed by
// (record, field). A blanked-out name is kept locally but never
// flushed remotely.
func (ctl *ChildrenController) PatchField(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}

	var req dto.PatchProfileFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "طلب غير صالح")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var textValue string
	var visited model.MonthMap
	if req.Field == "visited" {
		if err := json.Unmarshal(req.Value, &visited); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "طلب غير صالح")
		}
	} else {
		if err := json.Unmarshal(req.Value, &textValue); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "طلب غير صالح")
		}
	}

	// snapshot must exist before the optimistic mutation
	if _, err := ctl.stageRows(c, stage); err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}

	found := false
	ctl.Cache.Mutate(stage, func(rows []model.ChildProfileModel) []model.ChildProfileModel {
		for i := range rows {
			if rows[i].ChildrenID == id {
				applyProfileField(&rows[i], req.Field, textValue, visited)
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
	field := req.Field
	column := profileColumns[field]
	ctl.Coalescer.Enqueue(service.WriteKey{RecordID: id.String(), Field: field}, func(ctx context.Context) {
		// never persist a blanked-out name
		if field == "name" && strings.TrimSpace(textValue) == "" {
			return
		}
		var value any = textValue
		if field == "visited" {
			value = visited
		}
		if err := store.PatchChildColumn(ctx, id, column, value); err != nil {
			logger.LogError("roster", "ChildrenPatchField", "patchColumn", id.String(), err)
		}
	})
	return helper.JsonUpdated(c, "", fiber.Map{"id": id.String(), "field": field})
}

func applyProfileField(m *model.ChildProfileModel, field, value string, visited model.MonthMap) {
	switch field {
	case "name":
		m.ChildrenName = value
	case "phone":
		m.ChildrenPhone = value
	case "phone1":
		m.ChildrenPhone1 = value
	case "phone2":
		m.ChildrenPhone2 = value
	case "notes":
		m.ChildrenNotes = value
	case "address":
		m.ChildrenAddress = value
	case "dateOfBirth":
		m.ChildrenDateOfBirth = value
	case "stage":
		m.ChildrenStage = value
	case "birthCertificate":
		m.ChildrenBirthCertificate = value
	case "visited":
		m.ChildrenVisited = visited
	}
}

/* ===============================
   POST /:stage/reset-visits
=================================*/

func (ctl *ChildrenController) ResetVisits(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	var req dto.ResetVisitsRequest
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
		next := m.ChildrenVisited.Set(req.Month, false)
		if err := ctl.Store.PatchChildColumn(c.UserContext(), m.ChildrenID, "children_visited", next); err != nil {
			logger.LogError("roster", "ChildrenResetVisits", "patchColumn", m.ChildrenID.String(), err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء إعادة ضبط الزيارات")
		}
		id := m.ChildrenID
		ctl.Cache.Mutate(stage, func(rows []model.ChildProfileModel) []model.ChildProfileModel {
			for i := range rows {
				if rows[i].ChildrenID == id {
					rows[i].ChildrenVisited = next
				}
			}
			return rows
		})
	}
	return helper.JsonUpdated(c, "تمت إعادة ضبط الزيارات", fiber.Map{"month": req.Month, "count": len(rows)})
}

/* ===============================
   DELETE /:stage/:id
=================================*/

func (ctl *ChildrenController) Delete(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "معرّف غير صالح")
	}
	if err := ctl.Store.DeleteChild(c.UserContext(), id); err != nil {
		logger.LogError("roster", "ChildrenDelete", "delete", id.String(), err)
	}
	ctl.Cache.Mutate(stage, func(rows []model.ChildProfileModel) []model.ChildProfileModel {
		out := rows[:0]
		for _, m := range rows {
			if m.ChildrenID != id {
				out = append(out, m)
			}
		}
		return out
	})
	return helper.JsonDeleted(c, "", fiber.Map{"id": id.String()})
}

/* ===============================
   POST /:stage/import  (full profile)
=================================*/

func (ctl *ChildrenController) Import(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	filename, data, err := readUploadedSheet(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ حدث خطأ أثناء رفع الإكسل")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	existing := make(map[string]bool, len(rows))
	for _, m := range rows {
		existing[helper.NormalizeName(m.ChildrenName)] = true
	}

	candidates, err := service.ParseAndMerge(filename, data, existing)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "❌ الملف غير صالح، تأكد أن عمود 'الاسم' موجود")
	}

	added := 0
	for _, cand := range candidates {
		row := model.ChildProfileModel{
			ChildrenName:             cand.Name,
			ChildrenPage:             stage,
			ChildrenPhone:            cand.Phone,
			ChildrenPhone1:           cand.Phone1,
			ChildrenPhone2:           cand.Phone2,
			ChildrenNotes:            cand.Notes,
			ChildrenAddress:          cand.Address,
			ChildrenDateOfBirth:      cand.DateOfBirth,
			ChildrenStage:            cand.Stage,
			ChildrenBirthCertificate: cand.BirthCertificate,
			ChildrenVisited:          model.MonthMap{},
		}
		if err := ctl.Store.CreateChild(c.UserContext(), &row); err != nil {
			logger.LogError("roster", "ChildrenImport", "create", cand.Name, err)
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ حدث خطأ أثناء رفع الإكسل")
		}
		ctl.Cache.Mutate(stage, func(rows []model.ChildProfileModel) []model.ChildProfileModel {
			return append(rows, row)
		})
		added++
	}
	return helper.JsonOK(c, "✅ تم إضافة الصفوف بنجاح", dto.ImportReport{Added: added})
}

/* ===============================
   GET /:stage/export
=================================*/

// Export streams the directory as one sheet, in the current
// filtered/sorted order, with the fixed Arabic headers.
func (ctl *ChildrenController) Export(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !constants.IsValidStage(stage) {
		return helper.JsonError(c, fiber.StatusNotFound, "الصف غير موجود")
	}

	rows, err := ctl.stageRows(c, stage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "❌ فشل تحميل البيانات")
	}
	rows = service.FilterByName(rows, c.Query("search"), func(m model.ChildProfileModel) string { return m.ChildrenName })
	service.SortByName(rows, func(m model.ChildProfileModel) string { return m.ChildrenName })

	f, err := service.BuildChildrenWorkbook(rows)
	if err != nil {
		logger.LogError("roster", "ChildrenExport", "buildWorkbook", stage, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "❌ حدث خطأ أثناء التصدير")
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "❌ حدث خطأ أثناء التصدير")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+service.ExportFilename(stage, timeNow())+`"`)
	return c.Send(buf.Bytes())
}

func currentMonth() string {
	return timeNow().Format("2006-01")
}
