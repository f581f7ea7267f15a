// file: internals/features/roster/route/roster_route.go
package route

import (
	"el3adra_backend/internals/features/roster/controller"
	"el3adra_backend/internals/features/roster/model"
	"el3adra_backend/internals/features/roster/repository"
	"el3adra_backend/internals/features/roster/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RosterRoutes wires the four pages. Attendance and mass share one
// cache because they read the same rows; the coalescer comes from main
// so shutdown can flush it.
func RosterRoutes(api fiber.Router, db *gorm.DB, co *service.WriteCoalescer) {
	store := repository.NewStore(db)

	attendanceCache := service.NewRosterCache[model.AttendanceChildModel]()
	tusbhaCache := service.NewRosterCache[model.TusbhaChildModel]()
	childrenCache := service.NewRosterCache[model.ChildProfileModel]()

	attendanceCtrl := controller.NewAttendanceController(store, attendanceCache, co)
	massCtrl := controller.NewMassController(attendanceCtrl)
	tusbhaCtrl := controller.NewTusbhaController(store, tusbhaCache, co)
	childrenCtrl := controller.NewChildrenController(store, childrenCache, co)

	attendance := api.Group("/attendance")
	attendance.Get("/:stage", attendanceCtrl.List)              // 📄 roster + day status
	attendance.Post("/:stage", attendanceCtrl.Add)              // ➕ add child
	attendance.Post("/:stage/import", attendanceCtrl.Import)    // 📥 excel import
	attendance.Post("/:stage/reset", attendanceCtrl.ResetDay)   // ♻️ whole day
	attendance.Post("/:stage/move", attendanceCtrl.MoveSelected)
	attendance.Patch("/:stage/:id/day", attendanceCtrl.ToggleDay)
	attendance.Delete("/:stage/:id", attendanceCtrl.Delete)

	mass := api.Group("/mass")
	mass.Get("/:stage", massCtrl.List)
	mass.Post("/:stage", massCtrl.Add)
	mass.Post("/:stage/import", massCtrl.Import)
	mass.Post("/:stage/reset", massCtrl.ResetDay) // ♻️ mass flag only
	mass.Post("/:stage/move", massCtrl.MoveSelected)
	mass.Patch("/:stage/:id/day", massCtrl.ToggleDay)
	mass.Delete("/:stage/:id", massCtrl.Delete)

	tusbha := api.Group("/tusbha")
	tusbha.Get("/:stage", tusbhaCtrl.List)
	tusbha.Post("/:stage", tusbhaCtrl.Add)
	tusbha.Post("/:stage/import", tusbhaCtrl.Import)
	tusbha.Post("/:stage/reset", tusbhaCtrl.ResetDay)
	tusbha.Post("/:stage/move", tusbhaCtrl.MoveSelected) // always live
	tusbha.Patch("/:stage/:id/day", tusbhaCtrl.ToggleDay)
	tusbha.Delete("/:stage/:id", tusbhaCtrl.Delete)

	children := api.Group("/children")
	children.Get("/:stage", childrenCtrl.List)
	children.Get("/:stage/export", childrenCtrl.Export) // 📤 xlsx download
	children.Post("/:stage", childrenCtrl.Add)
	children.Post("/:stage/import", childrenCtrl.Import)
	children.Post("/:stage/reset-visits", childrenCtrl.ResetVisits)
	children.Patch("/:stage/:id", childrenCtrl.PatchField)
	children.Delete("/:stage/:id", childrenCtrl.Delete)
}
