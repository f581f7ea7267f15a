// file: internals/features/roster/controller/stage_guard_test.go
package controller

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"el3adra_backend/internals/configs"
	"el3adra_backend/internals/features/roster/model"
	"el3adra_backend/internals/features/roster/repository"
	"el3adra_backend/internals/features/roster/service"
)

// The store is never reached for an unknown stage, so a nil DB is safe
// here: any handler that touched it before validating would panic the
// test.
func newStageGuardApp() *fiber.App {
	store := repository.NewStore(nil)
	co := service.NewWriteCoalescer(time.Hour)

	att := NewAttendanceController(store, service.NewRosterCache[model.AttendanceChildModel](), co)
	mass := NewMassController(att)
	tus := NewTusbhaController(store, service.NewRosterCache[model.TusbhaChildModel](), co)
	ch := NewChildrenController(store, service.NewRosterCache[model.ChildProfileModel](), co)

	app := fiber.New()
	api := app.Group("/api")

	attendance := api.Group("/attendance")
	attendance.Post("/:stage/reset", att.ResetDay)
	attendance.Post("/:stage/move", att.MoveSelected)
	attendance.Patch("/:stage/:id/day", att.ToggleDay)
	attendance.Delete("/:stage/:id", att.Delete)

	massGroup := api.Group("/mass")
	massGroup.Post("/:stage/reset", mass.ResetDay)
	massGroup.Patch("/:stage/:id/day", mass.ToggleDay)

	tusbha := api.Group("/tusbha")
	tusbha.Post("/:stage/reset", tus.ResetDay)
	tusbha.Post("/:stage/move", tus.MoveSelected)
	tusbha.Patch("/:stage/:id/day", tus.ToggleDay)
	tusbha.Delete("/:stage/:id", tus.Delete)

	children := api.Group("/children")
	children.Post("/:stage/reset-visits", ch.ResetVisits)
	children.Patch("/:stage/:id", ch.PatchField)
	children.Delete("/:stage/:id", ch.Delete)

	return app
}

func TestMutatingEndpointsRejectUnknownStage(t *testing.T) {
	configs.EnableStageMove = true
	defer func() { configs.EnableStageMove = false }()

	app := newStageGuardApp()
	id := uuid.NewString()

	tests := []struct {
		method string
		path   string
	}{
		{fiber.MethodPatch, "/api/attendance/notastage/" + id + "/day"},
		{fiber.MethodPost, "/api/attendance/notastage/reset"},
		{fiber.MethodPost, "/api/attendance/notastage/move"},
		{fiber.MethodDelete, "/api/attendance/notastage/" + id},
		{fiber.MethodPatch, "/api/mass/notastage/" + id + "/day"},
		{fiber.MethodPost, "/api/mass/notastage/reset"},
		{fiber.MethodPatch, "/api/tusbha/notastage/" + id + "/day"},
		{fiber.MethodPost, "/api/tusbha/notastage/reset"},
		{fiber.MethodPost, "/api/tusbha/notastage/move"},
		{fiber.MethodDelete, "/api/tusbha/notastage/" + id},
		// tusbha only runs for grade3..grade6
		{fiber.MethodPatch, "/api/tusbha/grade1/" + id + "/day"},
		{fiber.MethodPatch, "/api/children/notastage/" + id},
		{fiber.MethodPost, "/api/children/notastage/reset-visits"},
		{fiber.MethodDelete, "/api/children/notastage/" + id},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err, "%s %s", tt.method, tt.path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "%s %s", tt.method, tt.path)
	}
}
