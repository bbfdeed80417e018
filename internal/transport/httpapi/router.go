package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Router wires the handlers into a Fiber app.
type Router struct {
	requests   *RequestHandler
	schedules  *ScheduleHandler
	classrooms *ClassroomHandler
	roles      PrincipalResolver
	jwtSecret  string
	logger     *zap.Logger
}

func NewRouter(requests *RequestHandler, schedules *ScheduleHandler, classrooms *ClassroomHandler, roles PrincipalResolver, jwtSecret string, logger *zap.Logger) *Router {
	return &Router{
		requests:   requests,
		schedules:  schedules,
		classrooms: classrooms,
		roles:      roles,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

// App builds the Fiber application with all routes registered.
func (r *Router) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "whitelist",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	api := app.Group("/api")
	auth := Auth(r.jwtSecret, r.roles, r.logger)
	admin := RequireAdmin()

	// Open endpoints: anonymous request submission, status polling,
	// machine resolution and the token-authenticated auto-include flow.
	api.Post("/requests", r.requests.Create)
	api.Get("/requests/:id/status", r.requests.Status)
	api.Post("/auto-include", r.requests.AutoInclude)
	api.Get("/resolve/:hostname", r.classrooms.Resolve)

	// Authenticated request lifecycle.
	api.Post("/requests/check", auth, r.requests.CheckDomain)
	api.Get("/requests/pending", auth, r.requests.ListPending)
	api.Post("/requests/:id/approve", auth, r.requests.Approve)
	api.Post("/requests/:id/reject", auth, r.requests.Reject)
	api.Delete("/requests/:id", auth, admin, r.requests.Delete)
	api.Get("/blocked-domains", auth, admin, r.requests.ListBlockedDomains)
	api.Post("/tokens", auth, admin, r.requests.MintToken)

	// Schedules.
	api.Post("/schedules", auth, r.schedules.Create)
	api.Put("/schedules/:id", auth, r.schedules.Update)
	api.Delete("/schedules/:id", auth, r.schedules.Delete)
	api.Get("/teachers/:teacherId/schedules", auth, r.schedules.ListByTeacher)

	// Classrooms and machines.
	api.Post("/classrooms", auth, admin, r.classrooms.Create)
	api.Get("/classrooms", auth, r.classrooms.List)
	api.Get("/classrooms/:id", auth, r.classrooms.Get)
	api.Get("/classrooms/:id/schedules", auth, r.schedules.ListByClassroom)
	api.Get("/classrooms/:id/machines", auth, r.classrooms.ListMachines)
	api.Post("/machines", auth, admin, r.classrooms.RegisterMachine)
	api.Put("/classrooms/:id/active-group", auth, r.classrooms.SetOverride)
	api.Delete("/classrooms/:id/active-group", auth, r.classrooms.ClearOverride)

	return app
}
