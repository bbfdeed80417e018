package httpapi

import (
	"time"

	"github.com/balejosg/whitelist-sub001/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClassroomHandler adapts classroom management and group resolution onto
// HTTP.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	resolver   *service.ResolverService
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewClassroomHandler(classrooms *service.ClassroomService, resolver *service.ResolverService, logger *zap.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		classrooms: classrooms,
		resolver:   resolver,
		validate:   validator.New(),
		logger:     logger,
	}
}

type createClassroomDTO struct {
	Name           string `json:"name" validate:"required"`
	DisplayName    string `json:"displayName"`
	DefaultGroupID string `json:"defaultGroupId" validate:"required"`
}

// Create handles POST /api/classrooms (admin only).
func (h *ClassroomHandler) Create(c *fiber.Ctx) error {
	var dto createClassroomDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	classroom, err := h.classrooms.CreateClassroom(c.Context(), dto.Name, dto.DisplayName, dto.DefaultGroupID)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, classroom)
}

// List handles GET /api/classrooms.
func (h *ClassroomHandler) List(c *fiber.Ctx) error {
	classrooms, err := h.classrooms.ListClassrooms(c.Context())
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, classrooms)
}

// Get handles GET /api/classrooms/:id.
func (h *ClassroomHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	classroom, err := h.classrooms.GetClassroom(c.Context(), id)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, classroom)
}

type registerMachineDTO struct {
	Hostname    string `json:"hostname" validate:"required"`
	ClassroomID int64  `json:"classroomId" validate:"required"`
}

// RegisterMachine handles POST /api/machines (admin only).
func (h *ClassroomHandler) RegisterMachine(c *fiber.Ctx) error {
	var dto registerMachineDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	machine, err := h.classrooms.RegisterMachine(c.Context(), dto.Hostname, dto.ClassroomID)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, machine)
}

// ListMachines handles GET /api/classrooms/:id/machines.
func (h *ClassroomHandler) ListMachines(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	machines, err := h.classrooms.ListMachines(c.Context(), id)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, machines)
}

type setOverrideDTO struct {
	GroupID string `json:"groupId" validate:"required"`
}

// SetOverride handles PUT /api/classrooms/:id/active-group.
func (h *ClassroomHandler) SetOverride(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var dto setOverrideDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	if err := h.classrooms.SetOverride(c.Context(), id, dto.GroupID); err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{"active_group_id": dto.GroupID})
}

// ClearOverride handles DELETE /api/classrooms/:id/active-group.
func (h *ClassroomHandler) ClearOverride(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.classrooms.ClearOverride(c.Context(), id); err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{"active_group_id": nil})
}

// Resolve handles GET /api/resolve/:hostname, the call client machines
// make to learn their enforced access group.
func (h *ClassroomHandler) Resolve(c *fiber.Ctx) error {
	hostname := c.Params("hostname")
	if hostname == "" {
		return Error(c, fiber.StatusBadRequest, "hostname is required")
	}

	resolution, err := h.resolver.ResolveAccessGroup(c.Context(), hostname, time.Now())
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, resolution)
}
