package httpapi

import (
	"strconv"

	"github.com/balejosg/whitelist-sub001/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ScheduleHandler adapts the schedule store operations onto HTTP.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewScheduleHandler(schedules *service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		validate:  validator.New(),
		logger:    logger,
	}
}

type createScheduleDTO struct {
	ClassroomID int64  `json:"classroomId" validate:"required"`
	TeacherID   string `json:"teacherId" validate:"required"`
	GroupID     string `json:"groupId" validate:"required"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
}

// Create handles POST /api/schedules.
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var dto createScheduleDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	schedule, err := h.schedules.CreateSchedule(c.Context(), service.CreateScheduleInput{
		ClassroomID: dto.ClassroomID,
		TeacherID:   dto.TeacherID,
		GroupID:     dto.GroupID,
		DayOfWeek:   dto.DayOfWeek,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
	})
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, schedule)
}

type updateScheduleDTO struct {
	TeacherID *string `json:"teacherId"`
	GroupID   *string `json:"groupId"`
	DayOfWeek *int    `json:"dayOfWeek"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// Update handles PUT /api/schedules/:id.
func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var dto updateScheduleDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	schedule, err := h.schedules.UpdateSchedule(c.Context(), id, service.SchedulePatch{
		TeacherID: dto.TeacherID,
		GroupID:   dto.GroupID,
		DayOfWeek: dto.DayOfWeek,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
	})
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, schedule)
}

// Delete handles DELETE /api/schedules/:id. Idempotent-safe: deleting an
// absent schedule reports removed=false instead of failing.
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	removed, err := h.schedules.DeleteSchedule(c.Context(), id)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{"removed": removed})
}

// ListByClassroom handles GET /api/classrooms/:id/schedules.
func (h *ScheduleHandler) ListByClassroom(c *fiber.Ctx) error {
	classroomID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || classroomID <= 0 {
		return Error(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	schedules, err := h.schedules.GetSchedulesByClassroom(c.Context(), classroomID)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, schedules)
}

// ListByTeacher handles GET /api/teachers/:teacherId/schedules.
func (h *ScheduleHandler) ListByTeacher(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")
	if teacherID == "" {
		return Error(c, fiber.StatusBadRequest, "invalid teacher id")
	}

	schedules, err := h.schedules.GetSchedulesByTeacher(c.Context(), teacherID)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, schedules)
}
