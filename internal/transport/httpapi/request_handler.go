package httpapi

import (
	"strconv"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestHandler adapts the access-request lifecycle onto HTTP.
type RequestHandler struct {
	requests *service.RequestService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRequestHandler(requests *service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		validate: validator.New(),
		logger:   logger,
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type createRequestDTO struct {
	Domain         string `json:"domain"`
	Reason         string `json:"reason" validate:"max=2000"`
	RequesterEmail string `json:"requesterEmail"`
	GroupID        string `json:"groupId"`
	Priority       string `json:"priority" validate:"omitempty,oneof=low normal high"`
}

// Create handles POST /api/requests. Open to anonymous submitters.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var dto createRequestDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	request, err := h.requests.CreateRequest(c.Context(), service.CreateRequestInput{
		Domain:         dto.Domain,
		Reason:         dto.Reason,
		RequesterEmail: dto.RequesterEmail,
		GroupID:        dto.GroupID,
		Priority:       dto.Priority,
	})
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, request)
}

type checkDomainDTO struct {
	Domain string `json:"domain"`
}

// CheckDomain handles POST /api/requests/check (authenticated pre-flight).
func (h *RequestHandler) CheckDomain(c *fiber.Ctx) error {
	var dto checkDomainDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	blocked, err := h.requests.CheckDomainBlocked(dto.Domain)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{"blocked": blocked})
}

// ListBlockedDomains handles GET /api/blocked-domains (admin only).
func (h *RequestHandler) ListBlockedDomains(c *fiber.Ctx) error {
	return Success(c, fiber.Map{"domains": h.requests.BlockedDomains()})
}

type approveDTO struct {
	GroupID string `json:"groupId"`
}

// Approve handles POST /api/requests/:id/approve.
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, ok := PrincipalFrom(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var dto approveDTO
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&dto); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	request, err := h.requests.Approve(c.Context(), id, p, dto.GroupID)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, request)
}

type rejectDTO struct {
	Reason string `json:"reason"`
}

// Reject handles POST /api/requests/:id/reject.
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, ok := PrincipalFrom(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var dto rejectDTO
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&dto); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	request, err := h.requests.Reject(c.Context(), id, p, dto.Reason)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, request)
}

// Status handles GET /api/requests/:id/status. Open, so anonymous
// submitters can poll their request.
func (h *RequestHandler) Status(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	request, err := h.requests.GetStatus(c.Context(), id)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{
		"status":      request.Status,
		"resolved_at": request.ResolvedAt,
		"resolved_by": request.ResolvedBy,
	})
}

// ListPending handles GET /api/requests/pending, scoped by the caller's
// groups.
func (h *RequestHandler) ListPending(c *fiber.Ctx) error {
	p, ok := PrincipalFrom(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	requests, err := h.requests.ListPending(c.Context(), p)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, requests)
}

// Delete handles DELETE /api/requests/:id (admin only).
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, ok := PrincipalFrom(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.requests.DeleteRequest(c.Context(), id, p); err != nil {
		return FromError(c, h.logger, err)
	}

	return Success(c, fiber.Map{"deleted": true})
}

type autoIncludeDTO struct {
	Domain     string `json:"domain"`
	Token      string `json:"token"`
	Hostname   string `json:"hostname"`
	OriginPage string `json:"originPage"`
	GroupID    string `json:"groupId"`
}

// AutoInclude handles POST /api/auto-include, the unattended capture-page
// flow authenticated by a pre-issued token instead of a bearer JWT.
func (h *RequestHandler) AutoInclude(c *fiber.Ctx) error {
	var dto autoIncludeDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.requests.AutoInclude(c.Context(), service.AutoIncludeInput{
		Domain:     dto.Domain,
		Token:      dto.Token,
		Hostname:   dto.Hostname,
		OriginPage: dto.OriginPage,
		GroupID:    dto.GroupID,
	})
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, request)
}

type mintTokenDTO struct {
	GroupID    string `json:"groupId" validate:"required"`
	TTLMinutes int    `json:"ttlMinutes" validate:"omitempty,min=1"`
}

// MintToken handles POST /api/tokens (admin only).
func (h *RequestHandler) MintToken(c *fiber.Ctx) error {
	p, ok := PrincipalFrom(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var dto mintTokenDTO
	if err := c.BodyParser(&dto); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		return ValidationError(c, err)
	}

	token, err := h.requests.MintToken(c.Context(), p, dto.GroupID, time.Duration(dto.TTLMinutes)*time.Minute)
	if err != nil {
		return FromError(c, h.logger, err)
	}

	return SuccessWithCode(c, fiber.StatusCreated, token)
}
