package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/balejosg/whitelist-sub001/internal/blocklist"
	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService implements the access-request lifecycle: creation,
// approve/reject transitions with role-scoped authorization and the
// blocked-domain gate, the unattended auto-inclusion flow and token
// minting.
type RequestService struct {
	requests       RequestStore
	tokens         TokenStore
	blocked        *blocklist.Blocklist
	validate       *validator.Validate
	defaultGroupID string
	logger         *zap.Logger
}

func NewRequestService(
	requests RequestStore,
	tokens TokenStore,
	blocked *blocklist.Blocklist,
	defaultGroupID string,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests:       requests,
		tokens:         tokens,
		blocked:        blocked,
		validate:       validator.New(),
		defaultGroupID: defaultGroupID,
		logger:         logger,
	}
}

// CreateRequestInput is the creation payload. Anonymous submitters are
// allowed; only the domain is mandatory.
type CreateRequestInput struct {
	Domain         string `json:"domain"`
	Reason         string `json:"reason"`
	RequesterEmail string `json:"requester_email"`
	GroupID        string `json:"group_id"`
	Priority       string `json:"priority"`
}

// CreateRequest validates the payload and stores a pending request.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*model.AccessRequest, error) {
	domain := blocklist.Normalize(input.Domain)
	if domain == "" {
		return nil, apperr.MissingDomain()
	}
	if !IsValidDomain(domain) {
		return nil, apperr.InvalidDomain(input.Domain)
	}

	email := strings.TrimSpace(input.RequesterEmail)
	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return nil, apperr.InvalidEmail(email)
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !model.ValidPriority(priority) {
		return nil, apperr.InvalidPriority(input.Priority)
	}

	groupID := input.GroupID
	if groupID == "" {
		groupID = s.defaultGroupID
	}

	request := &model.AccessRequest{
		Domain:         domain,
		Reason:         html.EscapeString(strings.TrimSpace(input.Reason)),
		RequesterEmail: email,
		GroupID:        groupID,
		Priority:       priority,
		Status:         model.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Access request created",
		zap.Int64("request_id", request.ID),
		zap.String("domain", request.Domain),
		zap.String("group_id", request.GroupID),
		zap.String("priority", request.Priority),
	)

	return request, nil
}

// CheckDomainBlocked is the pre-flight wrapper over the blocked-domain
// policy. Authentication is enforced at the transport boundary.
func (s *RequestService) CheckDomainBlocked(domain string) (bool, error) {
	if strings.TrimSpace(domain) == "" {
		return false, apperr.MissingDomain()
	}

	return s.blocked.IsBlocked(domain), nil
}

// BlockedDomains returns the denylist entries for the admin listing.
func (s *RequestService) BlockedDomains() []string {
	return s.blocked.Domains()
}

// authorize checks that the principal may act on the given group. Admins
// act on anything; teachers only within their assigned groups.
func authorize(p model.Principal, groupID string) error {
	if p.CanActOn(groupID) {
		return nil
	}
	return apperr.Forbidden("request is outside your assigned groups")
}

// Approve transitions a pending request to approved. Non-admins are
// stopped by the blocked-domain gate; admins bypass it unconditionally.
// An optional override group redirects the approval and is what teachers
// are authorized against.
func (s *RequestService) Approve(ctx context.Context, requestID int64, p model.Principal, overrideGroupID string) (*model.AccessRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("request")
	}
	if !request.IsPending() {
		return nil, apperr.AlreadyResolved(request.Status)
	}

	groupID := request.GroupID
	if overrideGroupID != "" {
		groupID = overrideGroupID
	}

	if err := authorize(p, groupID); err != nil {
		return nil, err
	}

	if s.blocked.IsBlocked(request.Domain) && !p.IsAdmin() {
		s.logger.Warn("Blocked domain approval denied",
			zap.Int64("request_id", request.ID),
			zap.String("domain", request.Domain),
			zap.String("user_id", p.UserID),
		)
		return nil, apperr.DomainBlocked(request.Domain)
	}

	transitioned, err := s.requests.Resolve(ctx, request.ID, model.RequestStatusApproved, p.UserID, "", groupID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Lost a race against a concurrent approve/reject.
		return nil, apperr.AlreadyResolved(s.currentStatus(ctx, request.ID))
	}

	s.logger.Info("Access request approved",
		zap.Int64("request_id", request.ID),
		zap.String("domain", request.Domain),
		zap.String("group_id", groupID),
		zap.String("resolved_by", p.UserID),
	)

	return s.requests.GetByID(ctx, request.ID)
}

// Reject transitions a pending request to rejected. Same authorization as
// Approve, but no blocked-domain gate: rejection is always allowed.
func (s *RequestService) Reject(ctx context.Context, requestID int64, p model.Principal, reason string) (*model.AccessRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("request")
	}
	if !request.IsPending() {
		return nil, apperr.AlreadyResolved(request.Status)
	}

	if err := authorize(p, request.GroupID); err != nil {
		return nil, err
	}

	note := html.EscapeString(strings.TrimSpace(reason))
	transitioned, err := s.requests.Resolve(ctx, request.ID, model.RequestStatusRejected, p.UserID, note, request.GroupID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperr.AlreadyResolved(s.currentStatus(ctx, request.ID))
	}

	s.logger.Info("Access request rejected",
		zap.Int64("request_id", request.ID),
		zap.String("domain", request.Domain),
		zap.String("resolved_by", p.UserID),
	)

	return s.requests.GetByID(ctx, request.ID)
}

func (s *RequestService) currentStatus(ctx context.Context, requestID int64) string {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil || request == nil {
		return ""
	}
	return request.Status
}

// AutoIncludeInput is the unattended capture-page payload. All fields are
// required.
type AutoIncludeInput struct {
	Domain     string `json:"domain"`
	Token      string `json:"token"`
	Hostname   string `json:"hostname"`
	OriginPage string `json:"origin_page"`
	GroupID    string `json:"group_id"`
}

// AutoInclude creates a request that is approved immediately, attributed
// to the token's owning principal. The blocked-domain gate is not
// consulted on this path: trust is anchored in the pre-issued token.
func (s *RequestService) AutoInclude(ctx context.Context, input AutoIncludeInput) (*model.AccessRequest, error) {
	var missing []string
	if strings.TrimSpace(input.Domain) == "" {
		missing = append(missing, "domain")
	}
	if strings.TrimSpace(input.Token) == "" {
		missing = append(missing, "token")
	}
	if strings.TrimSpace(input.Hostname) == "" {
		missing = append(missing, "hostname")
	}
	if strings.TrimSpace(input.OriginPage) == "" {
		missing = append(missing, "originPage")
	}
	if strings.TrimSpace(input.GroupID) == "" {
		missing = append(missing, "groupId")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	token, err := s.tokens.GetByToken(ctx, strings.TrimSpace(input.Token))
	if err != nil {
		return nil, err
	}
	if token == nil || !token.IsValid() {
		return nil, apperr.InvalidToken()
	}

	domain := blocklist.Normalize(input.Domain)
	if !IsValidDomain(domain) {
		return nil, apperr.InvalidDomain(input.Domain)
	}

	now := time.Now()
	reason := html.EscapeString(fmt.Sprintf("auto-included from %s (%s)", strings.TrimSpace(input.Hostname), strings.TrimSpace(input.OriginPage)))

	request := &model.AccessRequest{
		Domain:     domain,
		Reason:     reason,
		GroupID:    input.GroupID,
		Priority:   model.PriorityNormal,
		Status:     model.RequestStatusApproved,
		ResolvedAt: &now,
		ResolvedBy: &token.OwnerUserID,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Domain auto-included",
		zap.Int64("request_id", request.ID),
		zap.String("domain", request.Domain),
		zap.String("hostname", input.Hostname),
		zap.String("owner_user_id", token.OwnerUserID),
	)

	return request, nil
}

// GetStatus returns a request's current status and terminal metadata.
func (s *RequestService) GetStatus(ctx context.Context, requestID int64) (*model.AccessRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("request")
	}

	return request, nil
}

// ListPending returns the pending requests visible to the principal:
// everything for admins, own groups only for teachers.
func (s *RequestService) ListPending(ctx context.Context, p model.Principal) ([]*model.AccessRequest, error) {
	if p.IsAdmin() {
		return s.requests.ListPending(ctx)
	}
	if len(p.GroupIDs) == 0 {
		return nil, nil
	}

	return s.requests.ListPendingByGroups(ctx, p.GroupIDs)
}

// DeleteRequest removes a request permanently. Admin only.
func (s *RequestService) DeleteRequest(ctx context.Context, requestID int64, p model.Principal) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("only an administrator may delete requests")
	}

	removed, err := s.requests.Delete(ctx, requestID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("request")
	}

	s.logger.Info("Access request deleted",
		zap.Int64("request_id", requestID),
		zap.String("user_id", p.UserID),
	)

	return nil
}

// MintToken creates an auto-inclusion token owned by the acting admin.
// A zero ttl makes the token non-expiring.
func (s *RequestService) MintToken(ctx context.Context, p model.Principal, groupID string, ttl time.Duration) (*model.InclusionToken, error) {
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("only an administrator may mint inclusion tokens")
	}
	if groupID == "" {
		return nil, apperr.MissingFields("groupId")
	}

	token := &model.InclusionToken{
		Token:       uuid.NewString(),
		OwnerUserID: p.UserID,
		GroupID:     groupID,
		IsActive:    true,
	}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		token.ExpiresAt = &expiresAt
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("Inclusion token minted",
		zap.Int64("token_id", token.ID),
		zap.String("group_id", token.GroupID),
		zap.String("owner_user_id", token.OwnerUserID),
	)

	return token, nil
}
