// Package apperr defines the tagged errors the engine reports to its
// callers. Every failure a caller can act on carries a machine-readable
// code plus an HTTP status hint for the transport adapters; transports map
// anything else to an internal error.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure kind independent of transport.
type Code string

const (
	// Validation failures: the payload is malformed, retry with different input.
	CodeMissingDomain     Code = "MISSING_DOMAIN"
	CodeInvalidDomain     Code = "INVALID_DOMAIN"
	CodeInvalidEmail      Code = "INVALID_EMAIL"
	CodeMissingFields     Code = "MISSING_FIELDS"
	CodeInvalidPriority   Code = "INVALID_PRIORITY"
	CodeInvalidDayOfWeek  Code = "INVALID_DAY_OF_WEEK"
	CodeInvalidTimeFormat Code = "INVALID_TIME_FORMAT"
	CodeInvalidRange      Code = "INVALID_RANGE"
	CodeInvalidHostname   Code = "INVALID_HOSTNAME"

	// Authorization failures: depend on caller identity, never on payload.
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeDomainBlocked Code = "DOMAIN_BLOCKED"
	CodeInvalidToken  Code = "INVALID_TOKEN"

	// Conflict failures: a state invariant would be violated.
	CodeScheduleConflict Code = "SCHEDULE_CONFLICT"
	CodeAlreadyResolved  Code = "ALREADY_RESOLVED"

	// Not-found failures: terminal for that identity.
	CodeNotFound          Code = "NOT_FOUND"
	CodeMachineNotFound   Code = "MACHINE_NOT_FOUND"
	CodeClassroomNotFound Code = "CLASSROOM_NOT_FOUND"
)

// Error is a caller-visible failure with a stable code.
type Error struct {
	Code    Code           `json:"code"`
	Status  int            `json:"-"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// With attaches a detail entry and returns the error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error with the given code, HTTP status hint and message.
func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	if e, ok := From(err); ok {
		return e.Code == code
	}
	return false
}

func MissingDomain() *Error {
	return New(CodeMissingDomain, 400, "domain is required")
}

func InvalidDomain(domain string) *Error {
	return New(CodeInvalidDomain, 400, "domain is not a valid hostname").With("domain", domain)
}

func InvalidEmail(email string) *Error {
	return New(CodeInvalidEmail, 400, "requester email is not a valid address").With("email", email)
}

func InvalidPriority(priority string) *Error {
	return New(CodeInvalidPriority, 400, "priority must be low, normal or high").With("priority", priority)
}

func MissingFields(fields ...string) *Error {
	return New(CodeMissingFields, 400, "required fields are missing").With("fields", fields)
}

func InvalidDayOfWeek(day int) *Error {
	return New(CodeInvalidDayOfWeek, 400, "dayOfWeek must be 1 (Monday) through 5 (Friday)").With("dayOfWeek", day)
}

func InvalidTimeFormat(value string) *Error {
	return New(CodeInvalidTimeFormat, 400, "time must be HH:MM in 24-hour format").With("value", value)
}

func InvalidRange(start, end string) *Error {
	return New(CodeInvalidRange, 400, "startTime must be strictly before endTime").
		With("startTime", start).
		With("endTime", end)
}

func InvalidHostname(hostname string) *Error {
	return New(CodeInvalidHostname, 400, "hostname is not valid").With("hostname", hostname)
}

func Unauthorized() *Error {
	return New(CodeUnauthorized, 401, "authentication required")
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, 403, message)
}

// DomainBlocked is the blocked-domain gate failure. The hint tells the
// caller that only an administrator can approve this domain.
func DomainBlocked(domain string) *Error {
	return New(CodeDomainBlocked, 403, "domain is on the blocked list").
		With("domain", domain).
		With("hint", "only an administrator can approve a blocked domain")
}

func InvalidToken() *Error {
	return New(CodeInvalidToken, 401, "inclusion token is invalid or expired")
}

// ScheduleConflict reports an overlap with an existing schedule.
func ScheduleConflict(conflictingID int64) *Error {
	return New(CodeScheduleConflict, 400, "schedule overlaps an existing schedule for this classroom").
		With("conflictingScheduleId", conflictingID)
}

// AlreadyResolved reports a transition attempt on a terminal request.
func AlreadyResolved(status string) *Error {
	return New(CodeAlreadyResolved, 400, "request has already been resolved").With("status", status)
}

func NotFound(entity string) *Error {
	return New(CodeNotFound, 404, entity+" not found")
}

func MachineNotFound(hostname string) *Error {
	return New(CodeMachineNotFound, 404, "no machine registered with this hostname").With("hostname", hostname)
}

func ClassroomNotFound(id int64) *Error {
	return New(CodeClassroomNotFound, 404, "classroom not found").With("classroomId", id)
}
