package domain

import "fmt"

// Kind classifies a domain error so the transport layer can pick a status
// code without knowing every sentinel.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindMisconfiguration
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindMisconfiguration:
		return "misconfiguration"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is a domain failure carrying the client-facing message.
// Sentinels are compared by identity, so wrap them with %w, never copy.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Authentication.
var (
	ErrNotAuthorized      = newError(KindAuthentication, "Not authorized to access this route")
	ErrTokenInvalid       = newError(KindAuthentication, "Invalid token")
	ErrTokenExpired       = newError(KindAuthentication, "Token expired")
	ErrAccountInactive    = newError(KindAuthentication, "Account is not active")
	ErrInvalidCredentials = newError(KindAuthentication, "Invalid credentials")
)

// Authorization.
var (
	ErrForbidden            = newError(KindAuthorization, "Not authorized to perform this action")
	ErrCollegeNotAvailable  = newError(KindAuthorization, "College not available")
	ErrCourseNotAvailable   = newError(KindAuthorization, "Course not available")
	ErrNotEnrolled          = newError(KindAuthorization, "Not enrolled in this course")
	ErrViewProfileForbidden = newError(KindAuthorization, "Not authorized to view this profile")
	ErrUpdateUserForbidden  = newError(KindAuthorization, "Not authorized to update this user")
	ErrCourseEditForbidden  = newError(KindAuthorization, "Not authorized to update this course")
	ErrUserCoursesForbidden = newError(KindAuthorization, "Not authorized to view these courses")
	ErrUserStatsForbidden   = newError(KindAuthorization, "Not authorized to view these stats")
	ErrStaffForbidden       = newError(KindAuthorization, "Not authorized to view college staff")
	ErrCollegeRosterDenied  = newError(KindAuthorization, "Not authorized to view college students")
	ErrCourseRosterDenied   = newError(KindAuthorization, "Not authorized to view course students")
)

// Not found.
var (
	ErrUserNotFound       = newError(KindNotFound, "User not found")
	ErrTokenUserNotFound  = newError(KindNotFound, "No user found with this token")
	ErrCollegeNotFound    = newError(KindNotFound, "College not found")
	ErrCourseNotFound     = newError(KindNotFound, "Course not found")
	ErrEnrollmentNotFound = newError(KindNotFound, "Enrollment not found")
)

// Conflict. Reported as 400, like every other client-side mistake.
var (
	ErrEmailTaken        = newError(KindConflict, "User already exists with this email")
	ErrEmailExists       = newError(KindConflict, "Email already exists")
	ErrStudentIDTaken    = newError(KindConflict, "Student ID already exists")
	ErrCollegeCodeTaken  = newError(KindConflict, "College code already exists")
	ErrCourseCodeTaken   = newError(KindConflict, "Course code already exists")
	ErrAlreadyEnrolled   = newError(KindConflict, "Already enrolled in this course")
	ErrCollegeInUse      = newError(KindConflict, "Cannot delete college with existing users or courses. Set status to inactive instead.")
	ErrDuplicateDocument = newError(KindConflict, "Record already exists")
)

// Validation.
var (
	ErrMissingCredentials   = newError(KindValidation, "Email and password are required")
	ErrWrongCurrentPassword = newError(KindValidation, "Current password is incorrect")
	ErrSelfRoleChange       = newError(KindValidation, "Cannot change your own role")
	ErrSelfDelete           = newError(KindValidation, "Cannot delete your own account")
	ErrInvalidRole          = newError(KindValidation, "Invalid role")
	ErrInvalidStatus        = newError(KindValidation, "Invalid status")
	ErrInvalidBulkRequest   = newError(KindValidation, "Invalid bulk operation request")
	ErrInvalidOperation     = newError(KindValidation, "Invalid operation")
	ErrCollegeIDRequired    = newError(KindValidation, "College ID is required")
	ErrCourseNotOpen        = newError(KindValidation, "Course is not available for enrollment")
	ErrEnrollmentFull       = newError(KindValidation, "Course enrollment limit reached")
)

// Server side.
var (
	ErrSigningKeyMissing = newError(KindMisconfiguration, "Server configuration error")
	ErrTooManyRequests   = newError(KindRateLimited, "Too many requests from this IP, please try again later.")
)

// RoleNotAllowed reports that r is outside a route's role gate.
func RoleNotAllowed(r Role) *Error {
	return newError(KindAuthorization, fmt.Sprintf("User role '%s' is not authorized to access this route", r))
}
