package content

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the content domain.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodePathNotAllowed    = "PATH_NOT_ALLOWED"
	CodeArrayPath         = "ARRAY_PATH_NOT_SUPPORTED"
	CodeTypeMismatch      = "TYPE_MISMATCH"
	CodeInvalidSlug       = "INVALID_SLUG"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeSlugTaken         = "SLUG_TAKEN"
	CodeNotFound          = "CONTENT_STATE_NOT_FOUND"
	CodeNoCompiledSite    = "NO_COMPILED_SITE"
	CodeStorage           = "STORAGE_ERROR"
	CodeRepository        = "REPOSITORY_ERROR"
)

// ContentError is the domain error carrying a stable code.
type ContentError struct {
	Code    string
	Message string
	Err     error

	// ServerVersion is set on version conflicts so the caller can
	// reconcile without another round trip.
	ServerVersion int64
}

func (e *ContentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *ContentError {
	return &ContentError{Code: CodeValidation, Message: msg}
}

func NewPathNotAllowed(path string) *ContentError {
	return &ContentError{Code: CodePathNotAllowed, Message: fmt.Sprintf("path %q is not editable", path)}
}

func NewArrayPathNotSupported(path string) *ContentError {
	return &ContentError{Code: CodeArrayPath, Message: fmt.Sprintf("array-index paths are not supported: %q", path)}
}

func NewTypeMismatch(path, typ string) *ContentError {
	return &ContentError{Code: CodeTypeMismatch, Message: fmt.Sprintf("type %q is not accepted for path %q", typ, path)}
}

func NewInvalidSlug(slug string) *ContentError {
	return &ContentError{Code: CodeInvalidSlug, Message: fmt.Sprintf("slug %q does not match the slug grammar (3-30 chars, lowercase alphanumeric and single hyphens)", slug)}
}

func NewVersionConflict(serverVersion int64) *ContentError {
	return &ContentError{
		Code:          CodeVersionConflict,
		Message:       fmt.Sprintf("version conflict, server version is %d", serverVersion),
		ServerVersion: serverVersion,
	}
}

func NewSlugTaken(slug string) *ContentError {
	return &ContentError{Code: CodeSlugTaken, Message: fmt.Sprintf("slug %q is already taken", slug)}
}

func NewNotFound() *ContentError {
	return &ContentError{Code: CodeNotFound, Message: "content state not found"}
}

func NewNoCompiledSite() *ContentError {
	return &ContentError{Code: CodeNoCompiledSite, Message: "no compiled site exists yet"}
}

// NewStorageError wraps an artifact store failure. Compilation is
// idempotent so these are safe to retry.
func NewStorageError(err error) *ContentError {
	return &ContentError{Code: CodeStorage, Message: "artifact storage failed", Err: err}
}

func NewRepositoryError(err error) *ContentError {
	return &ContentError{Code: CodeRepository, Message: "content store operation failed", Err: err}
}

func IsVersionConflict(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce) && ce.Code == CodeVersionConflict
}

func IsSlugTaken(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce) && ce.Code == CodeSlugTaken
}

func IsNotFound(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce) && (ce.Code == CodeNotFound || ce.Code == CodeNoCompiledSite)
}

// MapErrorToHTTP translates a domain error into an HTTP status, error code
// and message.
func MapErrorToHTTP(err error) (int, string, string) {
	var ce *ContentError
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}

	switch ce.Code {
	case CodeValidation, CodePathNotAllowed, CodeArrayPath, CodeTypeMismatch, CodeInvalidSlug:
		return http.StatusBadRequest, ce.Code, ce.Message
	case CodeVersionConflict, CodeSlugTaken:
		return http.StatusConflict, ce.Code, ce.Message
	case CodeNotFound, CodeNoCompiledSite:
		return http.StatusNotFound, ce.Code, ce.Message
	case CodeStorage:
		return http.StatusBadGateway, ce.Code, ce.Message
	default:
		return http.StatusInternalServerError, ce.Code, ce.Message
	}
}
