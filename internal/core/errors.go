package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatConfiguration ErrorCategory = "configuration" // Malformed configuration document
	ErrCatRequirement   ErrorCategory = "requirement"   // Unmet tool requirement
	ErrCatDispatch      ErrorCategory = "dispatch"      // Tool dispatch failure
	ErrCatExternal      ErrorCategory = "external"      // External collaborator failure
	ErrCatIntegration   ErrorCategory = "integration"   // Result merge failure
	ErrCatInternal      ErrorCategory = "internal"      // Unexpected internal error
)

// DomainError represents a structured error from the pipeline.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Tool     ToolID
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := e.Message
	if e.Tool != "" {
		msg = fmt.Sprintf("tool %s: %s", e.Tool, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrConfiguration creates a configuration error.
func ErrConfiguration(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatConfiguration,
		Code:     code,
		Message:  message,
	}
}

// ErrMissingKeys creates a configuration error listing absent document keys.
func ErrMissingKeys(section string, missing []string) *DomainError {
	return &DomainError{
		Category: ErrCatConfiguration,
		Code:     CodeMissingKeys,
		Message:  fmt.Sprintf("%s must contain %v", section, missing),
		Details:  map[string]interface{}{"section": section, "missing": missing},
	}
}

// ErrRequirement creates a requirement error for a specific tool.
func ErrRequirement(tool ToolID, message string) *DomainError {
	return &DomainError{
		Category: ErrCatRequirement,
		Code:     CodeRequirementUnmet,
		Message:  message,
		Tool:     tool,
	}
}

// ErrUnsupportedModule creates a dispatch error for a module name absent from
// the schema's translation table.
func ErrUnsupportedModule(tool ToolID, module string) *DomainError {
	return &DomainError{
		Category: ErrCatDispatch,
		Code:     CodeUnsupportedModule,
		Message:  fmt.Sprintf("module %q not supported, add it to the module translations in the requirement schema", module),
		Tool:     tool,
		Details:  map[string]interface{}{"module": module},
	}
}

// ErrExternalTool creates an error for a failed external collaborator.
func ErrExternalTool(tool ToolID, message string) *DomainError {
	return &DomainError{
		Category: ErrCatExternal,
		Code:     CodeExternalFailed,
		Message:  message,
		Tool:     tool,
	}
}

// ErrExternalTimeout creates a distinguished timeout error for an external
// collaborator that exceeded its deadline.
func ErrExternalTimeout(tool ToolID, message string) *DomainError {
	return &DomainError{
		Category: ErrCatExternal,
		Code:     CodeExternalTimeout,
		Message:  message,
		Tool:     tool,
	}
}

// ErrIntegration creates an integration error.
func ErrIntegration(tool ToolID, message string) *DomainError {
	return &DomainError{
		Category: ErrCatIntegration,
		Code:     CodeIntegrationFailed,
		Message:  message,
		Tool:     tool,
	}
}

// ErrInternal creates an internal error.
func ErrInternal(message string) *DomainError {
	return &DomainError{
		Category: ErrCatInternal,
		Code:     "INTERNAL",
		Message:  message,
	}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeMissingKeys       = "MISSING_KEYS"
	CodeRequirementUnmet  = "REQUIREMENT_UNMET"
	CodeUnsupportedModule = "UNSUPPORTED_MODULE"
	CodeExternalFailed    = "EXTERNAL_TOOL_FAILED"
	CodeExternalTimeout   = "EXTERNAL_TOOL_TIMEOUT"
	CodeIntegrationFailed = "INTEGRATION_FAILED"
	CodeSchemaMalformed   = "SCHEMA_MALFORMED"
	CodeMissingJoinKey    = "MISSING_JOIN_KEY"
)
