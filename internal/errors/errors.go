// Package errors provides centralized error definitions and error handling utilities
// for the shortcuts codebase. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - LockError: errors from the single-instance guard
//   - StoreError: errors reading or writing the shortcut store
//   - SyncError: errors talking to the cloud bin
//   - AgentError: errors from the LLM agent workflow
//   - ProcessError: errors from collaborator processes
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewLockError("lock held", errors.ErrDuplicateInstance).WithPID(4242)
//
//	if errors.Is(err, errors.ErrDuplicateInstance) { ... }
//
//	var storeErr *errors.StoreError
//	if errors.As(err, &storeErr) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors that may succeed on retry
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Instance guard sentinel errors
var (
	// ErrDuplicateInstance indicates that a live process already owns the lock file.
	ErrDuplicateInstance = New("another instance is already running")
	// ErrLockWrite indicates that the lock record could not be written.
	ErrLockWrite = New("failed to write lock file")
)

// Store sentinel errors
var (
	// ErrStoreNotFound indicates that the shortcut store file does not exist.
	ErrStoreNotFound = New("shortcut store not found")
	// ErrStoreMalformed indicates that the shortcut store is not a JSON object.
	ErrStoreMalformed = New("shortcut store is malformed")
	// ErrDuplicateEntry indicates that a category already holds the same command.
	ErrDuplicateEntry = New("command already exists in category")
	// ErrShrinkingUpdate indicates that a write would make the store file shorter.
	ErrShrinkingUpdate = New("update would result in a smaller file")
	// ErrNotAList indicates that a category holds a scalar instead of entries.
	ErrNotAList = New("category does not hold a list of entries")
)

// Cloud sync sentinel errors
var (
	// ErrSyncFailed indicates a failed request against the cloud bin.
	ErrSyncFailed = New("cloud sync failed")
	// ErrNoRecord indicates that the cloud response carried no record.
	ErrNoRecord = New("no record found in the cloud data")
	// ErrNotConfigured indicates that a required URL or key is missing.
	ErrNotConfigured = New("not configured")
)

// Agent sentinel errors
var (
	// ErrLLMResponse indicates that the model reply could not be used.
	ErrLLMResponse = New("unusable LLM response")
	// ErrAborted indicates that the user declined a confirmation.
	ErrAborted = New("aborted by user")
	// ErrEmptyCommand indicates that there was no raw command to process.
	ErrEmptyCommand = New("no command provided")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrProcessFailed indicates that a collaborator process exited unsuccessfully.
	ErrProcessFailed = New("process failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// AppError is the base interface for all shortcuts errors.
type AppError interface {
	error
	Unwrap() error
	Is(target error) bool
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "prefix [k=v, ...]: message: cause".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// LockError represents errors from the single-instance guard.
//
// Example:
//
//	err := errors.NewLockError("lock held", errors.ErrDuplicateInstance).WithPID(4242)
//	fmt.Println(err) // "lock error [pid=4242]: lock held: another instance is already running"
type LockError struct {
	baseError
	Path string
	PID  int
}

// NewLockError creates a new LockError.
func NewLockError(message string, cause error) *LockError {
	return &LockError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityCritical,
			userFacing: true,
		},
	}
}

// WithPath adds the lock file path to the error context.
func (e *LockError) WithPath(path string) *LockError {
	e.Path = path
	return e
}

// WithPID adds the owning process id to the error context.
func (e *LockError) WithPID(pid int) *LockError {
	e.PID = pid
	return e
}

// Error returns the formatted error message.
func (e *LockError) Error() string {
	var parts []string
	if e.PID > 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", e.PID))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return e.format("lock error", parts)
}

// Is checks if this error matches the target.
func (e *LockError) Is(target error) bool {
	if _, ok := target.(*LockError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StoreError represents errors reading or writing the shortcut store.
type StoreError struct {
	baseError
	Path     string
	Category string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the store file path to the error context.
func (e *StoreError) WithPath(path string) *StoreError {
	e.Path = path
	return e
}

// WithCategory adds the category name to the error context.
func (e *StoreError) WithCategory(category string) *StoreError {
	e.Category = category
	return e
}

// WithSeverity sets the error severity.
func (e *StoreError) WithSeverity(s Severity) *StoreError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("category=%s", e.Category))
	}
	return e.format("store error", parts)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SyncError represents errors talking to the cloud bin.
type SyncError struct {
	baseError
	Direction  string
	StatusCode int
}

// NewSyncError creates a new SyncError.
func NewSyncError(message string, cause error) *SyncError {
	return &SyncError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithDirection records whether the failing call was a pull or a push.
func (e *SyncError) WithDirection(direction string) *SyncError {
	e.Direction = direction
	return e
}

// WithStatusCode records the HTTP status of the failing response.
// 429 and 5xx responses are marked retryable.
func (e *SyncError) WithStatusCode(code int) *SyncError {
	e.StatusCode = code
	e.retryable = code == 429 || code >= 500
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SyncError) WithRetryable(r bool) *SyncError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SyncError) Error() string {
	var parts []string
	if e.Direction != "" {
		parts = append(parts, fmt.Sprintf("direction=%s", e.Direction))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	return e.format("sync error", parts)
}

// Is checks if this error matches the target.
func (e *SyncError) Is(target error) bool {
	if _, ok := target.(*SyncError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// AgentError represents errors from the LLM agent workflow.
type AgentError struct {
	baseError
	Provider string
	Stage    string
}

// NewAgentError creates a new AgentError.
func NewAgentError(message string, cause error) *AgentError {
	return &AgentError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithProvider records the LLM provider name.
func (e *AgentError) WithProvider(provider string) *AgentError {
	e.Provider = provider
	return e
}

// WithStage records the workflow stage that failed (e.g. "request", "parse").
func (e *AgentError) WithStage(stage string) *AgentError {
	e.Stage = stage
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *AgentError) WithRetryable(r bool) *AgentError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *AgentError) Error() string {
	var parts []string
	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	if e.Stage != "" {
		parts = append(parts, fmt.Sprintf("stage=%s", e.Stage))
	}
	return e.format("agent error", parts)
}

// Is checks if this error matches the target.
func (e *AgentError) Is(target error) bool {
	if _, ok := target.(*AgentError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ProcessError represents a failed collaborator process.
type ProcessError struct {
	baseError
	Command  string
	ExitCode int
}

// NewProcessError creates a new ProcessError.
func NewProcessError(message string, cause error) *ProcessError {
	return &ProcessError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityWarning,
		},
		ExitCode: -1,
	}
}

// WithCommand records the command line that was run.
func (e *ProcessError) WithCommand(command string) *ProcessError {
	e.Command = command
	return e
}

// WithExitCode records the process exit status.
func (e *ProcessError) WithExitCode(code int) *ProcessError {
	e.ExitCode = code
	return e
}

// Error returns the formatted error message.
func (e *ProcessError) Error() string {
	var parts []string
	if e.Command != "" {
		parts = append(parts, fmt.Sprintf("cmd=%s", e.Command))
	}
	if e.ExitCode >= 0 {
		parts = append(parts, fmt.Sprintf("exit=%d", e.ExitCode))
	}
	return e.format("process error", parts)
}

// Is checks if this error matches the target.
func (e *ProcessError) Is(target error) bool {
	if _, ok := target.(*ProcessError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
	cause        error
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds an underlying cause.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Unwrap() error {
	return e.cause
}

// ValidationError indicates invalid input or state.
type ValidationError struct {
	Message string
	Field   string
	Value   any
	cause   error
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// WithField names the offending field.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue records the offending value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds an underlying cause.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation error")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Value != nil {
		sb.WriteString(fmt.Sprintf(" (got: %v)", e.Value))
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether err is transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var appErr AppError
	if As(err, &appErr) {
		return appErr.IsRetryable()
	}
	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var appErr AppError
	if As(err, &appErr) {
		return appErr.IsUserFacing()
	}

	var notFound *NotFoundError
	var validation *ValidationError
	return As(err, &notFound) || As(err, &validation)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement AppError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var appErr AppError
	if As(err, &appErr) {
		return appErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
