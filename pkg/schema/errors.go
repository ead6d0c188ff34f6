package schema

import "fmt"

// Diagnostic codes produced by preflight and generation.
const (
	CodeNoStartNode           = "NO_START_NODE"
	CodeMultipleStartNodes    = "MULTIPLE_START_NODES"
	CodeUnknownNodeType       = "UNKNOWN_NODE_TYPE"
	CodeUnusedNode            = "UNUSED_NODE"
	CodeUninitializedVariable = "UNINITIALIZED_VARIABLE"
	CodeEmptyBranch           = "EMPTY_BRANCH"
	CodeInfiniteLoop          = "INFINITE_LOOP"
	CodeTypeMismatch          = "TYPE_MISMATCH"

	// CodeCycleDetected is part of the taxonomy but never raised by the
	// traversal engine: cycles truncate emission at the revisited node.
	CodeCycleDetected = "CYCLE_DETECTED"
)

// Error codes for cross-boundary failures (returned as Go errors).
const (
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDocument            = "DOCUMENT_ERROR"
	ErrCodeStore               = "STORE_ERROR"
	ErrCodeSync                = "SYNC_ERROR"
	ErrCodeQuery               = "QUERY_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"

	// Marker parser/patcher failures.
	ErrCodeNestedBegin    = "NESTED_BEGIN"
	ErrCodeOrphanEnd      = "ORPHAN_END"
	ErrCodeMismatchedIDs  = "MISMATCHED_IDS"
	ErrCodeUnclosedBegin  = "UNCLOSED_BEGIN"
	ErrCodeBlockNotFound  = "BLOCK_NOT_FOUND"
	ErrCodeDuplicateBlock = "DUPLICATE_BLOCK"
)

// CodegraphError is the structured error type for all codegraph operations.
type CodegraphError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	NodeID  string         `json:"node_id,omitempty"`
	Line    int            `json:"line,omitempty"` // 1-based, marker parser failures
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *CodegraphError) Error() string {
	switch {
	case e.NodeID != "":
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

func (e *CodegraphError) Unwrap() error {
	return e.Cause
}

// NewError creates a new CodegraphError.
func NewError(code, message string) *CodegraphError {
	return &CodegraphError{Code: code, Message: message}
}

// NewErrorf creates a new CodegraphError with a formatted message.
func NewErrorf(code, format string, args ...any) *CodegraphError {
	return &CodegraphError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithNode attaches the offending node ID.
func (e *CodegraphError) WithNode(nodeID string) *CodegraphError {
	e.NodeID = nodeID
	return e
}

// WithLine attaches a 1-based line number.
func (e *CodegraphError) WithLine(line int) *CodegraphError {
	e.Line = line
	return e
}

// WithCause attaches an underlying cause.
func (e *CodegraphError) WithCause(err error) *CodegraphError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *CodegraphError) WithDetails(details map[string]any) *CodegraphError {
	e.Details = details
	return e
}

// UnsupportedLanguageError is returned when no compiler is registered for the
// requested target language. Callers catch it once at the call site and turn it
// into a user-facing message; there is never a silent fallback to another target.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("no compiler registered for target language %q", e.Language)
}
