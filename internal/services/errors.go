package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalConversion = errors.New("external conversion failed")
	ErrDocumentOpen       = errors.New("document open error")
	ErrEmptyImageSet      = errors.New("empty image set")
	ErrWorkspace          = errors.New("workspace error")
	ErrInvalidRequest     = errors.New("invalid request")

	// ErrAborted marks a stage that stopped because the cancellation token was
	// set. It is a terminal state, not a failure.
	ErrAborted = errors.New("aborted")
)

// ErrorKind is the stable, caller-facing name of an error marker.
type ErrorKind string

const (
	ErrorKindNone               ErrorKind = ""
	ErrorKindExternalConversion ErrorKind = "ExternalConversionFailed"
	ErrorKindDocumentOpen       ErrorKind = "DocumentOpenError"
	ErrorKindEmptyImageSet      ErrorKind = "EmptyImageSet"
	ErrorKindWorkspace          ErrorKind = "WorkspaceError"
	ErrorKindInvalidRequest     ErrorKind = "InvalidRequest"
	ErrorKindAborted            ErrorKind = "Aborted"
	ErrorKindUnknown            ErrorKind = "Unknown"
)

var markerKinds = []struct {
	marker error
	kind   ErrorKind
}{
	{ErrAborted, ErrorKindAborted},
	{ErrInvalidRequest, ErrorKindInvalidRequest},
	{ErrDocumentOpen, ErrorKindDocumentOpen},
	{ErrEmptyImageSet, ErrorKindEmptyImageSet},
	{ErrExternalConversion, ErrorKindExternalConversion},
	{ErrWorkspace, ErrorKindWorkspace},
}

// Error is the structured error produced by Wrap. It carries the marker used
// for classification plus the stage and operation that produced it.
type Error struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Marker, detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Marker, detail)
}

// Unwrap exposes both the marker and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Cause}
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalConversion
	}
	return &Error{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
	}
}

// ErrorDetails is the flattened view of a classified error.
type ErrorDetails struct {
	Kind      ErrorKind
	Stage     string
	Operation string
	Message   string
	Cause     error
}

// Details extracts classification data from err. Errors that were not built by
// Wrap still get a kind when they match a marker; otherwise the kind is
// ErrorKindUnknown.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{Kind: ErrorKindNone}
	}
	details := ErrorDetails{Kind: Kind(err), Message: strings.TrimSpace(err.Error())}
	var wrapped *Error
	if errors.As(err, &wrapped) {
		details.Stage = wrapped.Stage
		details.Operation = wrapped.Operation
		if wrapped.Message != "" {
			details.Message = wrapped.Message
		}
		details.Cause = wrapped.Cause
	}
	return details
}

// Kind maps err to its caller-facing error kind.
func Kind(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	for _, mk := range markerKinds {
		if errors.Is(err, mk.marker) {
			return mk.kind
		}
	}
	return ErrorKindUnknown
}

// IsAborted reports whether err represents a cancelled stage rather than a
// failure.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
