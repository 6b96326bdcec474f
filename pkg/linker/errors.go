package linker

import (
	"fmt"
	"strings"
)

// Phase indicates where in module processing the error occurred
type Phase string

const (
	PhaseHeader   Phase = "header"   // ELF identification
	PhaseParse    Phase = "parse"    // section and symbol tables
	PhaseLoad     Phase = "load"     // segment layout
	PhaseSizing   Phase = "sizing"   // global pointer table sizing
	PhasePatching Phase = "patching" // applying relocations
)

// Kind categorizes the error
type Kind string

const (
	KindBadFormat      Kind = "bad_format"
	KindBadModule      Kind = "bad_module"
	KindOutOfRange     Kind = "out_of_range"
	KindOutOfMemory    Kind = "out_of_memory"
	KindNotImplemented Kind = "not_implemented"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrBadFormat      = &Error{Kind: KindBadFormat}
	ErrBadModule      = &Error{Kind: KindBadModule}
	ErrOutOfRange     = &Error{Kind: KindOutOfRange}
	ErrOutOfMemory    = &Error{Kind: KindOutOfMemory}
	ErrNotImplemented = &Error{Kind: KindNotImplemented}
)

// Error is the structured error returned by every linker entry point.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind. A target without a phase
// matches every phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Phase == "" || e.Phase == t.Phase)
}

func newError(phase Phase, kind Kind, format string, args ...any) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Phase: phase, Kind: kind, Detail: detail}
}

func badFormat(format string, args ...any) *Error {
	return newError(PhaseHeader, KindBadFormat, format, args...)
}

func badModule(phase Phase, format string, args ...any) *Error {
	return newError(phase, KindBadModule, format, args...)
}

func outOfRange(phase Phase, value any, format string, args ...any) *Error {
	e := newError(phase, KindOutOfRange, format, args...)
	e.Value = value
	return e
}

// NotImplemented creates the error for a relocation type the processor
// does not handle. Value holds the numeric type.
func NotImplemented(typ RelocType) *Error {
	return &Error{
		Phase:  PhasePatching,
		Kind:   KindNotImplemented,
		Detail: fmt.Sprintf("this relocation (0x%x) is not implemented yet", uint32(typ)),
		Value:  typ,
	}
}

// AllocationFailed creates an out of memory error for a failed allocation.
func AllocationFailed(phase Phase, size uint64, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Value:  size,
		Cause:  cause,
	}
}
