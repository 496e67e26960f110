// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"
)

// Kind classifies an extraction failure. The set is closed; every error
// returned by this package is an *Error carrying one of these kinds.
type Kind int

const (
	KindEmptyDelimiter Kind = iota + 1
	KindInvalidPath
	KindMissingExtension
	KindIO
	KindInvalidEncoding
	KindNestedStart
	KindStrayEnd
	KindUnterminated
	KindUnknownInstruction
)

var kindNames = map[Kind]string{
	KindEmptyDelimiter:     "empty delimiter",
	KindInvalidPath:        "path is not valid UTF-8",
	KindMissingExtension:   "file has no extension",
	KindIO:                 "i/o error",
	KindInvalidEncoding:    "content is not valid UTF-8",
	KindNestedStart:        "cannot startcode when already started",
	KindStrayEnd:           "cannot endcode without a preceding startcode",
	KindUnterminated:       "startcode left open at end of file",
	KindUnknownInstruction: "unimplemented instruction",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrEmptyDelimiter     = &Error{Kind: KindEmptyDelimiter}
	ErrInvalidPath        = &Error{Kind: KindInvalidPath}
	ErrMissingExtension   = &Error{Kind: KindMissingExtension}
	ErrIO                 = &Error{Kind: KindIO}
	ErrInvalidEncoding    = &Error{Kind: KindInvalidEncoding}
	ErrNestedStart        = &Error{Kind: KindNestedStart}
	ErrStrayEnd           = &Error{Kind: KindStrayEnd}
	ErrUnterminated       = &Error{Kind: KindUnterminated}
	ErrUnknownInstruction = &Error{Kind: KindUnknownInstruction}
)

// Error describes why extraction of a file failed.
type Error struct {
	Kind Kind

	// Path is the file being extracted, when known.
	Path string

	// Line is the 1-based input line that triggered the error, or 0.
	Line int

	// Instruction is the instruction name for KindUnknownInstruction.
	Instruction string

	// Err is the underlying cause (I/O errors).
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Kind.String())
	if e.Kind == KindUnknownInstruction {
		fmt.Fprintf(&b, " %q", instructionPrefix+e.Instruction)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// withPath returns err with path attached when it is an *Error without one.
func withPath(err error, path string) error {
	if e, ok := err.(*Error); ok && e.Path == "" {
		c := *e
		c.Path = path
		return &c
	}
	return err
}
