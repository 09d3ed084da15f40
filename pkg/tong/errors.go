package tong

import (
	"errors"
	"fmt"
)

// SourceLocation is a position within a source file.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

func (l *SourceLocation) String() string {
	if l == nil {
		return "?"
	}
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// ErrorKind classifies the failure modes the language can report.
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	NameError
	ArityError
	TypeMismatchError
	IndexError
	NonExhaustiveMatchError
)

var errorKindNames = map[ErrorKind]string{
	LexError:                "LexError",
	ParseError:              "ParseError",
	NameError:               "NameError",
	ArityError:              "ArityError",
	TypeMismatchError:       "TypeMismatchError",
	IndexError:              "IndexError",
	NonExhaustiveMatchError: "NonExhaustiveMatchError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a positioned language error. Execution stops at the first one.
type Error struct {
	Kind ErrorKind
	Msg  string
	Loc  *SourceLocation
}

func (e *Error) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Msg, e.Loc)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewError constructs a positioned Error with a formatted message.
func NewError(kind ErrorKind, loc *SourceLocation, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// ErrKindOf reports the language error kind of err, unwrapping as needed.
func ErrKindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
