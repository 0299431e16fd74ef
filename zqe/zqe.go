// Package zqe provides a mechanism to create or wrap errors with a Kind
// so that callers can tell a corrupt container apart from an incompatible
// reader schema or a truncated stream without matching on message text.
package zqe

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
)

// A Kind represents a class of error.  The CLI maps these to exit messages
// and library callers test for them with the Is helpers below.
type Kind int

const (
	Other Kind = iota
	Invalid
	NotFound
	Format
	Resolution
	Codec
	Truncated
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Invalid:
		return "invalid argument"
	case NotFound:
		return "item does not exist"
	case Format:
		return "format error"
	case Resolution:
		return "schema resolution error"
	case Codec:
		return "codec error"
	case Truncated:
		return "unexpected end of stream"
	}
	return "unknown error kind"
}

type Error struct {
	Kind Kind
	Err  error
}

func pad(b *bytes.Buffer, s string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(s)
}

func (e *Error) Error() string {
	b := &bytes.Buffer{}
	if e.Kind != Other {
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns just the Err.Error() string, if present, or the Kind
// string description.
func (e *Error) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != Other {
		return e.Kind.String()
	}
	return "no error"
}

// E generates an error from any mix of:
//   - a Kind
//   - an existing error
//   - a string and optional formatting verbs, like fmt.Errorf (including
//     support for the %w verb).
//
// The string and format verbs must be last in the arguments, if present.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args to zqe.E")
	}
	e := &Error{}
	for i, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("unknown type %T value %v in zqe.E call at %v:%v", arg, arg, file, line)
		}
	}
	return e
}

// KindOf returns the Kind of the outermost *Error in err's chain or Other
// if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

func IsFormat(err error) bool     { return isKind(err, Format) }
func IsResolution(err error) bool { return isKind(err, Resolution) }
func IsCodec(err error) bool      { return isKind(err, Codec) }
func IsTruncated(err error) bool  { return isKind(err, Truncated) }
func IsInvalid(err error) bool    { return isKind(err, Invalid) }
func IsNotFound(err error) bool   { return isKind(err, NotFound) }

// isKind walks the whole chain since an outer Other-kind wrapper must not
// hide a more specific inner kind.
func isKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == k {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
