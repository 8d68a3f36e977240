package report

import (
	"errors"
	"fmt"
)

// Kind classifies a decode failure.
type Kind int

const (
	// KindMalformed: not JSON, or a required member is missing or mistyped.
	KindMalformed Kind = iota + 1
	// KindUnknownEnumValue: a categorical member holds a value outside its set.
	KindUnknownEnumValue
	// KindEncoding: the payload could not be read as text.
	KindEncoding
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindUnknownEnumValue:
		return "unknown enum value"
	case KindEncoding:
		return "encoding"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	ErrMalformed        = errors.New("malformed report")
	ErrUnknownEnumValue = errors.New("unknown enum value")
	ErrEncoding         = errors.New("report payload is not text")
)

// DecodeError describes why a payload could not be decoded into a
// ValidationReport. Match it with errors.As, or its kind with errors.Is
// against ErrMalformed, ErrUnknownEnumValue or ErrEncoding.
type DecodeError struct {
	Kind Kind
	// Path is the JSON Pointer of the offending value; "" is the document root.
	Path string
	// Field is the member name, when the failure is about one member.
	Field string
	// Value is the raw offending token of an unknown enum value.
	Value    string
	Expected string
	Actual   string
	Err      error
}

func (e *DecodeError) Error() string {
	where := e.Path
	if where == "" {
		where = "/"
	}
	switch e.Kind {
	case KindUnknownEnumValue:
		return fmt.Sprintf("report: unknown %s value %q at %s", e.Field, e.Value, where)
	case KindEncoding:
		return fmt.Sprintf("report: payload is not decodable text: %v", e.Err)
	}
	msg := fmt.Sprintf("report: malformed at %s", where)
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindMalformed:
		sentinel = ErrMalformed
	case KindUnknownEnumValue:
		sentinel = ErrUnknownEnumValue
	case KindEncoding:
		sentinel = ErrEncoding
	}
	errs := make([]error, 0, 2)
	if sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
