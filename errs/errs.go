// Package errs collects the sentinel errors returned by the gto codec and
// the Diagnostic type used to report where, in either encoding, a failure
// occurred.
//
// Every exported error here is meant to be matched with errors.Is; detail
// (an offending offset, a string-table id, an unexpected token) is attached
// by wrapping the sentinel in a Diagnostic via AtOffset or AtLineCol at the
// call site, whose Unwrap lets errors.Is reach the sentinel.
package errs

import (
	"errors"
	"strconv"
)

// Binary decode errors (spec §7).
var (
	// ErrBadMagic is returned when the first four bytes of a binary input
	// match neither the little-endian nor the byte-swapped magic number.
	ErrBadMagic = errors.New("gto: bad magic number")

	// ErrUnsupportedVersion is returned when the header version field is not
	// the one version (4) this codec understands.
	ErrUnsupportedVersion = errors.New("gto: unsupported version")

	// ErrTruncated is returned when the input ends mid-header or mid-payload.
	ErrTruncated = errors.New("gto: truncated input")

	// ErrUnknownKind is returned when a property header's kind ordinal falls
	// outside 0..8.
	ErrUnknownKind = errors.New("gto: unknown primitive kind")

	// ErrStringIDOutOfRange is returned when a name/protocol/interpretation
	// id, or a string-kind payload element, references a string pool index
	// that was never interned.
	ErrStringIDOutOfRange = errors.New("gto: string id out of range")

	// ErrInvalidHeaderSize names a fixed-size binary section handed fewer
	// bytes than its wire size requires. No decoder in this module returns
	// it: the header parsers report short input as ErrTruncated.
	ErrInvalidHeaderSize = errors.New("gto: invalid header size")

	// ErrInvalidHeaderFlags names a file-header flags field carrying
	// unrecognized bits. No decoder in this module returns it: the binary
	// reader copies the flags field into model.File.Flags unchecked.
	ErrInvalidHeaderFlags = errors.New("gto: invalid header flags")
)

// Text decode errors (spec §7).
var (
	// ErrSyntax is returned when tokenization itself fails (an unterminated
	// comment, an invalid escape, a byte outside the expected character set).
	ErrSyntax = errors.New("gto: syntax error")

	// ErrUnexpectedToken is returned when the parser encounters a token that
	// is not valid at the current grammar position.
	ErrUnexpectedToken = errors.New("gto: unexpected token")

	// ErrUnknownType is returned when a property declaration names a type
	// outside the nine primitive kinds.
	ErrUnknownType = errors.New("gto: unknown type")

	// ErrWidthMismatch is returned when a value literal's grouping does not
	// evenly match the property's declared width.
	ErrWidthMismatch = errors.New("gto: width mismatch")

	// ErrUnterminatedString is returned when a quoted literal is not closed
	// before end of input or end of line.
	ErrUnterminatedString = errors.New("gto: unterminated string")
)

// Writer state-machine errors (spec §4.4, §9).
var (
	// ErrStateViolation is returned when a Writer method is called in a
	// phase that does not permit it (e.g. declaring a property outside a
	// component).
	ErrStateViolation = errors.New("gto: writer state violation")

	// ErrOverflowHalf is returned by the half-float encoder when a value
	// lies outside the representable binary16 range and the caller asked
	// for "report" overflow policy instead of the default "saturate".
	ErrOverflowHalf = errors.New("gto: half-float overflow")
)

// Data-model validation errors. ErrSizeMismatch is returned by
// model.Property.Validate (and so by model.File.Validate and the binary
// writers' pre-flight check).
var (
	// ErrNameNotInterned names a name, protocol, or interpretation string
	// missing from a string table. No code in this module returns it: the
	// binary writer interns every string itself, and model.File.Validate
	// does not check interning.
	ErrNameNotInterned = errors.New("gto: name not interned")

	// ErrSizeMismatch is returned when a property's declared size/width/dims
	// do not match the length of its payload.
	ErrSizeMismatch = errors.New("gto: size does not match payload length")

	// ErrNotImplemented is returned for recognized-but-unsupported inputs,
	// currently just the reserved CompressedGTO file kind.
	ErrNotImplemented = errors.New("gto: not implemented")
)

// Diagnostic carries the single location of a codec failure, following
// spec §7's "diagnostics carry one location" rule: binary failures report a
// byte Offset, text failures report Line/Col.
type Diagnostic struct {
	// Err is the wrapped sentinel error (use errors.Is against the Err*
	// values above).
	Err error

	// Offset is the byte offset of the failure in binary input. Zero for
	// text diagnostics.
	Offset int64

	// Line and Col are 1-based text positions. Zero for binary diagnostics.
	Line int
	Col  int

	// Detail is a short human-readable elaboration, e.g. the offending
	// token or the expected token set.
	Detail string
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped like any other error.
func (d *Diagnostic) Error() string {
	if d == nil || d.Err == nil {
		return "gto: unknown error"
	}

	loc := ""
	switch {
	case d.Line > 0:
		loc = " (line " + strconv.Itoa(d.Line) + ", col " + strconv.Itoa(d.Col) + ")"
	case d.Offset > 0:
		loc = " (offset " + strconv.FormatInt(d.Offset, 10) + ")"
	}

	if d.Detail != "" {
		return d.Err.Error() + loc + ": " + d.Detail
	}

	return d.Err.Error() + loc
}

// Unwrap allows errors.Is/errors.As to reach the wrapped sentinel.
func (d *Diagnostic) Unwrap() error {
	if d == nil {
		return nil
	}

	return d.Err
}

// AtOffset builds a binary-style Diagnostic.
func AtOffset(err error, offset int64, detail string) *Diagnostic {
	return &Diagnostic{Err: err, Offset: offset, Detail: detail}
}

// AtLineCol builds a text-style Diagnostic.
func AtLineCol(err error, line, col int, detail string) *Diagnostic {
	return &Diagnostic{Err: err, Line: line, Col: col, Detail: detail}
}

