// Package gto is the high-level façade over the binary and text codecs: a
// SimpleReader that auto-detects encoding from its input and a
// SimpleWriter that emits either encoding from a model.File (spec §4.7,
// §6), mirroring the way the teacher package's top-level mebo.go exposes a
// small facade over its blob/encoder internals.
package gto

import (
	"github.com/bytedance/gopkg/lang/conv"

	"github.com/gto-format/gto/binary"
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/text"
	"github.com/gto-format/gto/types"
)

// SimpleReader auto-detects its input's encoding and parses it into a
// model.File. The zero value is ready to use.
type SimpleReader struct {
	result     *model.File
	diagnostic error
}

// Open parses input, which may be either a binary GTO buffer or GTOa
// text as UTF-8 bytes (OpenText takes a string). It returns true on success; on
// failure it returns false and Diagnostic reports why. Calling Open again
// resets all prior state (spec §7: "calling open again resets state").
func (r *SimpleReader) Open(input []byte) bool {
	r.result = nil
	r.diagnostic = nil

	if looksBinary(input) {
		f, err := binary.Read(input)
		if err != nil {
			r.diagnostic = err

			return false
		}

		r.result = f

		return true
	}

	// Zero-copy: the text reader never mutates its source, so the []byte
	// input can be viewed as a string without allocating a copy.
	f, err := text.Read(conv.BytesToString(input))
	if err != nil {
		r.diagnostic = err

		return false
	}

	r.result = f

	return true
}

// OpenText is Open for callers who already have a string in hand; it
// avoids a UTF-8 round-trip through []byte for the common text-editing
// workflow.
func (r *SimpleReader) OpenText(input string) bool {
	r.result = nil
	r.diagnostic = nil

	f, err := text.Read(input)
	if err != nil {
		r.diagnostic = err

		return false
	}

	r.result = f

	return true
}

// Result returns the parsed model, or nil if the last Open call failed.
func (r *SimpleReader) Result() *model.File {
	return r.result
}

// Diagnostic returns the error from the last failed Open call, or nil.
func (r *SimpleReader) Diagnostic() error {
	return r.diagnostic
}

func looksBinary(input []byte) bool {
	if len(input) < 4 {
		return false
	}

	_, err := binary.DetectEngine(input)

	return err == nil
}

// SimpleWriter emits a model.File as either binary or GTOa text.
type SimpleWriter struct{}

// WriteOptions selects the output encoding for SimpleWriter.Write.
type WriteOptions struct {
	// Binary selects the binary encoding; false selects GTOa text.
	Binary bool
}

// Write serializes f per opts. Binary output is returned in bytes; text
// output is returned as text with bytes nil.
func (SimpleWriter) Write(f *model.File, opts WriteOptions) (out []byte, txt string, err error) {
	if opts.Binary {
		b, err := binary.Write(f)

		return b, "", err
	}

	return nil, text.Write(f), nil
}

// WriteKind is Write but selects the encoding via a types.FileType instead
// of the boolean WriteOptions form, for callers working from the type
// catalogue directly. CompressedGTO is recognized but not implemented
// (spec §9).
func (w SimpleWriter) WriteKind(f *model.File, kind types.FileType) ([]byte, string, error) {
	switch kind {
	case types.BinaryGTO:
		return w.Write(f, WriteOptions{Binary: true})
	case types.TextGTO:
		return w.Write(f, WriteOptions{Binary: false})
	default:
		return nil, "", errs.ErrNotImplemented
	}
}
