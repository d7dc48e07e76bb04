// Package binary implements the GTO binary codec (v4): fixed-size headers
// for file/object/component/property sections, an endian-aware reader, and
// both the incremental and structural writer APIs (spec §4.2, §4.4, §6).
//
// Field layouts follow the teacher package's header structs (see
// section/numeric_header.go) of plain fixed-width fields plus a
// Parse/AppendTo pair driven by an endian.EndianEngine, rather than
// encoding/binary struct tags.
package binary

import (
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/types"
)

const (
	fileHeaderSize      = 20
	objectHeaderSize    = 20
	componentHeaderSize = 20
	propertyHeaderSize  = 36
)

// FileHeader is the 20-byte section at offset 0 (spec §4.2.1, §6).
type FileHeader struct {
	Magic      uint32
	NumStrings uint32
	NumObjects uint32
	Version    uint32
	Flags      uint32
}

// Parse reads a FileHeader from the front of b using engine's byte order.
// It does not itself validate the magic; callers use DetectEngine first so
// the correct engine is already selected by the time Parse runs.
func (h *FileHeader) Parse(b []byte, engine Engine) error {
	if len(b) < fileHeaderSize {
		return errs.AtOffset(errs.ErrTruncated, 0, "file header")
	}

	h.Magic = engine.Uint32(b[0:4])
	h.NumStrings = engine.Uint32(b[4:8])
	h.NumObjects = engine.Uint32(b[8:12])
	h.Version = engine.Uint32(b[12:16])
	h.Flags = engine.Uint32(b[16:20])

	return nil
}

// AppendTo appends the header's wire bytes to dst using engine's byte
// order, returning the extended slice.
func (h *FileHeader) AppendTo(dst []byte, engine Engine) []byte {
	dst = engine.AppendUint32(dst, h.Magic)
	dst = engine.AppendUint32(dst, h.NumStrings)
	dst = engine.AppendUint32(dst, h.NumObjects)
	dst = engine.AppendUint32(dst, h.Version)
	dst = engine.AppendUint32(dst, h.Flags)

	return dst
}

// ObjectHeader is one 20-byte record (spec §4.2.3).
type ObjectHeader struct {
	NameID          uint32
	ProtocolID      uint32
	ProtocolVersion uint32
	NumComponents   uint32
	Pad             uint32
}

func (h *ObjectHeader) Parse(b []byte, engine Engine) error {
	if len(b) < objectHeaderSize {
		return errs.AtOffset(errs.ErrTruncated, 0, "object header")
	}

	h.NameID = engine.Uint32(b[0:4])
	h.ProtocolID = engine.Uint32(b[4:8])
	h.ProtocolVersion = engine.Uint32(b[8:12])
	h.NumComponents = engine.Uint32(b[12:16])
	h.Pad = engine.Uint32(b[16:20])

	return nil
}

func (h *ObjectHeader) AppendTo(dst []byte, engine Engine) []byte {
	dst = engine.AppendUint32(dst, h.NameID)
	dst = engine.AppendUint32(dst, h.ProtocolID)
	dst = engine.AppendUint32(dst, h.ProtocolVersion)
	dst = engine.AppendUint32(dst, h.NumComponents)
	dst = engine.AppendUint32(dst, h.Pad)

	return dst
}

// ComponentHeader is one 20-byte record (spec §4.2.4).
type ComponentHeader struct {
	NameID           uint32
	InterpretationID uint32
	NumProperties    uint32
	Flags            uint32
	ChildLevel       uint32
}

func (h *ComponentHeader) Parse(b []byte, engine Engine) error {
	if len(b) < componentHeaderSize {
		return errs.AtOffset(errs.ErrTruncated, 0, "component header")
	}

	h.NameID = engine.Uint32(b[0:4])
	h.InterpretationID = engine.Uint32(b[4:8])
	h.NumProperties = engine.Uint32(b[8:12])
	h.Flags = engine.Uint32(b[12:16])
	h.ChildLevel = engine.Uint32(b[16:20])

	return nil
}

func (h *ComponentHeader) AppendTo(dst []byte, engine Engine) []byte {
	dst = engine.AppendUint32(dst, h.NameID)
	dst = engine.AppendUint32(dst, h.InterpretationID)
	dst = engine.AppendUint32(dst, h.NumProperties)
	dst = engine.AppendUint32(dst, h.Flags)
	dst = engine.AppendUint32(dst, h.ChildLevel)

	return dst
}

// PropertyHeader is one 36-byte record (spec §4.2.5).
type PropertyHeader struct {
	NameID           uint32
	InterpretationID uint32
	Kind             uint8
	Size             uint32
	Width            uint32
	Dims             [4]uint32
}

func (h *PropertyHeader) Parse(b []byte, engine Engine) error {
	if len(b) < propertyHeaderSize {
		return errs.AtOffset(errs.ErrTruncated, 0, "property header")
	}

	h.NameID = engine.Uint32(b[0:4])
	h.InterpretationID = engine.Uint32(b[4:8])
	h.Kind = b[8]
	// b[9:12] is the 3-byte pad.
	h.Size = engine.Uint32(b[12:16])
	h.Width = engine.Uint32(b[16:20])
	h.Dims[0] = engine.Uint32(b[20:24])
	h.Dims[1] = engine.Uint32(b[24:28])
	h.Dims[2] = engine.Uint32(b[28:32])
	h.Dims[3] = engine.Uint32(b[32:36])

	return nil
}

func (h *PropertyHeader) AppendTo(dst []byte, engine Engine) []byte {
	dst = engine.AppendUint32(dst, h.NameID)
	dst = engine.AppendUint32(dst, h.InterpretationID)
	dst = append(dst, h.Kind, 0, 0, 0)
	dst = engine.AppendUint32(dst, h.Size)
	dst = engine.AppendUint32(dst, h.Width)
	for _, d := range h.Dims {
		dst = engine.AppendUint32(dst, d)
	}

	return dst
}

// Validate checks the header's own internal consistency (valid kind
// ordinal); it does not check NameID/InterpretationID against the string
// pool size, which the reader does once the pool is known.
func (h *PropertyHeader) Validate() error {
	if !types.DataType(h.Kind).IsValid() {
		return errs.ErrUnknownKind
	}

	return nil
}
