package binary

import (
	"github.com/gto-format/gto/endian"
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/types"
)

var littleEndianDefault = endian.GetLittleEndianEngine()

// Engine is the byte-order accessor every section header reads and writes
// through; it is exactly endian.EndianEngine, aliased here so callers of
// this package don't need to import the endian package just to name the type.
type Engine = endian.EndianEngine

// DetectEngine inspects the first four bytes of b and returns the matching
// Engine. Detection is magic-based, never platform-based (spec §9:
// "detect endianness from the magic; do not rely on platform endianness").
func DetectEngine(b []byte) (Engine, error) {
	if len(b) < 4 {
		return nil, errs.AtOffset(errs.ErrTruncated, 0, "magic")
	}

	le := endian.GetLittleEndianEngine()
	switch le.Uint32(b[0:4]) {
	case types.Magic:
		return le, nil
	case types.SwappedMagic:
		return endian.GetBigEndianEngine(), nil
	default:
		return nil, errs.AtOffset(errs.ErrBadMagic, 0, "")
	}
}
