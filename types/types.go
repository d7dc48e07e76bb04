// Package types holds the GTO type catalogue: the nine primitive data kinds
// and their wire widths, and the file-kind enumeration, following the
// teacher package's format.EncodingType/CompressionType pattern of a small
// stable-ordinal enum with a String() method and name<->kind lookup tables.
package types

import "fmt"

// DataType is a GTO property's primitive kind, stable ordinals per spec §3.
type DataType uint8

const (
	Int    DataType = 0 // signed 32-bit integer, little-endian
	Float  DataType = 1 // IEEE-754 binary32, little-endian
	Double DataType = 2 // IEEE-754 binary64, little-endian
	Half   DataType = 3 // IEEE-754 binary16, little-endian
	String DataType = 4 // 32-bit index into the string table
	Bool   DataType = 5 // 0 = false, non-zero = true
	Short  DataType = 6 // unsigned 16-bit, little-endian
	Byte   DataType = 7 // unsigned 8-bit
	Int64  DataType = 8 // signed 64-bit, little-endian

	// NumDataTypes is the count of valid primitive kinds (ordinals 0..8).
	NumDataTypes = 9
)

// elementBytes is indexed by DataType ordinal; see ElementBytes.
var elementBytes = [NumDataTypes]int{
	Int:    4,
	Float:  4,
	Double: 8,
	Half:   2,
	String: 4,
	Bool:   1,
	Short:  2,
	Byte:   1,
	Int64:  8,
}

// names is indexed by DataType ordinal; see String and ParseDataType.
var names = [NumDataTypes]string{
	Int:    "int",
	Float:  "float",
	Double: "double",
	Half:   "half",
	String: "string",
	Bool:   "bool",
	Short:  "short",
	Byte:   "byte",
	Int64:  "int64",
}

// IsValid reports whether d is one of the nine defined primitive kinds.
func (d DataType) IsValid() bool {
	return d < NumDataTypes
}

// ElementBytes returns the on-wire byte width of a single scalar of this
// kind. Panics if d is not IsValid; callers that parse an untrusted ordinal
// must check IsValid (or use ElementBytesOf) first.
func (d DataType) ElementBytes() int {
	return elementBytes[d]
}

// String implements fmt.Stringer, returning the GTOa type keyword.
func (d DataType) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("DataType(%d)", uint8(d))
	}

	return names[d]
}

// ElementBytesOf returns the element width for kind, or (0, false) if kind
// is not a valid ordinal, for callers holding an untrusted on-wire kind
// byte. The binary reader itself checks kinds with PropertyHeader.Validate.
func ElementBytesOf(kind uint8) (int, bool) {
	d := DataType(kind)
	if !d.IsValid() {
		return 0, false
	}

	return d.ElementBytes(), true
}

// ParseDataType maps a GTOa type keyword to its DataType, for the text
// parser. The second return is false for any word outside the nine
// primitive kinds.
func ParseDataType(name string) (DataType, bool) {
	for i, n := range names {
		if n == name {
			return DataType(i), true
		}
	}

	return 0, false
}

// FileType enumerates the encodings a GTO file may be stored in.
// Only TextGTO and BinaryGTO are implemented; CompressedGTO is declared and
// recognized but deliberately left unimplemented (spec §4.7/§9: "may be
// added later without touching the model").
type FileType uint8

const (
	TextGTO       FileType = iota // GTOa text encoding, §4.3/§6
	BinaryGTO                     // little- or big-endian binary v4, §4.2/§6
	CompressedGTO                 // reserved: gzip of the binary body after the magic
)

func (f FileType) String() string {
	switch f {
	case BinaryGTO:
		return "BinaryGTO"
	case TextGTO:
		return "TextGTO"
	case CompressedGTO:
		return "CompressedGTO"
	default:
		return fmt.Sprintf("FileType(%d)", uint8(f))
	}
}

// CurrentVersion is the only binary header version this codec decodes;
// anything else fails clearly with ErrUnsupportedVersion (spec §1 Non-goals:
// "recognising older headers sufficient to fail clearly").
const CurrentVersion = 4

// Magic is the little-endian v4 binary magic number (spec §6).
const Magic uint32 = 0x0000029F

// SwappedMagic is Magic with its bytes reversed; seeing this as the first
// four bytes of input signals a big-endian-encoded v4 file (spec §4.2).
const SwappedMagic uint32 = 0x9F020000
