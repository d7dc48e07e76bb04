package binary

import (
	"math"

	"github.com/gto-format/gto/endian"
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/internal/pool"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/strtab"
	"github.com/gto-format/gto/types"
)

// Write lays out a whole model.File as a single little-endian binary
// buffer (the structural API of spec §4.4). It interns every name,
// protocol and interpretation string in declaration order before writing
// any section, then allocates one exact-size buffer and writes the five
// sections in order, matching the teacher package's "compute sizes, then
// single allocation" encoder strategy (see blob/numeric_encoder.go).
func Write(f *model.File) ([]byte, error) {
	return WriteEngine(f, endian.GetLittleEndianEngine())
}

// WriteEngine is Write with an explicit byte order, used by tests that
// need to produce the byte-swapped vectors spec §9 notes no current
// producer emits.
func WriteEngine(f *model.File, engine Engine) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	strs := strtab.New()
	internModel(f, strs)

	fh := FileHeader{
		Magic:      types.Magic,
		NumStrings: uint32(strs.Len()),
		NumObjects: uint32(len(f.Objects)),
		Version:    f.Version,
		Flags:      f.Flags,
	}

	total := fileHeaderSize
	for _, s := range strs.Strings() {
		total += len(s) + 1
	}
	total += len(f.Objects) * objectHeaderSize

	numComponents, numProperties, payloadBytes := 0, 0, uint64(0)
	for _, obj := range f.Objects {
		numComponents += len(obj.Components)
		for _, comp := range obj.Components {
			numProperties += len(comp.Properties)
			for _, prop := range comp.Properties {
				payloadBytes += prop.PayloadBytes()
			}
		}
	}
	total += numComponents * componentHeaderSize
	total += numProperties * propertyHeaderSize
	total += int(payloadBytes)

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)
	buf.Reset()
	buf.Grow(total)

	out := buf.Bytes()[:0]
	out = fh.AppendTo(out, engine)

	for _, s := range strs.Strings() {
		out = append(out, s...)
		out = append(out, 0)
	}

	for _, obj := range f.Objects {
		oh := ObjectHeader{
			NameID:          uint32(strs.Intern(obj.Name)),
			ProtocolID:      uint32(strs.Intern(obj.Protocol)),
			ProtocolVersion: obj.ProtocolVersion,
			NumComponents:   uint32(len(obj.Components)),
		}
		out = oh.AppendTo(out, engine)
	}

	for _, obj := range f.Objects {
		for _, comp := range obj.Components {
			ch := ComponentHeader{
				NameID:           uint32(strs.Intern(comp.Name)),
				InterpretationID: uint32(strs.Intern(comp.Interpretation)),
				NumProperties:    uint32(len(comp.Properties)),
				Flags:            comp.Flags,
				ChildLevel:       comp.Depth,
			}
			out = ch.AppendTo(out, engine)
		}
	}

	for _, obj := range f.Objects {
		for _, comp := range obj.Components {
			for _, prop := range comp.Properties {
				ph := PropertyHeader{
					NameID:           uint32(strs.Intern(prop.Name)),
					InterpretationID: uint32(strs.Intern(prop.Interpretation)),
					Kind:             uint8(prop.Kind),
					Size:             prop.Size,
					Width:            prop.Width,
					Dims:             prop.Dims,
				}
				out = ph.AppendTo(out, engine)
			}
		}
	}

	for _, obj := range f.Objects {
		for _, comp := range obj.Components {
			for _, prop := range comp.Properties {
				var err error
				out, err = appendPayload(out, prop, engine, strs)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	result := make([]byte, len(out))
	copy(result, out)

	return result, nil
}

// internModel walks f in declaration order, interning every name, protocol
// and interpretation string, per spec §3 invariant 1 and §4.4 step 1.
func internModel(f *model.File, strs *strtab.Table) {
	for _, obj := range f.Objects {
		strs.Intern(obj.Name)
		strs.Intern(obj.Protocol)

		for _, comp := range obj.Components {
			strs.Intern(comp.Name)
			strs.Intern(comp.Interpretation)

			for _, prop := range comp.Properties {
				strs.Intern(prop.Name)
				strs.Intern(prop.Interpretation)

				if prop.Kind == types.String {
					for _, s := range prop.Value.Strings {
						strs.Intern(s)
					}
				}
			}
		}
	}
}

func appendPayload(dst []byte, prop *model.Property, engine Engine, strs *strtab.Table) ([]byte, error) {
	v := prop.Value

	switch prop.Kind {
	case types.Int:
		for _, x := range v.Ints {
			dst = engine.AppendUint32(dst, uint32(x))
		}

	case types.Float:
		for _, x := range v.Floats {
			dst = engine.AppendUint32(dst, math.Float32bits(x))
		}

	case types.Double:
		for _, x := range v.Doubles {
			dst = engine.AppendUint64(dst, math.Float64bits(x))
		}

	case types.Half:
		for _, x := range v.Halves {
			dst = engine.AppendUint16(dst, x)
		}

	case types.String:
		for _, s := range v.Strings {
			id := strs.Intern(s)
			dst = engine.AppendUint32(dst, uint32(id))
		}

	case types.Bool:
		for _, b := range v.Bools {
			if b {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}

	case types.Short:
		for _, x := range v.Shorts {
			dst = engine.AppendUint16(dst, x)
		}

	case types.Byte:
		dst = append(dst, v.Bytes...)

	case types.Int64:
		for _, x := range v.Int64s {
			dst = engine.AppendUint64(dst, uint64(x))
		}

	default:
		return nil, errs.ErrUnknownKind
	}

	return dst, nil
}
