package binary

import (
	"math"

	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/strtab"
	"github.com/gto-format/gto/types"
)

// Read decodes a complete binary GTO buffer into a model.File. The buffer's
// magic selects the byte order for the rest of the file (spec §4.2); b is
// not retained after Read returns.
func Read(b []byte) (*model.File, error) {
	engine, err := DetectEngine(b)
	if err != nil {
		return nil, err
	}

	var fh FileHeader
	if err := fh.Parse(b, engine); err != nil {
		return nil, err
	}

	if fh.Version != types.CurrentVersion {
		return nil, errs.AtOffset(errs.ErrUnsupportedVersion, 0, "")
	}

	off := fileHeaderSize

	pool, consumed, err := readStringPool(b[off:], int(fh.NumStrings), off)
	if err != nil {
		return nil, err
	}
	off += consumed

	objHeaders := make([]ObjectHeader, fh.NumObjects)
	for i := range objHeaders {
		if err := objHeaders[i].Parse(b[off:], engine); err != nil {
			return nil, withOffset(err, off)
		}
		off += objectHeaderSize
	}

	totalComponents := 0
	for _, oh := range objHeaders {
		totalComponents += int(oh.NumComponents)
	}

	compHeaders := make([]ComponentHeader, totalComponents)
	for i := range compHeaders {
		if err := compHeaders[i].Parse(b[off:], engine); err != nil {
			return nil, withOffset(err, off)
		}
		off += componentHeaderSize
	}

	totalProperties := 0
	for _, ch := range compHeaders {
		totalProperties += int(ch.NumProperties)
	}

	propHeaders := make([]PropertyHeader, totalProperties)
	for i := range propHeaders {
		if err := propHeaders[i].Parse(b[off:], engine); err != nil {
			return nil, withOffset(err, off)
		}
		if err := propHeaders[i].Validate(); err != nil {
			return nil, withOffset(err, off)
		}
		off += propertyHeaderSize
	}

	f := &model.File{Version: fh.Version, Flags: fh.Flags}

	compIdx := 0
	propIdx := 0

	for _, oh := range objHeaders {
		obj := &model.Object{
			ProtocolVersion: oh.ProtocolVersion,
		}

		if obj.Name, err = pool.Resolve(int32(oh.NameID)); err != nil {
			return nil, err
		}
		if obj.Protocol, err = pool.Resolve(int32(oh.ProtocolID)); err != nil {
			return nil, err
		}

		for c := 0; c < int(oh.NumComponents); c++ {
			ch := compHeaders[compIdx]
			compIdx++

			comp := &model.Component{Depth: ch.ChildLevel, Flags: ch.Flags}
			if comp.Name, err = pool.Resolve(int32(ch.NameID)); err != nil {
				return nil, err
			}
			if comp.Interpretation, err = resolveOptional(pool, ch.InterpretationID); err != nil {
				return nil, err
			}

			for p := 0; p < int(ch.NumProperties); p++ {
				ph := propHeaders[propIdx]
				propIdx++

				prop := &model.Property{
					Kind:  types.DataType(ph.Kind),
					Size:  ph.Size,
					Width: ph.Width,
					Dims:  ph.Dims,
				}
				if prop.Name, err = pool.Resolve(int32(ph.NameID)); err != nil {
					return nil, err
				}
				if prop.Interpretation, err = resolveOptional(pool, ph.InterpretationID); err != nil {
					return nil, err
				}

				n := int(prop.TotalScalars())
				elemBytes := prop.Kind.ElementBytes()
				need := n * elemBytes
				if len(b)-off < need {
					return nil, errs.AtOffset(errs.ErrTruncated, int64(off), "property payload")
				}

				prop.Value, err = readPayload(b[off:off+need], n, prop.Kind, engine, pool)
				if err != nil {
					return nil, withOffset(err, off)
				}
				off += need

				comp.Properties = append(comp.Properties, prop)
			}

			obj.Components = append(obj.Components, comp)
		}

		f.Objects = append(f.Objects, obj)
	}

	return f, nil
}

// resolveOptional resolves id as an interpretation string. "No
// interpretation" is represented by interning the empty string like any
// other value, not by a reserved sentinel id (spec §4.1 defines no such
// sentinel), so this is a plain pool lookup.
func resolveOptional(pool *strtab.Table, id uint32) (string, error) {
	return pool.Resolve(int32(id))
}

func readStringPool(b []byte, n int, baseOffset int) (*strtab.Table, int, error) {
	strs := make([]string, 0, n)
	pos := 0

	for i := 0; i < n; i++ {
		start := pos
		for pos < len(b) && b[pos] != 0 {
			pos++
		}
		if pos >= len(b) {
			return nil, 0, errs.AtOffset(errs.ErrTruncated, int64(baseOffset+start), "string pool")
		}

		strs = append(strs, string(b[start:pos]))
		pos++ // skip the terminator
	}

	return strtab.LoadOrdered(strs), pos, nil
}

func readPayload(b []byte, n int, kind types.DataType, engine Engine, pool *strtab.Table) (model.Value, error) {
	var v model.Value

	switch kind {
	case types.Int:
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			out[i] = int32(engine.Uint32(b[i*4:]))
		}
		v.Ints = out

	case types.Float:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(engine.Uint32(b[i*4:]))
		}
		v.Floats = out

	case types.Double:
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(engine.Uint64(b[i*8:]))
		}
		v.Doubles = out

	case types.Half:
		out := make([]uint16, n)
		for i := 0; i < n; i++ {
			out[i] = engine.Uint16(b[i*2:])
		}
		v.Halves = out

	case types.String:
		out := make([]string, n)
		for i := 0; i < n; i++ {
			id := int32(engine.Uint32(b[i*4:]))
			s, err := pool.Resolve(id)
			if err != nil {
				return v, err
			}
			out[i] = s
		}
		v.Strings = out

	case types.Bool:
		out := make([]bool, n)
		for i := 0; i < n; i++ {
			out[i] = b[i] != 0
		}
		v.Bools = out

	case types.Short:
		out := make([]uint16, n)
		for i := 0; i < n; i++ {
			out[i] = engine.Uint16(b[i*2:])
		}
		v.Shorts = out

	case types.Byte:
		out := make([]byte, n)
		copy(out, b[:n])
		v.Bytes = out

	case types.Int64:
		out := make([]int64, n)
		for i := 0; i < n; i++ {
			out[i] = int64(engine.Uint64(b[i*8:]))
		}
		v.Int64s = out

	default:
		return v, errs.ErrUnknownKind
	}

	return v, nil
}

func withOffset(err error, off int) error {
	if d, ok := err.(*errs.Diagnostic); ok {
		d.Offset = int64(off)
		return d
	}

	return errs.AtOffset(err, int64(off), "")
}
