// Package model holds the uniform in-memory representation every reader
// produces and every writer consumes: a File owning Objects owning
// Components owning Properties, mirroring the tree ownership the teacher
// package uses for its own blob/metric hierarchy but reshaped for GTO's
// object/component/property nesting (spec §3, §5).
package model

import (
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/types"
)

// Value is a property's payload: a flat, kind-homogeneous scalar slice.
// Exactly one field is populated, selected by the owning Property's Kind;
// this mirrors spec §9's "tagged union, one variant per kind" guidance
// without resorting to per-element boxing.
type Value struct {
	Ints    []int32
	Floats  []float32
	Doubles []float64
	Halves  []uint16 // raw binary16 bit patterns
	Strings []string // resolved text; codecs own the id<->string mapping at the wire boundary
	Bools   []bool
	Shorts  []uint16
	Bytes   []byte
	Int64s  []int64
}

// Len returns the number of scalars actually stored, regardless of kind.
func (v Value) Len() int {
	switch {
	case v.Ints != nil:
		return len(v.Ints)
	case v.Floats != nil:
		return len(v.Floats)
	case v.Doubles != nil:
		return len(v.Doubles)
	case v.Halves != nil:
		return len(v.Halves)
	case v.Strings != nil:
		return len(v.Strings)
	case v.Bools != nil:
		return len(v.Bools)
	case v.Shorts != nil:
		return len(v.Shorts)
	case v.Bytes != nil:
		return len(v.Bytes)
	case v.Int64s != nil:
		return len(v.Int64s)
	default:
		return 0
	}
}

// Property is a single named, typed value or array within a Component.
type Property struct {
	Name           string
	Interpretation string // empty if none

	Kind types.DataType

	// Size is the element count; Width is parts per element; Dims are up
	// to four extra multiplying axes (1 when unused). Total scalar count
	// is Size * Width * Dims[0] * Dims[1] * Dims[2] * Dims[3] (spec §3).
	Size  uint32
	Width uint32
	Dims  [4]uint32

	Value Value
}

// NewScalarDims returns the default dims array, all axes unused (value 1).
func NewScalarDims() [4]uint32 {
	return [4]uint32{1, 1, 1, 1}
}

// TotalScalars returns Size * Width * Dims[0..3].
func (p *Property) TotalScalars() uint64 {
	total := uint64(p.Size) * uint64(p.Width)
	for _, d := range p.Dims {
		if d == 0 {
			d = 1
		}
		total *= uint64(d)
	}

	return total
}

// PayloadBytes returns the exact on-wire byte length of the property's
// payload (spec §3 invariant 3).
func (p *Property) PayloadBytes() uint64 {
	return p.TotalScalars() * uint64(p.Kind.ElementBytes())
}

// Validate checks that Size/Width/Dims agree with the stored Value length
// and that Kind is one of the nine primitive kinds (spec §9: "the writer
// asserts consistency before emission").
func (p *Property) Validate() error {
	if !p.Kind.IsValid() {
		return errs.ErrUnknownKind
	}

	total := p.TotalScalars()
	if uint64(p.Value.Len()) != total {
		return errs.ErrSizeMismatch
	}

	return nil
}

// Component is a named grouping of properties within an Object. Depth
// records its child_level relative to the previous sibling in the flat
// binary layout (spec §9); a flat, non-nested file has every Depth == 0.
type Component struct {
	Name           string
	Interpretation string
	Depth          uint32
	Flags          uint32

	Properties []*Property

	// children is not set by any code in this package; Object.Children
	// recomputes the nesting from Depth on every call and stores nothing here.
	children []*Component
}

// FindProperty returns the first property named name, or nil.
func (c *Component) FindProperty(name string) *Property {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// Object is identified by (Name, Protocol, ProtocolVersion); owns an
// ordered list of Components, some of which may be logically nested under
// others via Component.Depth.
type Object struct {
	Name            string
	Protocol        string
	ProtocolVersion uint32

	// Components is the flat, declaration-order list exactly as it
	// appears (or will appear) in the binary layout (spec §3 invariant 2).
	Components []*Component
}

// FindComponent returns the first top-level (Depth == 0) component named
// name, or nil.
func (o *Object) FindComponent(name string) *Component {
	for _, c := range o.Components {
		if c.Depth == 0 && c.Name == name {
			return c
		}
	}

	return nil
}

// Children reconstructs the tree of components nested under parent
// (depth == parent's depth + 1, following flat declaration order) on demand,
// per spec §9's "flat list plus depth, reconstructing nesting on demand".
// Pass nil to get the top-level (Depth == 0) roots.
func (o *Object) Children(parent *Component) []*Component {
	parentDepth := -1
	startIdx := 0

	if parent != nil {
		for i, c := range o.Components {
			if c == parent {
				parentDepth = int(c.Depth)
				startIdx = i + 1

				break
			}
		}
	}

	var out []*Component
	for i := startIdx; i < len(o.Components); i++ {
		c := o.Components[i]
		d := int(c.Depth)

		if parent == nil {
			if d == 0 {
				out = append(out, c)
			}

			continue
		}

		if d <= parentDepth {
			break // left parent's subtree
		}
		if d == parentDepth+1 {
			out = append(out, c)
		}
	}

	return out
}

// File is the root of the model: a version, header flags, and a flat
// ordered list of Objects. It holds no string pool: names, protocols,
// interpretations and string payloads are stored as text, and each codec
// builds its own string table at its wire boundary.
type File struct {
	Version uint32
	Flags   uint32 // carries the legacy Transposed bit (value 1) through unchanged, per spec §9

	Objects []*Object
}

// New returns an empty File at the current codec version.
func New() *File {
	return &File{Version: types.CurrentVersion}
}

// Validate walks the whole tree checking every property's size/width/dims
// against its payload length, and that every kind is recognized. It does
// not check string interning; callers that build a model to hand to a
// writer should intern through that writer's string table directly so ids
// stay consistent, per spec §3 invariant 1 and §5's string-table ownership
// rules.
func (f *File) Validate() error {
	for _, obj := range f.Objects {
		for _, comp := range obj.Components {
			for _, prop := range comp.Properties {
				if err := prop.Validate(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
