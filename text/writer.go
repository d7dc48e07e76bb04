package text

import (
	"math"
	"strconv"
	"strings"

	"github.com/gto-format/gto/half"
	"github.com/gto-format/gto/model"
)

// Write emits f as GTOa text: the signature line, then each object
// followed by a blank line, each component followed by a blank line
// within its object, one property per line (spec §4.5).
func Write(f *model.File) string {
	var b strings.Builder

	b.WriteString("GTOa (")
	b.WriteString(strconv.FormatUint(uint64(f.Version), 10))
	b.WriteString(")\n\n")

	for _, obj := range f.Objects {
		writeObject(&b, obj)
		b.WriteString("\n")
	}

	return b.String()
}

func writeObject(b *strings.Builder, obj *model.Object) {
	b.WriteString(quoteName(obj.Name))
	b.WriteString(" : ")
	b.WriteString(quoteName(obj.Protocol))

	if obj.ProtocolVersion != 0 {
		b.WriteString(" (")
		b.WriteString(strconv.FormatUint(uint64(obj.ProtocolVersion), 10))
		b.WriteString(")")
	}

	b.WriteString(" {\n")

	// Components are emitted flat, at a single indent level, in declaration
	// order: the GTOa grammar (spec §4.3) has no syntax for a component
	// nested inside another component's braces (a component block holds
	// properties only), so Depth/child_level cannot be reflected in
	// bracket nesting here. Non-zero Depth still round-trips through the
	// binary codec; text output just can't express it structurally.
	for _, c := range obj.Components {
		writeComponent(b, c, 1)
	}

	b.WriteString("}\n")
}

func writeComponent(b *strings.Builder, c *model.Component, indent int) {
	writeIndent(b, indent)
	b.WriteString(quoteName(c.Name))

	if c.Interpretation != "" {
		b.WriteString(" as ")
		b.WriteString(quoteName(c.Interpretation))
	}

	b.WriteString(" {\n")

	for _, p := range c.Properties {
		writeProperty(b, p, indent+1)
	}

	writeIndent(b, indent)
	b.WriteString("}\n\n")
}

func writeProperty(b *strings.Builder, p *model.Property, indent int) {
	writeIndent(b, indent)
	b.WriteString(p.Kind.String())

	if p.Width > 1 {
		b.WriteString("[")
		b.WriteString(strconv.FormatUint(uint64(p.Width), 10))
		b.WriteString("]")
	}

	b.WriteString(" ")
	b.WriteString(quoteName(p.Name))

	if p.Interpretation != "" {
		b.WriteString(" as ")
		b.WriteString(quoteName(p.Interpretation))
	}

	b.WriteString(" = ")
	writeValue(b, p, indent)
	b.WriteString("\n")
}

// writeValue implements spec §4.5's array-formatting rules.
func writeValue(b *strings.Builder, p *model.Property, indent int) {
	n := p.Value.Len()
	width := int(p.Width)
	if width < 1 {
		width = 1
	}

	if p.Size == 1 && width == 1 {
		writeScalar(b, p, 0)

		return
	}

	if width <= 1 || n <= width {
		b.WriteString("[ ")
		for i := 0; i < n; i++ {
			writeScalar(b, p, i)
			b.WriteString(" ")
		}
		b.WriteString("]")

		return
	}

	groups := n / width
	multiline := groups > 4

	b.WriteString("[")
	if multiline {
		b.WriteString("\n")
	} else {
		b.WriteString(" ")
	}

	for g := 0; g < groups; g++ {
		if multiline {
			writeIndent(b, indent+1)
		}

		b.WriteString("[")
		for i := 0; i < width; i++ {
			b.WriteString(" ")
			writeScalar(b, p, g*width+i)
		}
		b.WriteString(" ]")

		if multiline {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	if multiline {
		writeIndent(b, indent)
	}
	b.WriteString("]")
}

func writeScalar(b *strings.Builder, p *model.Property, i int) {
	v := p.Value

	switch {
	case v.Ints != nil:
		b.WriteString(strconv.FormatInt(int64(v.Ints[i]), 10))

	case v.Int64s != nil:
		b.WriteString(strconv.FormatInt(v.Int64s[i], 10))

	case v.Shorts != nil:
		b.WriteString(strconv.FormatUint(uint64(v.Shorts[i]), 10))

	case v.Bytes != nil:
		b.WriteString(strconv.FormatUint(uint64(v.Bytes[i]), 10))

	case v.Bools != nil:
		if v.Bools[i] {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}

	case v.Floats != nil:
		writeFloat(b, float64(v.Floats[i]), 32)

	case v.Doubles != nil:
		writeFloat(b, v.Doubles[i], 64)

	case v.Halves != nil:
		writeFloat(b, half.ToFloat64(v.Halves[i]), 16)

	case v.Strings != nil:
		b.WriteString(quoteString(v.Strings[i]))
	}
}

func writeFloat(b *strings.Builder, f float64, bitSize int) {
	switch {
	case math.IsNaN(f):
		b.WriteString("nan")

		return
	case math.IsInf(f, 1):
		b.WriteString("inf")

		return
	case math.IsInf(f, -1):
		b.WriteString("-inf")

		return
	}

	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		b.WriteString(strconv.FormatFloat(f, 'f', 1, bitSize))

		return
	}

	b.WriteString(strconv.FormatFloat(f, 'g', -1, bitSize))
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}

func quoteName(s string) string {
	if isBareName(s) {
		return s
	}

	return quoteString(s)
}

func isBareName(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		case c == '-' || c == '.':
		default:
			return false
		}
	}

	return true
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte('"')

	return b.String()
}
