package text

import (
	"math"
	"strconv"

	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/half"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/types"
)

// Read parses a complete GTOa text document into a model.File. String-kind
// property values are kept as the literal text itself; a Write call later
// interns them into its own string table at encode time (spec §4.3).
func Read(src string) (*model.File, error) {
	p := &parser{lex: newLexer(src)}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.parseFile()
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}

	p.tok = t

	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.tok.Kind != k {
		return token{}, errs.AtLineCol(errs.ErrUnexpectedToken, p.tok.Line, p.tok.Col, "expected "+what)
	}

	t := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}

	return t, nil
}

func (p *parser) parseFile() (*model.File, error) {
	head, err := p.expect(tokIdent, "\"GTOa\"")
	if err != nil {
		return nil, err
	}
	if head.Text != "GTOa" {
		return nil, errs.AtLineCol(errs.ErrUnexpectedToken, head.Line, head.Col, "expected GTOa signature")
	}

	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}

	verTok, err := p.expect(tokInt, "version integer")
	if err != nil {
		return nil, err
	}
	version, err := strconv.ParseUint(verTok.Text, 10, 32)
	if err != nil {
		return nil, errs.AtLineCol(errs.ErrSyntax, verTok.Line, verTok.Col, "invalid version")
	}

	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}

	f := &model.File{Version: uint32(version)}

	for p.tok.Kind != tokEOF {
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}

		f.Objects = append(f.Objects, obj)
	}

	return f, nil
}

func (p *parser) parseName() (string, error) {
	switch p.tok.Kind {
	case tokIdent:
		t := p.tok
		if err := p.advance(); err != nil {
			return "", err
		}

		return t.Text, nil

	case tokString:
		t := p.tok
		if err := p.advance(); err != nil {
			return "", err
		}

		return t.Text, nil

	default:
		return "", errs.AtLineCol(errs.ErrUnexpectedToken, p.tok.Line, p.tok.Col, "expected name")
	}
}

func (p *parser) parseObject() (*model.Object, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokColon, ":"); err != nil {
		return nil, err
	}

	protocol, err := p.parseName()
	if err != nil {
		return nil, err
	}

	var version uint32
	if p.tok.Kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}

		verTok, err := p.expect(tokInt, "protocol version integer")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(verTok.Text, 10, 32)
		if err != nil {
			return nil, errs.AtLineCol(errs.ErrSyntax, verTok.Line, verTok.Col, "invalid protocol version")
		}
		version = uint32(v)

		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
	}

	obj := &model.Object{Name: name, Protocol: protocol, ProtocolVersion: version}

	if _, err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}

	for p.tok.Kind != tokRBrace {
		comp, err := p.parseComponent()
		if err != nil {
			return nil, err
		}

		obj.Components = append(obj.Components, comp)
	}

	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}

	return obj, nil
}

func (p *parser) parseComponent() (*model.Component, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	comp := &model.Component{Name: name}

	if p.tok.Kind == tokIdent && p.tok.Text == "as" {
		if err := p.advance(); err != nil {
			return nil, err
		}

		interp, err := p.parseName()
		if err != nil {
			return nil, err
		}

		comp.Interpretation = interp
	}

	if _, err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}

	for p.tok.Kind != tokRBrace {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}

		comp.Properties = append(comp.Properties, prop)
	}

	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}

	return comp, nil
}

func (p *parser) parseProperty() (*model.Property, error) {
	typeTok, err := p.expect(tokIdent, "property type")
	if err != nil {
		return nil, err
	}

	kind, ok := types.ParseDataType(typeTok.Text)
	if !ok {
		return nil, errs.AtLineCol(errs.ErrUnknownType, typeTok.Line, typeTok.Col, typeTok.Text)
	}

	width := uint32(1)
	if p.tok.Kind == tokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}

		wTok, err := p.expect(tokInt, "width integer")
		if err != nil {
			return nil, err
		}
		w, err := strconv.ParseUint(wTok.Text, 10, 32)
		if err != nil {
			return nil, errs.AtLineCol(errs.ErrSyntax, wTok.Line, wTok.Col, "invalid width")
		}
		width = uint32(w)

		if _, err := p.expect(tokRBracket, "]"); err != nil {
			return nil, err
		}
	}

	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	prop := &model.Property{Name: name, Kind: kind, Width: width, Dims: model.NewScalarDims()}

	if p.tok.Kind == tokIdent && p.tok.Text == "as" {
		if err := p.advance(); err != nil {
			return nil, err
		}

		interp, err := p.parseName()
		if err != nil {
			return nil, err
		}

		prop.Interpretation = interp
	}

	if _, err := p.expect(tokEquals, "="); err != nil {
		return nil, err
	}

	if err := p.parseValue(prop); err != nil {
		return nil, err
	}

	return prop, nil
}

// parseValue implements spec §4.3's value grammar, inferring Size from the
// number of elements encountered (groups when Width > 1, scalars
// otherwise) per spec §4.3 and the "size inference" testable property of
// §8.
func (p *parser) parseValue(prop *model.Property) error {
	if p.tok.Kind != tokLBracket {
		// Bare scalar: only legal when width == 1 (size is always 1 here).
		if prop.Width > 1 {
			return errs.AtLineCol(errs.ErrWidthMismatch, p.tok.Line, p.tok.Col, "scalar value for width > 1 property")
		}

		scalars, err := p.parseScalarList(1)
		if err != nil {
			return err
		}

		prop.Size = 1

		return p.assignScalars(prop, scalars)
	}

	if err := p.advance(); err != nil {
		return err
	}

	var flat []token

	groups := 0
	sawGroup := false
	sawFlat := false

	for p.tok.Kind != tokRBracket {
		if p.tok.Kind == tokLBracket {
			sawGroup = true

			if err := p.advance(); err != nil {
				return err
			}

			var group []token
			for p.tok.Kind != tokRBracket {
				t, err := p.nextScalarToken()
				if err != nil {
					return err
				}

				group = append(group, t)
			}
			if _, err := p.expect(tokRBracket, "]"); err != nil {
				return err
			}

			if prop.Width > 0 && uint32(len(group)) != prop.Width {
				return errs.AtLineCol(errs.ErrWidthMismatch, p.tok.Line, p.tok.Col, "group size does not match width")
			}

			flat = append(flat, group...)
			groups++

			continue
		}

		sawFlat = true

		t, err := p.nextScalarToken()
		if err != nil {
			return err
		}

		flat = append(flat, t)
	}

	if _, err := p.expect(tokRBracket, "]"); err != nil {
		return err
	}

	if sawGroup && sawFlat {
		return errs.AtLineCol(errs.ErrUnexpectedToken, p.tok.Line, p.tok.Col, "mixed grouped and flat values")
	}

	width := prop.Width
	if width == 0 {
		width = 1
	}

	if len(flat)%int(width) != 0 {
		return errs.AtLineCol(errs.ErrWidthMismatch, p.tok.Line, p.tok.Col, "value count not divisible by width")
	}

	if sawGroup {
		prop.Size = uint32(groups)
	} else {
		prop.Size = uint32(len(flat)) / width
	}

	return p.assignScalars(prop, flat)
}

// parseScalarList reads exactly n scalar tokens with no surrounding
// brackets (the bare-scalar case, always n == 1).
func (p *parser) parseScalarList(n int) ([]token, error) {
	out := make([]token, 0, n)
	for i := 0; i < n; i++ {
		t, err := p.nextScalarToken()
		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	return out, nil
}

// nextScalarToken consumes and returns one scalar literal: a number,
// quoted string, or the bareword forms "nan"/"inf"/"-inf" used for
// floating-point special values (spec §4.3's scalar rule, extended to
// match the half-float NaN/Inf scenario of spec §8).
func (p *parser) nextScalarToken() (token, error) {
	switch p.tok.Kind {
	case tokInt, tokFloat, tokString:
		t := p.tok
		if err := p.advance(); err != nil {
			return token{}, err
		}

		return t, nil

	case tokIdent:
		switch p.tok.Text {
		case "nan", "inf", "-inf":
			t := p.tok
			if err := p.advance(); err != nil {
				return token{}, err
			}

			return t, nil
		}
	}

	return token{}, errs.AtLineCol(errs.ErrUnexpectedToken, p.tok.Line, p.tok.Col, "expected value")
}

// assignScalars converts the raw tokens into prop.Value, dispatching on
// prop.Kind. String-kind literals are stored verbatim; interning happens
// later, at whichever codec's wire boundary re-encodes this model.
func (p *parser) assignScalars(prop *model.Property, toks []token) error {
	n := len(toks)

	switch prop.Kind {
	case types.Int:
		out := make([]int32, n)
		for i, t := range toks {
			v, err := strconv.ParseInt(t.Text, 10, 32)
			if err != nil {
				return errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid int literal")
			}
			out[i] = int32(v)
		}
		prop.Value.Ints = out

	case types.Int64:
		out := make([]int64, n)
		for i, t := range toks {
			v, err := strconv.ParseInt(t.Text, 10, 64)
			if err != nil {
				return errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid int64 literal")
			}
			out[i] = v
		}
		prop.Value.Int64s = out

	case types.Short:
		out := make([]uint16, n)
		for i, t := range toks {
			v, err := strconv.ParseUint(t.Text, 10, 16)
			if err != nil {
				return errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid short literal")
			}
			out[i] = uint16(v)
		}
		prop.Value.Shorts = out

	case types.Byte:
		out := make([]byte, n)
		for i, t := range toks {
			v, err := strconv.ParseUint(t.Text, 10, 8)
			if err != nil {
				return errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid byte literal")
			}
			out[i] = byte(v)
		}
		prop.Value.Bytes = out

	case types.Bool:
		out := make([]bool, n)
		for i, t := range toks {
			v, err := strconv.ParseInt(t.Text, 10, 64)
			if err != nil {
				return errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid bool literal")
			}
			out[i] = v != 0
		}
		prop.Value.Bools = out

	case types.Float:
		out := make([]float32, n)
		for i, t := range toks {
			f, err := parseFloatLiteral(t)
			if err != nil {
				return err
			}
			out[i] = float32(f)
		}
		prop.Value.Floats = out

	case types.Double:
		out := make([]float64, n)
		for i, t := range toks {
			f, err := parseFloatLiteral(t)
			if err != nil {
				return err
			}
			out[i] = f
		}
		prop.Value.Doubles = out

	case types.Half:
		out := make([]uint16, n)
		for i, t := range toks {
			f, err := parseFloatLiteral(t)
			if err != nil {
				return err
			}
			out[i] = halfFromFloat64(f)
		}
		prop.Value.Halves = out

	case types.String:
		out := make([]string, n)
		for i, t := range toks {
			if t.Kind != tokString {
				return errs.AtLineCol(errs.ErrUnexpectedToken, t.Line, t.Col, "expected quoted string")
			}
			out[i] = t.Text
		}
		prop.Value.Strings = out

	default:
		return errs.ErrUnknownType
	}

	return nil
}

func halfFromFloat64(f float64) uint16 {
	return half.FromFloat64(f)
}

func parseFloatLiteral(t token) (float64, error) {
	switch t.Text {
	case "nan":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}

	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, errs.AtLineCol(errs.ErrSyntax, t.Line, t.Col, "invalid float literal")
	}

	return f, nil
}
