package binary

import (
	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/internal/options"
	"github.com/gto-format/gto/model"
)

// WriterOption configures a Writer at construction time, following the
// teacher package's generic functional-options pattern (see
// internal/options/options.go).
type WriterOption = options.Option[*Writer]

// WithEngine selects the byte order Close will use to lay out bytes. The
// default, if this option is never supplied, is little-endian.
func WithEngine(engine Engine) WriterOption {
	return options.NoError(func(w *Writer) {
		w.engine = engine
	})
}

// writerState is the incremental Writer's phase, per spec §9:
// {Initial, InObject, InComponent, Closed}.
type writerState int

const (
	stateInitial writerState = iota
	stateInObject
	stateInComponent
	stateClosed
)

// Writer is the incremental binary-writer API (spec §4.4): BeginObject,
// BeginComponent, Property, EndComponent, EndObject, Close, each legal only
// in specific states. Calling a method outside its legal state returns
// errs.ErrStateViolation and leaves the Writer's accumulated model
// untouched. Close runs the structural Write over everything accumulated
// so far, guaranteeing byte-identical output to building the same
// model.File and calling Write directly (spec §4.4: "both forms produce
// identical bytes for equivalent inputs").
type Writer struct {
	state   writerState
	file    *model.File
	curObj  *model.Object
	curComp *model.Component
	engine  Engine
}

// NewWriter returns a Writer ready to accept BeginObject, emitting
// little-endian output on Close unless overridden with WithEngine.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{
		state:  stateInitial,
		file:   model.New(),
		engine: littleEndianDefault,
	}

	// The options currently defined (WithEngine) never fail; Apply's error
	// return exists for future validating options.
	_ = options.Apply[*Writer](w, opts...)

	return w
}

// NewWriterEngine is a convenience constructor equivalent to
// NewWriter(WithEngine(engine)); a nil engine defaults to little-endian.
func NewWriterEngine(engine Engine) *Writer {
	if engine == nil {
		return NewWriter()
	}

	return NewWriter(WithEngine(engine))
}

// BeginObject starts a new object; legal only from Initial.
func (w *Writer) BeginObject(name, protocol string, protocolVersion uint32) error {
	if w.state != stateInitial {
		return errs.ErrStateViolation
	}

	w.curObj = &model.Object{Name: name, Protocol: protocol, ProtocolVersion: protocolVersion}
	w.state = stateInObject

	return nil
}

// EndObject closes the current object; legal only from InObject.
func (w *Writer) EndObject() error {
	if w.state != stateInObject {
		return errs.ErrStateViolation
	}

	w.file.Objects = append(w.file.Objects, w.curObj)
	w.curObj = nil
	w.state = stateInitial

	return nil
}

// BeginComponent starts a component inside the current object; legal only
// from InObject. depth is the component's child_level (spec §9); pass 0
// for a flat, non-nested component.
func (w *Writer) BeginComponent(name, interpretation string, depth uint32) error {
	if w.state != stateInObject {
		return errs.ErrStateViolation
	}

	w.curComp = &model.Component{Name: name, Interpretation: interpretation, Depth: depth}
	w.state = stateInComponent

	return nil
}

// EndComponent closes the current component; legal only from InComponent.
func (w *Writer) EndComponent() error {
	if w.state != stateInComponent {
		return errs.ErrStateViolation
	}

	w.curObj.Components = append(w.curObj.Components, w.curComp)
	w.curComp = nil
	w.state = stateInObject

	return nil
}

// Property appends a fully-populated property to the current component;
// legal only from InComponent.
func (w *Writer) Property(p *model.Property) error {
	if w.state != stateInComponent {
		return errs.ErrStateViolation
	}

	if err := p.Validate(); err != nil {
		return err
	}

	w.curComp.Properties = append(w.curComp.Properties, p)

	return nil
}

// Close finalizes the writer and returns the binary encoding of everything
// accumulated. Legal from any state except Closed itself; Close always
// transitions to Closed regardless of prior state, matching spec §9's
// "any -> Closed (close)".
func (w *Writer) Close() ([]byte, error) {
	if w.state == stateClosed {
		return nil, errs.ErrStateViolation
	}

	w.state = stateClosed

	return WriteEngine(w.file, w.engine)
}

// State reports the writer's current phase, for tests that assert on the
// state machine directly (spec §8: "writer state machine" property).
func (w *Writer) State() string {
	switch w.state {
	case stateInitial:
		return "Initial"
	case stateInObject:
		return "InObject"
	case stateInComponent:
		return "InComponent"
	case stateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
