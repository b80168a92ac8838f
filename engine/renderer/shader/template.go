package shader

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// template is the implementation of the Template interface.
type template struct {
	name  string
	lines []string

	// slotLines maps each declared slot name to its 0-based line index.
	slotLines map[string]int
	slotOrder []string
}

// Template is a WGSL program skeleton with named insertion points declared by
// //@oxy:slot annotations. A material variant produces its program by filling every slot,
// instead of splicing text into a base program at hard-coded markers.
type Template interface {
	// Name returns the template's identifier.
	//
	// Returns:
	//   - string: the template name
	Name() string

	// Slots returns the declared slot names in source order.
	//
	// Returns:
	//   - []string: the slot names
	Slots() []string

	// NewProgram starts assembling a program from this template.
	//
	// Returns:
	//   - ProgramBuilder: a builder with every slot unfilled
	NewProgram() ProgramBuilder
}

// ProgramBuilder assembles one complete program text from a Template.
type ProgramBuilder interface {
	// Fill supplies the WGSL code for a slot. Filling a slot the template does not declare
	// is reported by Build.
	//
	// Parameters:
	//   - slot: the slot name
	//   - code: the WGSL code inserted in place of the slot annotation
	//
	// Returns:
	//   - ProgramBuilder: the same builder for chaining
	Fill(slot, code string) ProgramBuilder

	// Build returns the assembled program text.
	//
	// Returns:
	//   - string: the program with every slot replaced
	//   - error: ErrUnknownSlot or ErrUnfilledSlot (wrapped) when the fills do not match the slots
	Build() (string, error)
}

var _ Template = &template{}

// NewTemplate parses source for slot annotations. Other @oxy annotations are left for the
// PreProcessor.
//
// Parameters:
//   - name: identifier used in error messages
//   - source: the WGSL template text
//
// Returns:
//   - Template: the parsed template
//   - error: an error if an annotation is malformed or a slot is declared twice
func NewTemplate(name, source string) (Template, error) {
	t := &template{
		name:      name,
		lines:     strings.Split(source, "\n"),
		slotLines: make(map[string]int),
	}
	for i, line := range t.lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		if a == nil || a.Type != AnnotationTypeSlot {
			continue
		}
		slot := string(a.Args[0])
		if _, dup := t.slotLines[slot]; dup {
			return nil, fmt.Errorf("template %s: line %d: slot %q declared twice", name, a.Line, slot)
		}
		t.slotLines[slot] = i
		t.slotOrder = append(t.slotOrder, slot)
	}
	return t, nil
}

func (t *template) Name() string {
	return t.name
}

func (t *template) Slots() []string {
	return slices.Clone(t.slotOrder)
}

func (t *template) NewProgram() ProgramBuilder {
	return &programBuilder{template: t, fills: make(map[string]string)}
}

// programBuilder is the implementation of the ProgramBuilder interface.
type programBuilder struct {
	template *template
	fills    map[string]string
	unknown  []string
}

func (b *programBuilder) Fill(slot, code string) ProgramBuilder {
	if _, ok := b.template.slotLines[slot]; !ok {
		b.unknown = append(b.unknown, slot)
		return b
	}
	b.fills[slot] = code
	return b
}

func (b *programBuilder) Build() (string, error) {
	var errs []error
	for _, slot := range b.unknown {
		errs = append(errs, fmt.Errorf("template %s: %q: %w", b.template.name, slot, ErrUnknownSlot))
	}
	for _, slot := range b.template.slotOrder {
		if _, ok := b.fills[slot]; !ok {
			errs = append(errs, fmt.Errorf("template %s: %q: %w", b.template.name, slot, ErrUnfilledSlot))
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	out := slices.Clone(b.template.lines)
	for slot, idx := range b.template.slotLines {
		out[idx] = b.fills[slot]
	}
	return strings.Join(out, "\n"), nil
}
