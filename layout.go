package playout

// Layout is the input intermediate representation: an immutable tree of text
// fragments glued by typed composition operators and annotated with
// grouping, sequencing, and indentation controls. Layout values are built by
// the pure constructors in this file and consumed, once, by [Compile].
//
// Layout is a closed tagged union; Null, Text, Fix, Grp, Seq, Nest, Pack,
// Line and Comp are its only variants, and [Compile] is the only code that
// switches over the concrete type.
type Layout interface {
	layoutNode()
}

type nullLayout struct{}

func (nullLayout) layoutNode() {}

type textLayout struct {
	s string
}

func (textLayout) layoutNode() {}

type fixLayout struct {
	l Layout
}

func (fixLayout) layoutNode() {}

type grpLayout struct {
	l Layout
}

func (grpLayout) layoutNode() {}

type seqLayout struct {
	l Layout
}

func (seqLayout) layoutNode() {}

type nestLayout struct {
	l Layout
}

func (nestLayout) layoutNode() {}

type packLayout struct {
	l Layout
}

func (packLayout) layoutNode() {}

type lineLayout struct {
	a, b Layout
}

func (lineLayout) layoutNode() {}

type compLayout struct {
	a, b     Layout
	pad, fix bool
}

func (compLayout) layoutNode() {}

// Null returns the neutral Layout element. It is absorbed by [Comp] and
// eliminated entirely before [Render] ever sees it.
func Null() Layout {
	return nullLayout{}
}

// Text returns a Layout wrapping an opaque, non-empty string treated as a
// single atom whose width is len(s). It fails with [InvalidInput] if s is
// empty; author an empty fragment as [Null] instead.
func Text(s string) (Layout, error) {
	if s == "" {
		return nil, &InvalidInput{Reason: "text literal must not be empty"}
	}
	return textLayout{s: s}, nil
}

// Fix marks l as inline: every composition inside l behaves as if
// unbreakable, regardless of width.
func Fix(l Layout) Layout {
	return fixLayout{l: l}
}

// Grp marks l as a group: the solver prefers to keep l's content on one
// line, deferring in-group breaking for as long as there is still earlier,
// non-group slack on the current line (see [Render]).
func Grp(l Layout) Layout {
	return grpLayout{l: l}
}

// Seq marks l as a sequence: once any breakable composition inside l
// breaks, every breakable composition inside l must break.
func Seq(l Layout) Layout {
	return seqLayout{l: l}
}

// Nest increases the indentation level by one for the scope of l. The
// column offset added per level is the indent_width argument to [Render].
func Nest(l Layout) Layout {
	return nestLayout{l: l}
}

// Pack marks l as pack-indented: indentation inside l is the maximum of the
// current nest indent and the column at which l's first literal was
// emitted.
func Pack(l Layout) Layout {
	return packLayout{l: l}
}

// Line introduces a hard line break between a and b: it always renders as a
// newline followed by the current indentation, independent of width.
func Line(a, b Layout) Layout {
	return lineLayout{a: a, b: b}
}

// Comp composes a and b with a soft, width-directed seam. pad controls
// whether an unbroken seam emits a single space; fix marks the seam itself
// (not its operands) as unbreakable, equivalent to wrapping just that seam
// in [Fix] but cheaper to express.
func Comp(a, b Layout, pad, fix bool) Layout {
	return compLayout{a: a, b: b, pad: pad, fix: fix}
}
