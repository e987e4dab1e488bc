package playout

// IndentKind distinguishes the two sources of indentation an IndentMark can
// carry: a fixed per-level offset (Nest) or an offset pinned to the column
// of a scope's first literal (Pack).
type IndentKind int

const (
	IndentNest IndentKind = iota
	IndentPack
)

func (k IndentKind) String() string {
	switch k {
	case IndentNest:
		return "nest"
	case IndentPack:
		return "pack"
	default:
		return "unknown"
	}
}

// Item is one element of a Document line: a [Lit], a [Glue], or an
// [IndentMark]. Item is a closed tagged union; [Render] is the only code
// that switches over its concrete type.
type Item interface {
	itemNode()
}

// Lit is an opaque literal fragment, copied verbatim to the output.
type Lit struct {
	Text string
}

func (Lit) itemNode() {}

// Glue is the canonical form of a [Comp] seam: a point where the renderer
// decides, by width, whether to emit a single space (if Pad) or a newline.
// GroupID and SeqID name the enclosing [Grp]/[Seq] scope the seam was
// resolved into by the compiler's group/sequence pass; 0 means no scope.
type Glue struct {
	Pad          bool
	BreakAllowed bool
	GroupID      int
	SeqID        int
}

func (Glue) itemNode() {}

// IndentMark marks entry (Delta == +1) or exit (Delta == -1) of a [Nest] or
// [Pack] scope. Every +1 in a Document is matched by a -1 of the same Kind
// at the same nesting depth.
type IndentMark struct {
	Delta int
	Kind  IndentKind
}

func (IndentMark) itemNode() {}

// Document is the canonical, width-independent intermediate representation
// [Compile] produces and [Render] consumes: an ordered list of lines, each
// an ordered list of items. Adjacent literals within a line are always
// separated by exactly one [Glue]; no line begins or ends with a [Glue].
type Document struct {
	Lines [][]Item
}
