package playout

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvhowell/playout/internal/assert"
)

// renderer holds the mutable state the greedy solver threads through a
// single Render call: the column cursor, the nesting depth, the stack of
// pack marks (one per currently open [Pack] scope, innermost last), and
// which groups/sequences have already committed to breaking.
type renderer struct {
	indentWidth int
	bufferWidth int

	out       strings.Builder
	col       int
	indent    int   // cumulative Nest offset, in columns
	packMarks []int // -1 means "not yet set"

	brokenGroups map[int]bool
	brokenSeqs   map[int]bool
}

// packUnset marks a pack mark that has not yet seen its scope's first
// literal.
const packUnset = -1

// Render walks doc with a single greedy, width-directed pass, deciding at
// each [Glue] whether to emit a space (if Pad) or break into a newline
// with the scope's current indentation. It is a pure function of its
// arguments and never fails: an indentation too wide for bufferWidth still
// renders, simply overflowing the configured width rather than producing a
// negative column.
func Render(doc *Document, indentWidth, bufferWidth int) string {
	assert.That(indentWidth >= 0, "playout: Render indentWidth must be non-negative, got %d", indentWidth)
	assert.That(bufferWidth >= 0, "playout: Render bufferWidth must be non-negative, got %d", bufferWidth)

	r := &renderer{
		indentWidth:  indentWidth,
		bufferWidth:  bufferWidth,
		brokenGroups: make(map[int]bool),
		brokenSeqs:   make(map[int]bool),
	}
	for i, line := range doc.Lines {
		if i > 0 {
			r.hardBreak()
		}
		r.renderLine(line)
	}
	return r.out.String()
}

func (r *renderer) renderLine(items []Item) {
	for i, it := range items {
		switch v := it.(type) {
		case Lit:
			r.emitLit(v.Text)
		case IndentMark:
			r.applyIndent(v)
		case Glue:
			r.decideGlue(items, i, v)
		}
	}
}

func (r *renderer) emitLit(s string) {
	for i := range r.packMarks {
		if r.packMarks[i] == packUnset {
			r.packMarks[i] = r.col
		}
	}
	r.out.WriteString(s)
	r.col += len(s)
}

func (r *renderer) applyIndent(m IndentMark) {
	switch m.Kind {
	case IndentNest:
		r.indent = safeAdd(r.indent, m.Delta*r.indentWidth)
	case IndentPack:
		if m.Delta > 0 {
			r.packMarks = append(r.packMarks, packUnset)
		} else {
			r.packMarks = r.packMarks[:len(r.packMarks)-1]
		}
	}
}

// effectiveIndent is the column a fresh line starts at: the deeper of the
// current nest indentation and the innermost pack scope's recorded first-
// literal column (Open Question (b): overlapping Pack scopes, innermost
// wins).
func (r *renderer) effectiveIndent() int {
	indent := r.indent
	for i := len(r.packMarks) - 1; i >= 0; i-- {
		if r.packMarks[i] != packUnset {
			if r.packMarks[i] > indent {
				indent = r.packMarks[i]
			}
			break
		}
	}
	return indent
}

// safeAdd panics on integer overflow or underflow rather than silently
// wrapping, so a pathologically deep Nest chain fails loudly instead of
// corrupting the column math.
func safeAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		panic(fmt.Errorf("playout: overflow adding %d to %d", a, b))
	}
	if b < 0 && a < math.MinInt-b {
		panic(fmt.Errorf("playout: underflow adding %d to %d", a, b))
	}
	return a + b
}

func (r *renderer) hardBreak() {
	r.out.WriteByte('\n')
	indent := r.effectiveIndent()
	r.out.WriteString(strings.Repeat(" ", indent))
	r.col = indent
}

func (r *renderer) emitGlueSpace(g Glue) {
	if g.Pad {
		r.out.WriteByte(' ')
		r.col++
	}
}

// isForcedBroken reports whether g is already committed to breaking
// because its group or sequence has previously decided to break. A fixed
// glue (BreakAllowed false) is never "broken": rule 1 always glues it.
func (r *renderer) isForcedBroken(g Glue) bool {
	if !g.BreakAllowed {
		return false
	}
	if g.SeqID != 0 && r.brokenSeqs[g.SeqID] {
		return true
	}
	if g.GroupID != 0 && r.brokenGroups[g.GroupID] {
		return true
	}
	return false
}

// hasLeftOutsideSlack reports whether, among items[:idx] in the current
// line, there is a breakable glue whose group id differs from groupID.
// Per the resolution of Open Question (c), a glue inside a broken group is
// not forced to break while such outside slack remains (the width rule
// decides it instead), and is forced to break once it is exhausted.
func hasLeftOutsideSlack(items []Item, idx, groupID int) bool {
	for j := 0; j < idx; j++ {
		if g, ok := items[j].(Glue); ok && g.BreakAllowed && g.GroupID != groupID {
			return true
		}
	}
	return false
}

// runWidth computes the printed width of the "unbreakable run" following
// position start: literals and glues up to, but not including, the next
// glue that is both break_allowed and a genuine, scope-free decision point
// (group_id == 0 and seq_id == 0). A glue still inside a fresh or already-
// broken group/sequence is transparent to this scan — groups and
// sequences act as a single atomic unit to any lookahead outside
// themselves, which is what lets them defer their own breaking decision
// until they are actually reached. Its pad cost is added only if it will
// not itself break.
func runWidth(items []Item, start int, r *renderer) int {
	w := 0
	for j := start; j < len(items); j++ {
		switch it := items[j].(type) {
		case Lit:
			w += len(it.Text)
		case IndentMark:
			// carries no width
		case Glue:
			plain := it.GroupID == 0 && it.SeqID == 0
			if it.BreakAllowed && plain {
				return w
			}
			if !r.isForcedBroken(it) && it.Pad {
				w++
			}
		}
	}
	return w
}

// decideGlue implements the five ordered rules of the greedy fit decision.
func (r *renderer) decideGlue(items []Item, idx int, g Glue) {
	// Rule 1: fixed glues always glue.
	if !g.BreakAllowed {
		r.emitGlueSpace(g)
		return
	}
	// Rule 2: a glue in an already-broken sequence always breaks.
	if g.SeqID != 0 && r.brokenSeqs[g.SeqID] {
		r.hardBreak()
		return
	}
	// Rule 3: a glue in an already-broken group breaks once outside
	// slack on the current line is exhausted.
	if g.GroupID != 0 && r.brokenGroups[g.GroupID] && !hasLeftOutsideSlack(items, idx, g.GroupID) {
		r.hardBreak()
		return
	}
	// Rule 4/5: decide by width. The run starting just past this glue
	// must still fit in what remains of the buffer, including this
	// glue's own pad cost if it stays glued.
	pad := 0
	if g.Pad {
		pad = 1
	}
	remaining := r.bufferWidth - r.col - pad
	w := runWidth(items, idx+1, r)
	// Tie-break: an empty run never forces a break — there is nothing to
	// gain from it, even if remaining is already negative.
	if w > 0 && w > remaining {
		if g.SeqID != 0 {
			r.brokenSeqs[g.SeqID] = true
		}
		if g.GroupID != 0 {
			r.brokenGroups[g.GroupID] = true
		}
		r.hardBreak()
		return
	}
	r.emitGlueSpace(g)
}
