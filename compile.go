package playout

import "github.com/dvhowell/playout/internal/assert"

// defaultDepthLimit bounds recursion so that well-formed inputs nested
// thousands of levels deep compile successfully while a runaway or
// adversarial Layout fails with [StackOverflow] instead of overflowing the
// goroutine stack.
const defaultDepthLimit = 10000

// wkind discriminates the compiler's internal working-tree node. Null has
// no kind of its own: P1 eliminates it by returning a nil *wnode wherever a
// [Null] would otherwise appear, so "absence of a subtree" and "the empty
// Layout" are the same representation for the rest of the pipeline.
type wkind int

const (
	wText wkind = iota
	wFix
	wGrp
	wSeq
	wNest
	wPack
	wLine
	wComp
)

// wnode is the compiler's working-tree node, allocated from the arena
// belonging to whichever pass produced it. fix and pad only apply to
// wComp; groupID and seqID are filled in by resolveScopes (P4) and are
// zero (no scope) until then.
type wnode struct {
	kind     wkind
	text     string
	a, b     *wnode
	pad, fix bool
	groupID  int
	seqID    int
}

// idAllocator hands out the monotonically increasing, non-zero scope ids
// resolveScopes assigns to [Grp]/[Seq] nodes.
type idAllocator struct {
	next int
}

func (ids *idAllocator) fresh() int {
	ids.next++
	return ids.next
}

type compiler struct {
	limit int
}

func depthCheck(depth, limit int) error {
	if depth > limit {
		return &StackOverflow{Depth: depth, Limit: limit}
	}
	return nil
}

// Compile rewrites l into a canonical [Document] by running it through the
// compiler's five passes in turn: denull, fix propagation, linearisation,
// group/sequence resolution, and canonicalisation. It uses the default
// recursion depth budget; use [CompileWithDepth] to raise or lower it.
func Compile(l Layout) (*Document, error) {
	return CompileWithDepth(l, defaultDepthLimit)
}

// CompileWithDepth behaves like [Compile] but fails with [StackOverflow]
// once a pass's recursion exceeds limit, rather than risking a stack
// overflow. limit must be positive. Each pass consumes its predecessor's
// output tree from a scoped arena and produces a fresh tree in its own
// arena; the predecessor's arena is released as soon as its output has
// been consumed, so at most two passes' worth of nodes are live at once.
func CompileWithDepth(l Layout, limit int) (*Document, error) {
	assert.That(limit > 0, "playout: CompileWithDepth limit must be positive, got %d", limit)
	c := &compiler{limit: limit}

	a1 := newArena[wnode]()
	t1, err := c.denull(a1, l, 1)
	if err != nil {
		return nil, err
	}

	a2 := newArena[wnode]()
	t2, err := c.propagateFix(a2, t1, false, 1)
	a1.release()
	if err != nil {
		return nil, err
	}

	a3 := newArena[wnode]()
	t3, err := c.linearise(a3, t2, 1)
	a2.release()
	if err != nil {
		return nil, err
	}

	a4 := newArena[wnode]()
	t4, err := c.resolveScopes(a4, t3, 0, 0, &idAllocator{}, 1)
	a3.release()
	if err != nil {
		return nil, err
	}

	doc, err := c.canonicalise(t4, 1)
	a4.release()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// denull is P1: it rewrites the user-authored Layout tree into the
// compiler's working representation, eliminating [Null] everywhere it
// occurs. A [Comp] absorbs a Null operand by collapsing to the other
// operand; every other wrapper collapses to Null (nil) if its body does.
// [Line] is the exception: it is always preserved, even with a nil side,
// so that line(Null, X) still renders its intended leading blank line.
func (c *compiler) denull(a *arena[wnode], l Layout, depth int) (*wnode, error) {
	if err := depthCheck(depth, c.limit); err != nil {
		return nil, err
	}
	switch n := l.(type) {
	case nullLayout:
		return nil, nil
	case textLayout:
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wText
		w.text = n.s
		return w, nil
	case fixLayout:
		body, err := c.denull(a, n.l, depth+1)
		if err != nil || body == nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wFix
		w.a = body
		return w, nil
	case grpLayout:
		body, err := c.denull(a, n.l, depth+1)
		if err != nil || body == nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wGrp
		w.a = body
		return w, nil
	case seqLayout:
		body, err := c.denull(a, n.l, depth+1)
		if err != nil || body == nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wSeq
		w.a = body
		return w, nil
	case nestLayout:
		body, err := c.denull(a, n.l, depth+1)
		if err != nil || body == nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wNest
		w.a = body
		return w, nil
	case packLayout:
		body, err := c.denull(a, n.l, depth+1)
		if err != nil || body == nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wPack
		w.a = body
		return w, nil
	case lineLayout:
		la, err := c.denull(a, n.a, depth+1)
		if err != nil {
			return nil, err
		}
		lb, err := c.denull(a, n.b, depth+1)
		if err != nil {
			return nil, err
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wLine
		w.a, w.b = la, lb
		return w, nil
	case compLayout:
		ca, err := c.denull(a, n.a, depth+1)
		if err != nil {
			return nil, err
		}
		cb, err := c.denull(a, n.b, depth+1)
		if err != nil {
			return nil, err
		}
		if ca == nil {
			return cb, nil
		}
		if cb == nil {
			return ca, nil
		}
		w, err := a.alloc()
		if err != nil {
			return nil, err
		}
		w.kind = wComp
		w.a, w.b = ca, cb
		w.pad, w.fix = n.pad, n.fix
		return w, nil
	default:
		assert.That(false, "playout: unreachable Layout variant %T", l)
		return nil, nil
	}
}

// propagateFix is P2: it absorbs every [Fix] scope into the fix flag of
// the [Comp] nodes it dominates and removes the wFix wrapper entirely.
// forced carries whether we are currently inside a Fix scope; entering a
// nested wFix sets forced unconditionally (Fix is idempotent: fixing an
// already-fixed scope changes nothing further). A [Comp] node's own fix
// flag becomes fix||forced. A hard [Line] encountered while forced is an
// [InvalidInput]: a Line cannot be made to behave as unbreakable.
func (c *compiler) propagateFix(a *arena[wnode], w *wnode, forced bool, depth int) (*wnode, error) {
	if w == nil {
		return nil, nil
	}
	if err := depthCheck(depth, c.limit); err != nil {
		return nil, err
	}
	switch w.kind {
	case wText:
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wText
		out.text = w.text
		return out, nil
	case wFix:
		return c.propagateFix(a, w.a, true, depth+1)
	case wComp:
		ca, err := c.propagateFix(a, w.a, forced, depth+1)
		if err != nil {
			return nil, err
		}
		cb, err := c.propagateFix(a, w.b, forced, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wComp
		out.a, out.b = ca, cb
		out.pad = w.pad
		out.fix = w.fix || forced
		return out, nil
	case wLine:
		if forced {
			return nil, &InvalidInput{Reason: "hard line break authored inside a fix scope"}
		}
		la, err := c.propagateFix(a, w.a, forced, depth+1)
		if err != nil {
			return nil, err
		}
		lb, err := c.propagateFix(a, w.b, forced, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wLine
		out.a, out.b = la, lb
		return out, nil
	case wGrp, wSeq, wNest, wPack:
		body, err := c.propagateFix(a, w.a, forced, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = w.kind
		out.a = body
		return out, nil
	default:
		assert.That(false, "playout: unreachable wkind %d in propagateFix", w.kind)
		return nil, nil
	}
}

type seam struct {
	pad, fix bool
}

// linearise is P3: it re-associates every maximal chain of left-nested
// [Comp] nodes into a right-associated chain, preserving each seam's pad
// and fix attributes in their original left-to-right order. This makes the
// resulting shape independent of how the caller happened to associate
// their [Comp] calls.
func (c *compiler) linearise(a *arena[wnode], w *wnode, depth int) (*wnode, error) {
	if w == nil {
		return nil, nil
	}
	if err := depthCheck(depth, c.limit); err != nil {
		return nil, err
	}
	switch w.kind {
	case wText:
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wText
		out.text = w.text
		return out, nil
	case wLine:
		la, err := c.linearise(a, w.a, depth+1)
		if err != nil {
			return nil, err
		}
		lb, err := c.linearise(a, w.b, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wLine
		out.a, out.b = la, lb
		return out, nil
	case wGrp, wSeq, wNest, wPack:
		body, err := c.linearise(a, w.a, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = w.kind
		out.a = body
		return out, nil
	case wComp:
		operands, seams, err := c.flattenChain(a, w, depth+1)
		if err != nil {
			return nil, err
		}
		return rebuildChain(a, operands, seams)
	default:
		assert.That(false, "playout: unreachable wkind %d in linearise", w.kind)
		return nil, nil
	}
}

// flattenChain collects the operands and seams of the maximal left-comp
// chain rooted at w: it follows w.a as long as it is itself a wComp,
// recording each seam, and fully linearises every operand it bottoms out
// at (which may itself be an independent chain nested on some w.b).
func (c *compiler) flattenChain(a *arena[wnode], w *wnode, depth int) ([]*wnode, []seam, error) {
	if err := depthCheck(depth, c.limit); err != nil {
		return nil, nil, err
	}
	if w.kind != wComp {
		atom, err := c.linearise(a, w, depth+1)
		if err != nil {
			return nil, nil, err
		}
		return []*wnode{atom}, nil, nil
	}
	operands, seams, err := c.flattenChain(a, w.a, depth+1)
	if err != nil {
		return nil, nil, err
	}
	right, err := c.linearise(a, w.b, depth+1)
	if err != nil {
		return nil, nil, err
	}
	operands = append(operands, right)
	seams = append(seams, seam{pad: w.pad, fix: w.fix})
	return operands, seams, nil
}

func rebuildChain(a *arena[wnode], operands []*wnode, seams []seam) (*wnode, error) {
	n := len(operands)
	result := operands[n-1]
	for i := n - 2; i >= 0; i-- {
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wComp
		out.a, out.b = operands[i], result
		out.pad, out.fix = seams[i].pad, seams[i].fix
		result = out
	}
	return result, nil
}

// resolveScopes is P4: it assigns each [Grp]/[Seq] node a fresh, unique,
// non-zero id and propagates it down to every [Comp] it dominates, with an
// inner scope overriding the enclosing id of the same kind. After this
// pass no wnode of kind wGrp or wSeq exists; their effect is entirely
// captured by groupID/seqID on the Comp nodes they used to wrap.
func (c *compiler) resolveScopes(a *arena[wnode], w *wnode, group, seqID int, ids *idAllocator, depth int) (*wnode, error) {
	if w == nil {
		return nil, nil
	}
	if err := depthCheck(depth, c.limit); err != nil {
		return nil, err
	}
	switch w.kind {
	case wText:
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wText
		out.text = w.text
		return out, nil
	case wComp:
		ca, err := c.resolveScopes(a, w.a, group, seqID, ids, depth+1)
		if err != nil {
			return nil, err
		}
		cb, err := c.resolveScopes(a, w.b, group, seqID, ids, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wComp
		out.a, out.b = ca, cb
		out.pad, out.fix = w.pad, w.fix
		out.groupID, out.seqID = group, seqID
		return out, nil
	case wLine:
		la, err := c.resolveScopes(a, w.a, group, seqID, ids, depth+1)
		if err != nil {
			return nil, err
		}
		lb, err := c.resolveScopes(a, w.b, group, seqID, ids, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = wLine
		out.a, out.b = la, lb
		return out, nil
	case wNest, wPack:
		body, err := c.resolveScopes(a, w.a, group, seqID, ids, depth+1)
		if err != nil {
			return nil, err
		}
		out, err := a.alloc()
		if err != nil {
			return nil, err
		}
		out.kind = w.kind
		out.a = body
		return out, nil
	case wGrp:
		return c.resolveScopes(a, w.a, ids.fresh(), seqID, ids, depth+1)
	case wSeq:
		return c.resolveScopes(a, w.a, group, ids.fresh(), ids, depth+1)
	default:
		assert.That(false, "playout: unreachable wkind %d in resolveScopes", w.kind)
		return nil, nil
	}
}

// canonBuilder accumulates [Item]s into the lines of a [Document] as
// canonicalise walks the working tree.
type canonBuilder struct {
	lines [][]Item
	cur   []Item
}

func (cb *canonBuilder) lit(s string) {
	cb.cur = append(cb.cur, Lit{Text: s})
}

func (cb *canonBuilder) glue(pad, fix bool, groupID, seqID int) {
	cb.cur = append(cb.cur, Glue{Pad: pad, BreakAllowed: !fix, GroupID: groupID, SeqID: seqID})
}

func (cb *canonBuilder) indent(delta int, kind IndentKind) {
	cb.cur = append(cb.cur, IndentMark{Delta: delta, Kind: kind})
}

func (cb *canonBuilder) newline() {
	cb.lines = append(cb.lines, cb.cur)
	cb.cur = nil
}

// canonicalise is P5: it walks the fully-resolved working tree, left to
// right, emitting Lit/Glue/IndentMark items into a Document. A nil operand
// (the residue of [Null]) contributes nothing; a [Line] with a nil side
// therefore still produces an empty line, matching the rule that
// line(Null, X) renders its intended leading blank line.
func (c *compiler) canonicalise(w *wnode, depth int) (*Document, error) {
	cb := &canonBuilder{}
	if err := c.canonWalk(cb, w, depth); err != nil {
		return nil, err
	}
	cb.newline()
	sanitizeLines(cb.lines)
	return &Document{Lines: cb.lines}, nil
}

// sanitizeLines restores the §3.2 Document invariant that no line begins or
// ends with a [Glue]. Because [Line] is opaque to Comp re-association (P3),
// a Comp operand can itself be a Line whose adjacent side reduced to Null
// (P1) — e.g. Comp(Line(Text("a"), Null()), Text("b"), ...) — in which case
// the seam's Glue is walked immediately next to an implicit line break, with
// nothing on that side to glue to. Such a Glue is elided entirely rather
// than emitted dangling at the start or end of a line.
func sanitizeLines(lines [][]Item) {
	for i, line := range lines {
		lines[i] = sanitizeLine(line)
	}
}

func sanitizeLine(line []Item) []Item {
	litBefore := make([]bool, len(line))
	seen := false
	for j, it := range line {
		litBefore[j] = seen
		if _, ok := it.(Lit); ok {
			seen = true
		}
	}
	litAfter := make([]bool, len(line))
	seen = false
	for j := len(line) - 1; j >= 0; j-- {
		litAfter[j] = seen
		if _, ok := line[j].(Lit); ok {
			seen = true
		}
	}
	out := make([]Item, 0, len(line))
	for j, it := range line {
		if _, ok := it.(Glue); ok && (!litBefore[j] || !litAfter[j]) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c *compiler) canonWalk(cb *canonBuilder, w *wnode, depth int) error {
	if w == nil {
		return nil
	}
	if err := depthCheck(depth, c.limit); err != nil {
		return err
	}
	switch w.kind {
	case wText:
		cb.lit(w.text)
		return nil
	case wComp:
		if err := c.canonWalk(cb, w.a, depth+1); err != nil {
			return err
		}
		cb.glue(w.pad, w.fix, w.groupID, w.seqID)
		return c.canonWalk(cb, w.b, depth+1)
	case wLine:
		if err := c.canonWalk(cb, w.a, depth+1); err != nil {
			return err
		}
		cb.newline()
		return c.canonWalk(cb, w.b, depth+1)
	case wNest:
		cb.indent(1, IndentNest)
		if err := c.canonWalk(cb, w.a, depth+1); err != nil {
			return err
		}
		cb.indent(-1, IndentNest)
		return nil
	case wPack:
		cb.indent(1, IndentPack)
		if err := c.canonWalk(cb, w.a, depth+1); err != nil {
			return err
		}
		cb.indent(-1, IndentPack)
		return nil
	default:
		assert.That(false, "playout: unreachable wkind %d in canonicalise", w.kind)
		return nil
	}
}
