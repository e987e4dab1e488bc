package playout

import "fmt"

// arenaBlockSize bounds how far a single underlying array grows before a
// fresh one is appended. Allocating in fixed blocks, rather than growing one
// slice, keeps every pointer handed out by alloc valid for the arena's
// entire lifetime: a block, once full, is never touched again.
const arenaBlockSize = 512

// arenaMaxBlocks bounds the total number of blocks an arena will grow to
// before alloc reports [AllocationFailed], so a pathological Layout runs out
// of budget with an error instead of growing without limit.
const arenaMaxBlocks = 1 << 16

// arena is a scoped bump allocator: every value it hands out shares its
// lifetime. A compiler pass allocates its working tree from one arena and
// drops the arena when the pass returns, making the whole tree eligible for
// garbage collection in one step rather than node by node. This bounds peak
// memory to roughly the size of the two passes in flight (the one being
// consumed and the one being built) instead of the sum of every pass ever
// run (see the compiler pipeline in compile.go).
type arena[T any] struct {
	blocks [][]T
}

func newArena[T any]() *arena[T] {
	return &arena[T]{}
}

// alloc returns a pointer to a freshly zeroed T owned by a, or
// [AllocationFailed] if a has already grown to arenaMaxBlocks blocks. The
// pointer is valid until a is released.
func (a *arena[T]) alloc() (*T, error) {
	if len(a.blocks) == 0 {
		a.blocks = append(a.blocks, make([]T, 0, arenaBlockSize))
	}
	last := len(a.blocks) - 1
	if len(a.blocks[last]) == cap(a.blocks[last]) {
		if len(a.blocks) >= arenaMaxBlocks {
			return nil, &AllocationFailed{Cause: fmt.Errorf("arena exceeded %d blocks of %d elements", arenaMaxBlocks, arenaBlockSize)}
		}
		a.blocks = append(a.blocks, make([]T, 0, arenaBlockSize))
		last++
	}
	a.blocks[last] = append(a.blocks[last], *new(T))
	return &a.blocks[last][len(a.blocks[last])-1], nil
}

// release drops every reference this arena holds to its backing storage.
// Nodes allocated from a become eligible for garbage collection once their
// last other reference (if any) is also gone.
func (a *arena[T]) release() {
	a.blocks = nil
}
