package playout

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestArenaAllocZeroesAndIsStable(t *testing.T) {
	a := newArena[wnode]()

	p, err := a.alloc()
	require.NoErrorf(t, err, "alloc")
	assert.EqualValues(t, p.kind, wText, "alloc should return a zeroed kind (wText is the zero wkind)")
	assert.EqualValues(t, p.text, "", "alloc should return a zeroed text")

	p.kind = wText
	p.text = "foo"
	assert.Equals(t, p.text, "foo", "writing through the returned pointer should stick")
}

func TestArenaPointerStableAcrossBlockBoundary(t *testing.T) {
	a := newArena[wnode]()

	ptrs := make([]*wnode, 0, arenaBlockSize+5)
	for i := 0; i < arenaBlockSize+5; i++ {
		p, err := a.alloc()
		require.NoErrorf(t, err, "alloc %d", i)
		p.text = string(rune('a' + i%26))
		ptrs = append(ptrs, p)
	}

	// forcing allocation past a block boundary must not invalidate or
	// mutate pointers already handed out from the first block.
	for i, p := range ptrs {
		want := string(rune('a' + i%26))
		assert.Equals(t, p.text, want, "pointer %d should still read back its original value", i)
	}
	assert.True(t, len(a.blocks) > 1, "expected allocation to have spilled into a second block")
}

func TestArenaRelease(t *testing.T) {
	a := newArena[wnode]()
	_, err := a.alloc()
	require.NoErrorf(t, err, "alloc")
	a.release()
	assert.EqualValues(t, len(a.blocks), 0, "release should drop all blocks")
}

func TestArenaAllocFailsPastMaxBlocks(t *testing.T) {
	a := newArena[wnode]()
	a.blocks = make([][]wnode, arenaMaxBlocks)
	for i := range a.blocks {
		a.blocks[i] = make([]wnode, arenaBlockSize, arenaBlockSize)
	}

	_, err := a.alloc()
	var failed *AllocationFailed
	assert.True(t, asAllocationFailed(err, &failed), "want *AllocationFailed, got %T", err)
}

func asAllocationFailed(err error, target **AllocationFailed) bool {
	v, ok := err.(*AllocationFailed)
	if ok {
		*target = v
	}
	return ok
}
