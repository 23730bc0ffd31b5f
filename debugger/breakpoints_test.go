package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakpointManagerAddBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(16)
	require.NotNil(t, bp)
	assert.Equal(t, 1, bp.ID)
	assert.Equal(t, 16, bp.IP)
	assert.True(t, bp.Enabled)
	assert.Zero(t, bp.HitCount)
}

func TestBreakpointManagerAddMultiple(t *testing.T) {
	bm := NewBreakpointManager()

	bp1 := bm.AddBreakpoint(1)
	bp2 := bm.AddBreakpoint(2)

	assert.NotEqual(t, bp1.ID, bp2.ID)
	assert.Equal(t, 2, bm.Count())
}

func TestBreakpointManagerAddDuplicateReEnables(t *testing.T) {
	bm := NewBreakpointManager()

	bp1 := bm.AddBreakpoint(4)
	bp2 := bm.AddBreakpoint(4)

	assert.Equal(t, bp1.ID, bp2.ID, "duplicate IP should update the existing breakpoint")
	assert.Equal(t, 1, bm.Count())
}

func TestBreakpointManagerDeleteBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(4)

	require.NoError(t, bm.DeleteBreakpoint(bp.ID))
	assert.Nil(t, bm.GetBreakpoint(4))

	assert.Error(t, bm.DeleteBreakpoint(999))
}

func TestBreakpointManagerGetBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(1)
	bm.AddBreakpoint(2)

	bp := bm.GetBreakpoint(1)
	require.NotNil(t, bp)
	assert.Equal(t, 1, bp.IP)

	assert.Nil(t, bm.GetBreakpoint(3))
}

func TestBreakpointManagerGetAllBreakpoints(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(1)
	bm.AddBreakpoint(2)
	bm.AddBreakpoint(3)

	assert.Len(t, bm.GetAllBreakpoints(), 3)
}

func TestBreakpointManagerClear(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(1)
	bm.AddBreakpoint(2)

	bm.Clear()
	assert.Zero(t, bm.Count())
}

func TestBreakpointManagerProcessHit(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(7)

	hit := bm.ProcessHit(7)
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.HitCount)

	hit = bm.ProcessHit(7)
	assert.Equal(t, 2, hit.HitCount)

	assert.Nil(t, bm.ProcessHit(99))
}
