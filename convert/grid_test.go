package convert

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridStartEnd(t *testing.T) {
	g, err := NewGrid(480)
	require.NoError(t, err)
	assert.Equal(t, 30.0, g.CellTicks())

	assert.Equal(t, 2, g.Start(45))
	assert.Equal(t, 2, g.End(46))
	assert.Equal(t, 16, g.Start(480))
	assert.Equal(t, 16, g.End(480))
	assert.Equal(t, 17, g.End(481))
	assert.Equal(t, 0, g.Start(0))
	assert.Equal(t, 0, g.End(0))
}

func TestGridStartRoundsHalfToEven(t *testing.T) {
	g, err := NewGrid(480)
	require.NoError(t, err)

	assert.Equal(t, 0, g.Start(15))  // 0.5
	assert.Equal(t, 2, g.Start(75))  // 2.5
	assert.Equal(t, 4, g.Start(105)) // 3.5
	assert.Equal(t, 1, g.Start(16))
}

func TestGridFractionalCells(t *testing.T) {
	g, err := NewGrid(100)
	require.NoError(t, err)
	assert.Equal(t, 6.25, g.CellTicks())

	assert.Equal(t, 2, g.Start(12))
	assert.Equal(t, 2, g.End(12))
	assert.Equal(t, 3, g.End(13))
}

func TestGridEndNeverBeforeStart(t *testing.T) {
	for _, tpb := range []int{1, 7, 96, 120, 384, 480, 960} {
		g, err := NewGrid(tpb)
		require.NoError(t, err)
		for tick := int64(0); tick < 2000; tick++ {
			if g.End(tick) < g.Start(tick) {
				t.Fatalf("tpb=%d tick=%d: end %d < start %d", tpb, tick, g.End(tick), g.Start(tick))
			}
		}
	}
}

func TestNewGridRejectsBadResolution(t *testing.T) {
	for _, tpb := range []int{0, -1, -480} {
		_, err := NewGrid(tpb)
		assert.True(t, errors.Is(err, ErrMalformedResolution), "tpb=%d", tpb)
	}
}
