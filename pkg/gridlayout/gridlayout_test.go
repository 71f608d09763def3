package gridlayout_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/gridlayout"
	"github.com/matzehuels/circuitgen/pkg/rng"
)

// ringInput returns an n-cycle with chords on a unit circle.
func ringInput(n int) ([]geom.Edge, []geom.Vec2) {
	pos := make([]geom.Vec2, n)
	var edges []geom.Edge
	for i := 0; i < n; i++ {
		pos[i] = geom.Polar(1, 2*math.Pi*float64(i)/float64(n))
		edges = append(edges, geom.Edge{A: i, B: (i + 1) % n})
	}
	for i := 0; i+n/2 < n; i += 3 {
		edges = append(edges, geom.Edge{A: i, B: i + n/2})
	}
	return edges, pos
}

// frozen keeps the deadline out of reach so only MaxAttempts bounds the search.
func frozen() time.Time { return time.Unix(0, 0) }

func fixedOptions() *gridlayout.Options {
	o := gridlayout.DefaultOptions()
	o.MaxAttempts = 400
	o.Clock = frozen
	return &o
}

func TestPlaceSnapsToDistinctCells(t *testing.T) {
	edges, pos := ringInput(12)
	res, err := gridlayout.Place(edges, pos, rng.New(1), fixedOptions())
	require.NoError(t, err)

	require.Len(t, res.Positions, 12)
	assert.GreaterOrEqual(t, res.Cols, 6)
	assert.LessOrEqual(t, res.Cols, 10)
	assert.Equal(t, res.Cols, res.Rows)
	for i := range res.Positions {
		for j := i + 1; j < len(res.Positions); j++ {
			assert.False(t, res.Positions[i].Near(res.Positions[j], 1e-9), "nodes %d and %d share a cell", i, j)
		}
	}
}

func TestPlaceNeverWorsens(t *testing.T) {
	edges, pos := ringInput(16)
	for seed := uint64(0); seed < 10; seed++ {
		res, err := gridlayout.Place(edges, pos, rng.New(seed), fixedOptions())
		require.NoError(t, err)
		assert.LessOrEqual(t, res.After.Total, res.Before.Total, "seed %d", seed)
		assert.Equal(t, res.After.Total < res.Before.Total, res.Improved())
	}
}

func TestPlaceIsDeterministic(t *testing.T) {
	edges, pos := ringInput(10)
	a, err := gridlayout.Place(edges, pos, rng.New(7), fixedOptions())
	require.NoError(t, err)
	b, err := gridlayout.Place(edges, pos, rng.New(7), fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlaceKeepsPlanarSquareClean(t *testing.T) {
	edges := []geom.Edge{{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0}}
	pos := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	res, err := gridlayout.Place(edges, pos, rng.New(3), fixedOptions())
	require.NoError(t, err)
	assert.Zero(t, res.After.Crossings)
	assert.Zero(t, geom.CountCrossings(edges, res.Positions))
}

func TestRingLikePreservesCircularOrder(t *testing.T) {
	edges, pos := ringInput(12)
	o := fixedOptions()
	o.RingLike = true
	o.MaxAttempts = 0
	res, err := gridlayout.Place(edges, pos, rng.New(5), o)
	require.NoError(t, err)

	// Walking the nodes in input order must wind once around the center.
	winding := 0.0
	for i := range res.Positions {
		a := res.Positions[i].Angle()
		b := res.Positions[(i+1)%len(res.Positions)].Angle()
		d := b - a
		for d < 0 {
			d += 2 * math.Pi
		}
		winding += d
	}
	assert.InDelta(t, 2*math.Pi, winding, 1e-9)
}

func TestTimeBudgetStopsSearch(t *testing.T) {
	edges, pos := ringInput(10)
	now := time.Unix(0, 0)
	o := fixedOptions()
	o.MinSize, o.MaxSize = 6, 6
	o.Staggers = []bool{false}
	o.TimeBudget = time.Second
	o.Clock = func() time.Time {
		now = now.Add(400 * time.Millisecond)
		return now
	}
	res, err := gridlayout.Place(edges, pos, rng.New(2), o)
	require.NoError(t, err)
	assert.Less(t, res.Attempts, 5)
}

func TestPlaceErrors(t *testing.T) {
	edges, pos := ringInput(10)

	_, err := gridlayout.Place(nil, nil, rng.New(1), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = gridlayout.Place([]geom.Edge{{A: 0, B: 9}}, pos[:3], rng.New(1), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	small := gridlayout.DefaultOptions()
	small.MinSize, small.MaxSize = 2, 3
	_, err = gridlayout.Place(edges, pos, rng.New(1), &small)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	bad := gridlayout.DefaultOptions()
	bad.TimeBudget = 0
	_, err = gridlayout.Place(edges, pos, rng.New(1), &bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
