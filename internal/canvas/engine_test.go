package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() (*Engine, *Raster) {
	raster := NewRaster(100, 100)
	return NewEngine(raster, Options{}), raster
}

// drags through the given viewport points and releases
func gesture(e *Engine, points ...Point) []Segment {
	e.PointerDown(points[0])

	for _, p := range points {
		e.PointerMove(p)
	}

	return e.PointerUp()
}

func painted(r *Raster, x, y int) bool {
	_, ok := r.At(x, y)
	return ok
}

func TestPointerMove_IgnoredWhenIdle(t *testing.T) {
	e, raster := newTestEngine()

	assert.False(t, e.PointerMove(Point{X: 10, Y: 10}))
	assert.False(t, painted(raster, 10, 10))
	assert.Nil(t, e.Flush())
}

func TestGesture_FirstSegmentHasNoPrevious(t *testing.T) {
	e, _ := newTestEngine()

	segs := gesture(e, Point{X: 10, Y: 10}, Point{X: 20, Y: 10}, Point{X: 30, Y: 10})
	require.Len(t, segs, 3)

	assert.Nil(t, segs[0].Prev)
	require.NotNil(t, segs[1].Prev)
	assert.Equal(t, Point{X: 10, Y: 10}, *segs[1].Prev)
	assert.Equal(t, Point{X: 20, Y: 10}, *segs[2].Prev)
	assert.Equal(t, PenWidth, segs[0].Width)
	assert.Equal(t, DefaultColor, segs[0].Color)
	assert.Equal(t, Idle, e.State())
}

func TestGesture_ConvertsViewportToCanvas(t *testing.T) {
	raster := NewRaster(100, 100)
	e := NewEngine(raster, Options{Origin: Point{X: 40, Y: 20}})

	segs := gesture(e, Point{X: 50, Y: 30})
	require.Len(t, segs, 1)

	assert.Equal(t, Point{X: 10, Y: 10}, segs[0].Current)
	assert.True(t, painted(raster, 10, 10))
	assert.False(t, painted(raster, 50, 30))
}

func TestGesture_RendersImmediately(t *testing.T) {
	e, raster := newTestEngine()

	e.PointerDown(Point{X: 10, Y: 50})
	e.PointerMove(Point{X: 10, Y: 50})
	e.PointerMove(Point{X: 60, Y: 50})

	// drawn before the gesture ends
	assert.True(t, painted(raster, 35, 50))
	assert.False(t, painted(raster, 35, 60))
}

func TestFlush_DrainsQueueInOrderAndPointerUpSendsRest(t *testing.T) {
	e, _ := newTestEngine()

	e.PointerDown(Point{X: 1, Y: 1})
	e.PointerMove(Point{X: 1, Y: 1})
	e.PointerMove(Point{X: 2, Y: 2})

	first := e.Flush()
	require.Len(t, first, 2)
	assert.Nil(t, e.Flush())

	e.PointerMove(Point{X: 3, Y: 3})

	rest := e.PointerUp()
	require.Len(t, rest, 1)
	assert.Equal(t, Point{X: 3, Y: 3}, rest[0].Current)
	assert.Nil(t, e.Flush())
}

func TestEraser_UsesFixedWidthAndClearsPixels(t *testing.T) {
	e, raster := newTestEngine()

	gesture(e, Point{X: 10, Y: 50}, Point{X: 90, Y: 50})
	require.True(t, painted(raster, 50, 50))

	e.SetTool(Eraser)

	segs := gesture(e, Point{X: 50, Y: 20}, Point{X: 50, Y: 80})
	require.NotEmpty(t, segs)
	assert.True(t, segs[0].Erasing)
	assert.Equal(t, EraserWidth, segs[0].Width)

	assert.False(t, painted(raster, 50, 50))
	assert.True(t, painted(raster, 20, 50))
}

func TestUndo_RestoresPreGestureRaster(t *testing.T) {
	e, raster := newTestEngine()
	before := raster.Snapshot()

	gesture(e, Point{X: 10, Y: 10}, Point{X: 80, Y: 80})
	after := raster.Snapshot()
	require.NotEqual(t, before, after)

	e.Undo()
	assert.Equal(t, before, raster.Snapshot())
	assert.True(t, e.CanRedo())

	e.Redo()
	assert.Equal(t, after, raster.Snapshot())
	assert.False(t, e.CanRedo())
}

func TestUndo_StepsBackOneGestureAtATime(t *testing.T) {
	e, raster := newTestEngine()

	gesture(e, Point{X: 10, Y: 10})
	one := raster.Snapshot()

	gesture(e, Point{X: 50, Y: 50})

	e.Undo()
	assert.Equal(t, one, raster.Snapshot())
	assert.True(t, painted(raster, 10, 10))
	assert.False(t, painted(raster, 50, 50))
}

func TestUndoRedo_EmptyStacksAreNoOps(t *testing.T) {
	e, raster := newTestEngine()

	gesture(e, Point{X: 10, Y: 10})
	e.ClearCanvas()
	blank := raster.Snapshot()

	e.Undo()
	e.Redo()

	assert.Equal(t, blank, raster.Snapshot())
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestNewGesture_ClearsRedo(t *testing.T) {
	e, _ := newTestEngine()

	gesture(e, Point{X: 10, Y: 10})
	e.Undo()
	require.True(t, e.CanRedo())

	gesture(e, Point{X: 20, Y: 20})
	assert.False(t, e.CanRedo())
}

func TestApplyRemote_NotUndoableAndClearsRedo(t *testing.T) {
	e, raster := newTestEngine()

	gesture(e, Point{X: 10, Y: 10})
	e.Undo()
	require.True(t, e.CanRedo())

	e.ApplyRemote(Segment{Current: Point{X: 70, Y: 70}, Color: "#ff0000", Width: 5})

	assert.False(t, e.CanRedo())
	assert.False(t, e.CanUndo())

	c, ok := raster.At(70, 70)
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), c.R)
}

func TestUndo_KeepsHistoryBelowFirstGesture(t *testing.T) {
	e, raster := newTestEngine()

	e.ApplyHistory([]Segment{
		{Prev: &Point{X: 5, Y: 90}, Current: Point{X: 95, Y: 90}, Color: "#00ff00", Width: 5},
	})

	gesture(e, Point{X: 10, Y: 10})
	e.Undo()

	assert.True(t, painted(raster, 50, 90), "replayed history survives undo")
	assert.False(t, painted(raster, 10, 10))
}

func TestClearCanvas_WipesRasterAndStacks(t *testing.T) {
	e, raster := newTestEngine()

	gesture(e, Point{X: 10, Y: 10})
	gesture(e, Point{X: 20, Y: 20})
	e.Undo()

	e.ClearCanvas()

	assert.False(t, painted(raster, 10, 10))
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestCancel_EndsGesture(t *testing.T) {
	e, _ := newTestEngine()

	e.PointerDown(Point{X: 1, Y: 1})
	e.PointerMove(Point{X: 1, Y: 1})

	segs := e.Cancel()
	assert.Len(t, segs, 1)
	assert.Equal(t, Idle, e.State())
	assert.True(t, e.CanUndo())
}
