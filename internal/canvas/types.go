package canvas

import "time"

const (
	// pen width sent with every ink segment
	PenWidth = 5.0

	// the eraser always cuts this wide, whatever the pen width
	EraserWidth = 20.0

	// how often the host should drain queued segments while dragging
	FlushInterval = 16 * time.Millisecond

	DefaultColor = "#000000"
)

type Tool int

const (
	Pen Tool = iota
	Eraser
)

func (t Tool) String() string {
	if t == Eraser {
		return "eraser"
	}

	return "pen"
}

type State int

const (
	Idle State = iota
	Dragging
)

// canvas-local coordinates
type Point struct {
	X float64
	Y float64
}

// one line segment; a nil Prev draws a dot at Current
type Segment struct {
	Prev    *Point
	Current Point
	Color   string
	Width   float64
	Erasing bool
}

// the raster the engine renders into
type Surface interface {
	// paints a round-capped segment, inking or erasing
	Stroke(seg Segment)
	Clear()
	Snapshot() []byte
	Restore(snapshot []byte)
}

type Options struct {
	// viewport position of the canvas's top-left corner
	Origin Point
	Color  string
	Width  float64
}
