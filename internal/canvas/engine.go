package canvas

// captures one participant's pointer gestures, renders them, queues them for
// the network and keeps a local undo/redo history of completed gestures.
// not safe for concurrent use; the host drives it from its UI loop.
type Engine struct {
	surface Surface
	origin  Point
	color   string
	width   float64
	tool    Tool

	state   State
	prev    *Point
	pending []Segment

	undo [][]byte
	redo [][]byte

	// raster before the first gesture on an empty undo stack
	baseline []byte
}

func NewEngine(surface Surface, opts Options) *Engine {
	if opts.Color == "" {
		opts.Color = DefaultColor
	}

	if opts.Width <= 0 {
		opts.Width = PenWidth
	}

	return &Engine{
		surface: surface,
		origin:  opts.Origin,
		color:   opts.Color,
		width:   opts.Width,
	}
}

func (e *Engine) State() State  { return e.state }
func (e *Engine) Tool() Tool    { return e.tool }
func (e *Engine) Color() string { return e.color }

func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }
func (e *Engine) CanRedo() bool { return len(e.redo) > 0 }

func (e *Engine) SetColor(color string) {
	e.color = color
}

func (e *Engine) SetTool(tool Tool) {
	e.tool = tool
}

// moves the canvas within the viewport, e.g. after a resize
func (e *Engine) SetOrigin(origin Point) {
	e.origin = origin
}

// converts viewport coordinates to canvas-local ones
func (e *Engine) ToCanvas(viewport Point) Point {
	return Point{X: viewport.X - e.origin.X, Y: viewport.Y - e.origin.Y}
}

// starts a gesture
func (e *Engine) PointerDown(viewport Point) {
	if e.state == Dragging {
		return
	}

	if len(e.undo) == 0 {
		e.baseline = e.surface.Snapshot()
	}

	e.state = Dragging
	e.prev = nil
}

// renders the segment from the previous point and queues it; ignored unless dragging
func (e *Engine) PointerMove(viewport Point) bool {
	if e.state != Dragging {
		return false
	}

	current := e.ToCanvas(viewport)

	seg := Segment{
		Prev:    e.prev,
		Current: current,
		Color:   e.color,
		Width:   e.width,
		Erasing: e.tool == Eraser,
	}

	if seg.Erasing {
		seg.Width = EraserWidth
	}

	e.surface.Stroke(seg)
	e.pending = append(e.pending, seg)
	e.prev = &current

	return true
}

// ends the gesture wherever the pointer is released. returns the segments
// still queued, which the host must send before anything else.
func (e *Engine) PointerUp() []Segment {
	if e.state != Dragging {
		return nil
	}

	e.state = Idle
	e.prev = nil

	flushed := e.Flush()

	e.undo = append(e.undo, e.surface.Snapshot())
	e.redo = nil

	return flushed
}

// pointer left the window with the button state unknown
func (e *Engine) Cancel() []Segment {
	return e.PointerUp()
}

// drains the emission queue in capture order
func (e *Engine) Flush() []Segment {
	if len(e.pending) == 0 {
		return nil
	}

	out := e.pending
	e.pending = nil

	return out
}

func (e *Engine) Undo() {
	if len(e.undo) == 0 {
		return
	}

	top := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, top)

	e.surface.Clear()

	switch {
	case len(e.undo) > 0:
		e.surface.Restore(e.undo[len(e.undo)-1])
	case e.baseline != nil:
		e.surface.Restore(e.baseline)
	}
}

func (e *Engine) Redo() {
	if len(e.redo) == 0 {
		return
	}

	top := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, top)

	e.surface.Restore(top)
}

// wipes the raster and both stacks. peers are not told; the host sends clear_board.
func (e *Engine) ClearCanvas() {
	e.surface.Clear()
	e.undo = nil
	e.redo = nil
	e.baseline = nil
}

// renders a peer's segment; it is not undoable and invalidates redo
func (e *Engine) ApplyRemote(seg Segment) {
	e.surface.Stroke(seg)
	e.redo = nil
}

// renders a replayed history in order
func (e *Engine) ApplyHistory(segs []Segment) {
	for _, seg := range segs {
		e.surface.Stroke(seg)
	}

	e.redo = nil
}
