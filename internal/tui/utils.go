package tui

import (
	"time"

	"codeberg.org/collabboard/server/internal/canvas"
	"codeberg.org/collabboard/server/internal/protocol"
)

const (
	// canvas pixels per terminal cell; each cell shows two stacked half blocks
	cellWidth  = 4
	cellHeight = 8

	// status line above the board
	headerRows = 1

	// status line below the board
	footerRows = 1

	cursorEventsPerSecond = 30

	roomRequestTimeout = 5 * time.Second
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	outboundBuffer     = 1024
)

var palette = []string{
	"#000000",
	"#e03131",
	"#2f9e44",
	"#1971c2",
	"#f08c00",
	"#9c36b5",
	"#0c8599",
	"#868e96",
}

// the viewport point at the center of a terminal cell
func cellCenter(x, y int) canvas.Point {
	return canvas.Point{
		X: float64(x*cellWidth + cellWidth/2),
		Y: float64(y*cellHeight + cellHeight/2),
	}
}

func toDrawLine(seg canvas.Segment) protocol.DrawLinePayload {
	payload := protocol.DrawLinePayload{
		CurrentPoint: &protocol.Point{X: seg.Current.X, Y: seg.Current.Y},
		Color:        seg.Color,
		Width:        seg.Width,
		IsErasing:    seg.Erasing,
	}

	if seg.Prev != nil {
		payload.PrevPoint = &protocol.Point{X: seg.Prev.X, Y: seg.Prev.Y}
	}

	return payload
}

func toSegment(s protocol.StrokePayload) canvas.Segment {
	prev := canvas.Point{X: s.PrevPoint.X, Y: s.PrevPoint.Y}

	return canvas.Segment{
		Prev:    &prev,
		Current: canvas.Point{X: s.CurrentPoint.X, Y: s.CurrentPoint.Y},
		Color:   s.Color,
		Width:   s.Width,
		Erasing: s.IsErasing,
	}
}
