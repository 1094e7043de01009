package canvas

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", color.RGBA{A: 0xff}},
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}},
		{"#0f0", color.RGBA{G: 0xff, A: 0xff}},
		{"papayawhip", color.RGBA{A: 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.in))
		})
	}
}

func TestStroke_DotWhenNoPrevious(t *testing.T) {
	r := NewRaster(20, 20)
	r.Stroke(Segment{Current: Point{X: 10, Y: 10}, Color: "#000", Width: 5})

	assert.True(t, painted(r, 10, 10))
	assert.True(t, painted(r, 11, 9))
	assert.False(t, painted(r, 15, 15))
}

func TestStroke_ClipsToBounds(t *testing.T) {
	r := NewRaster(10, 10)

	assert.NotPanics(t, func() {
		r.Stroke(Segment{Prev: &Point{X: -50, Y: -50}, Current: Point{X: 500, Y: 500}, Color: "#000", Width: 5})
	})

	assert.True(t, painted(r, 5, 5))
}

func TestRestore_IgnoresMismatchedSnapshot(t *testing.T) {
	r := NewRaster(10, 10)
	r.Stroke(Segment{Current: Point{X: 5, Y: 5}, Color: "#000", Width: 5})

	r.Restore([]byte{1, 2, 3})
	assert.True(t, painted(r, 5, 5))
}
