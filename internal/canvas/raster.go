package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// in-memory RGBA surface; transparent pixels are blank board
type Raster struct {
	img *image.RGBA
}

func NewRaster(width, height int) *Raster {
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// the painted color at (x, y) and whether anything is painted there
func (r *Raster) At(x, y int) (color.RGBA, bool) {
	c := r.img.RGBAAt(x, y)
	return c, c.A != 0
}

// paints every pixel whose center lies within width/2 of the segment,
// which gives round caps and joins
func (r *Raster) Stroke(seg Segment) {
	start := seg.Current
	if seg.Prev != nil {
		start = *seg.Prev
	}

	width := seg.Width
	if seg.Erasing {
		width = EraserWidth
	}

	radius := math.Max(width/2, 0.5)

	ink := color.RGBA{}
	if !seg.Erasing {
		ink = ParseColor(seg.Color)
	}

	area := image.Rect(
		int(math.Floor(math.Min(start.X, seg.Current.X)-radius)),
		int(math.Floor(math.Min(start.Y, seg.Current.Y)-radius)),
		int(math.Ceil(math.Max(start.X, seg.Current.X)+radius))+1,
		int(math.Ceil(math.Max(start.Y, seg.Current.Y)+radius))+1,
	).Intersect(r.img.Bounds())

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			center := Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}

			if distanceToSegment(center, start, seg.Current) <= radius {
				// source-over with an opaque ink, destination-out with an opaque mask
				r.img.SetRGBA(x, y, ink)
			}
		}
	}
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) Snapshot() []byte {
	return append([]byte(nil), r.img.Pix...)
}

func (r *Raster) Restore(snapshot []byte) {
	if len(snapshot) != len(r.img.Pix) {
		return
	}

	copy(r.img.Pix, snapshot)
}

// parses a css hex color (#rgb or #rrggbb); anything else inks black
func ParseColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}

	r, g, b := c.RGB255()

	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func distanceToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy

	if lengthSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
