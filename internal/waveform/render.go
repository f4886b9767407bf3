package waveform

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/RMahshie/pitchscope/internal/audio"
)

// Format is the image format tag of rendered plots
const Format = "svg"

// Default plot size
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 3 * vg.Inch
)

var lineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// SVGRenderer draws a time-domain line plot of a signal
type SVGRenderer struct {
	width  vg.Length
	height vg.Length
	pool   sync.Pool
}

// NewSVGRenderer creates a renderer with the given canvas size; zero values use the defaults
func NewSVGRenderer(width, height vg.Length) *SVGRenderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &SVGRenderer{
		width:  width,
		height: height,
		pool: sync.Pool{
			New: func() any { return new(bytes.Buffer) },
		},
	}
}

// Render returns an SVG document plotting amplitude against time
func (r *SVGRenderer) Render(sig audio.MonoSignal) ([]byte, error) {
	if sig.Len() == 0 {
		return nil, audio.ErrEmptySignal
	}

	axis := audio.TimeAxis(sig)
	pts := make(plotter.XYs, sig.Len())
	for i, v := range sig.Samples {
		pts[i].X = axis[i]
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = "Time Domain Signal"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Amplitude"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = lineColor
	p.Add(line)

	canvas := vgsvg.New(r.width, r.height)
	p.Draw(draw.New(canvas))

	buf := r.pool.Get().(*bytes.Buffer)
	buf.Reset()
	defer r.pool.Put(buf)

	if _, err := canvas.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("waveform: encode svg: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
