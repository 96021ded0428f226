//go:build cairo

package render

import (
	"bytes"
	"image/color"
	"os"
	"strconv"

	"github.com/evmar/gocairo/cairo"

	"github.com/go-graphite/chartkit/geom"
	"github.com/go-graphite/chartkit/layout"
)

// HaveGraphSupport reports whether raster/vector output was compiled in.
const HaveGraphSupport = true

const (
	axisFontSize  = 10.0
	titleFontSize = 14.0
	lineWidth     = 1.2
	areaAlpha     = 0.7
)

type cairoBackend int

const (
	cairoPNG cairoBackend = iota
	cairoSVG
)

func MarshalPNG(g *Graph) []byte {
	return marshalCairo(g, cairoPNG)
}

func MarshalSVG(g *Graph) []byte {
	return marshalCairo(g, cairoSVG)
}

func marshalCairo(g *Graph, backend cairoBackend) []byte {
	if g == nil || g.Layout == nil {
		return nil
	}
	width, height := g.Layout.TotalWidth, g.Layout.TotalHeight

	var surface *cairo.Surface
	var tmpfile *os.File
	switch backend {
	case cairoSVG:
		var err error
		tmpfile, err = os.CreateTemp("/dev/shm", "cairosvg")
		if err != nil {
			return nil
		}
		defer os.Remove(tmpfile.Name())
		s := cairo.SVGSurfaceCreate(tmpfile.Name(), width, height)
		surface = s.Surface
	case cairoPNG:
		s := cairo.ImageSurfaceCreate(cairo.FormatARGB32, int(width), int(height))
		surface = s.Surface
	}
	cr := cairo.Create(surface)

	fontOpts := cairo.FontOptionsCreate()
	fontOpts.SetAntialias(cairo.AntialiasNone)
	cr.SetFontOptions(fontOpts)
	cr.SelectFontFace("Sans", cairo.FontSlantNormal, cairo.FontWeightNormal)
	cr.SetFontSize(axisFontSize)

	setColor(cr, colors["white"])
	cr.Rectangle(0, 0, width, height)
	cr.Fill()

	paintGraph(cr, g)

	surface.Flush()

	var b []byte
	switch backend {
	case cairoPNG:
		var buf bytes.Buffer
		surface.WriteToPNG(&buf)
		surface.Finish()
		b = buf.Bytes()
	case cairoSVG:
		surface.Finish()
		b, _ = os.ReadFile(tmpfile.Name())
		// graphite-web compatibility: cairo emits pt units, browsers want px
		b = bytes.Replace(b, []byte(`pt"`), []byte(`px"`), 2)
	}
	return b
}

func paintGraph(cr *cairo.Context, g *Graph) {
	l := g.Layout

	if g.Title != "" && l.Title != nil {
		setColor(cr, colors["black"])
		cr.SetFontSize(titleFontSize)
		drawText(cr, g.Title, l.Chart.X+l.Chart.Width/2, l.Title.Y+titleFontSize, hAlignCenter)
		cr.SetFontSize(axisFontSize)
	}

	paintGrid(cr, g)
	paintElements(cr, g)
	paintAxisLabels(cr, g)
	paintLegend(cr, g)
}

func paintGrid(cr *cairo.Context, g *Graph) {
	l := g.Layout

	setColor(cr, colors["darkgray"])
	cr.SetLineWidth(0.5)
	for _, tk := range g.YTicksLeft {
		cr.MoveTo(l.Chart.X, tk.Pos)
		cr.LineTo(l.Chart.X+l.Chart.Width, tk.Pos)
	}
	for _, tk := range g.XTicks {
		cr.MoveTo(tk.Pos, l.Chart.Y)
		cr.LineTo(tk.Pos, l.Chart.Y+l.Chart.Height)
	}
	cr.Stroke()

	if g.ZeroY != nil {
		setColor(cr, colors["black"])
		cr.SetLineWidth(0.7)
		cr.SetDash([]float64{2, 2}, 0)
		cr.MoveTo(l.Chart.X, *g.ZeroY)
		cr.LineTo(l.Chart.X+l.Chart.Width, *g.ZeroY)
		cr.Stroke()
		cr.SetDash(nil, 0)
	}
}

func paintElements(cr *cairo.Context, g *Graph) {
	l := g.Layout

	cr.Save()
	cr.Rectangle(l.Chart.X, l.Chart.Y, l.Chart.Width, l.Chart.Height)
	cr.Clip()

	for _, el := range g.Elements {
		if el.Kind == "highlight" {
			continue
		}
		c := string2RGBA(el.Color)
		switch el.Kind {
		case "area":
			setColorAlpha(cr, c, areaAlpha)
			tracePath(cr, el.Path)
			cr.Fill()
		case "bar":
			setColor(cr, c)
			for _, r := range el.Rects {
				cr.Rectangle(r.X, r.Y, r.Width, r.Height)
			}
			cr.Fill()
		default:
			setColor(cr, c)
			cr.SetLineWidth(lineWidth)
			tracePath(cr, el.Path)
			cr.Stroke()
		}
	}

	// exceeding portions redraw through the threshold clip mask
	if len(g.ThresholdClip) > 0 {
		cr.Save()
		tracePath(cr, g.ThresholdClip)
		cr.Clip()
		for _, el := range g.Elements {
			if el.Kind != "highlight" {
				continue
			}
			setColor(cr, string2RGBA(el.Color))
			cr.SetLineWidth(lineWidth)
			tracePath(cr, el.Path)
			cr.Stroke()
		}
		cr.Restore()
	}

	cr.Restore()
}

func paintAxisLabels(cr *cairo.Context, g *Graph) {
	l := g.Layout

	setColor(cr, colors["black"])
	for _, tk := range g.YTicksLeft {
		drawText(cr, tk.Label, l.Chart.X-4, tk.Pos+3, hAlignRight)
	}
	for _, tk := range g.YTicksRight {
		drawText(cr, tk.Label, l.Chart.X+l.Chart.Width+4, tk.Pos+3, hAlignLeft)
	}
	if l.AxisX != nil {
		for _, tk := range g.XTicks {
			drawText(cr, tk.Label, tk.Pos, l.AxisX.Y+axisFontSize+2, hAlignCenter)
		}
	}
}

func paintLegend(cr *cairo.Context, g *Graph) {
	l := g.Layout
	if l.Legend == nil || len(g.Legend) == 0 {
		return
	}

	columns := (len(g.Legend) + l.LegendRows - 1) / l.LegendRows
	columnWidth := l.Chart.Width / float64(columns)
	const box = 10.0

	for i, entry := range g.Legend {
		x := l.Legend.X + float64(i%columns)*columnWidth
		y := l.Legend.Y + float64(i/columns)*layout.LegendRowHeight

		setColor(cr, string2RGBA(entry.Color))
		cr.Rectangle(x, y, box, box)
		cr.Fill()
		setColor(cr, colors["black"])
		drawText(cr, entry.Name, x+box+4, y+box-1, hAlignLeft)
	}
}

type hAlign int

const (
	hAlignLeft hAlign = iota
	hAlignCenter
	hAlignRight
)

func drawText(cr *cairo.Context, text string, x, y float64, align hAlign) {
	var te cairo.TextExtents
	cr.TextExtents(text, &te)
	switch align {
	case hAlignCenter:
		x -= te.XAdvance / 2
	case hAlignRight:
		x -= te.XAdvance
	}
	cr.MoveTo(x, y)
	cr.TextPath(text)
	cr.Fill()
}

func tracePath(cr *cairo.Context, p geom.Path) {
	for _, c := range p {
		switch c.Op {
		case geom.MoveTo:
			cr.MoveTo(c.X, c.Y)
		case geom.LineTo:
			cr.LineTo(c.X, c.Y)
		case geom.Close:
			cr.ClosePath()
		}
	}
}

var colors = map[string]color.RGBA{
	"black":    {0x00, 0x00, 0x00, 0xff},
	"white":    {0xff, 0xff, 0xff, 0xff},
	"darkgray": {0xa9, 0xa9, 0xa9, 0xff},
	"blue":     {0x00, 0x00, 0xff, 0xff},
	"green":    {0x00, 0xa0, 0x00, 0xff},
	"red":      {0xc8, 0x00, 0x32, 0xff},
	"purple":   {0xc8, 0x32, 0xc8, 0xff},
	"brown":    {0x96, 0x4b, 0x00, 0xff},
	"yellow":   {0xc8, 0xc8, 0x00, 0xff},
	"aqua":     {0x00, 0x96, 0x96, 0xff},
	"grey":     {0xaf, 0xaf, 0xaf, 0xff},
	"magenta":  {0xff, 0x00, 0xff, 0xff},
	"pink":     {0xff, 0x64, 0x64, 0xff},
	"gold":     {0xc8, 0xa0, 0x00, 0xff},
	"rose":     {0xc8, 0x96, 0xc8, 0xff},
}

func string2RGBA(clr string) color.RGBA {
	if c, ok := colors[clr]; ok {
		return c
	}
	return hexToRGBA(clr)
}

// hexToRGBA converts a hex string to an RGBA triple.
func hexToRGBA(h string) color.RGBA {
	var r, g, b uint8
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	if len(h) == 3 {
		h = h[:1] + h[:1] + h[1:2] + h[1:2] + h[2:] + h[2:]
	}
	alpha := byte(255)
	if len(h) == 6 {
		if rgb, err := strconv.ParseUint(h, 16, 32); err == nil {
			r = uint8(rgb >> 16)
			g = uint8(rgb >> 8)
			b = uint8(rgb)
		}
	}
	if len(h) == 8 {
		if rgb, err := strconv.ParseUint(h, 16, 32); err == nil {
			r = uint8(rgb >> 24)
			g = uint8(rgb >> 16)
			b = uint8(rgb >> 8)
			alpha = uint8(rgb)
		}
	}
	return color.RGBA{r, g, b, alpha}
}

func setColor(cr *cairo.Context, c color.RGBA) {
	r, g, b, a := c.RGBA()
	cr.SetSourceRGBA(float64(r)/65536, float64(g)/65536, float64(b)/65536, float64(a)/65536)
}

func setColorAlpha(cr *cairo.Context, c color.RGBA, alpha float64) {
	r, g, b, _ := c.RGBA()
	cr.SetSourceRGBA(float64(r)/65536, float64(g)/65536, float64(b)/65536, alpha)
}
