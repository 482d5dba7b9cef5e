// Package render draws estimate results and ring layouts as PNG images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
)

const (
	pieWidth   = 900
	pieHeight  = 560
	pieRadius  = 230
	legendX    = 560
	legendRow  = 22
	tileWidth  = 64
	tileHeight = 90
	tileGap    = 14
)

var (
	background = color.RGBA{0xfa, 0xfa, 0xf7, 0xff}
	ink        = color.RGBA{0x22, 0x22, 0x22, 0xff}
	noMatchInk = color.RGBA{0xb0, 0xb0, 0xb0, 0xff}
	ventInk    = color.RGBA{0x55, 0x55, 0x55, 0xff}
	evoInk     = color.RGBA{0x8e, 0x5c, 0xc2, 0xff}
)

// ColorOf returns the fill used for a card color.
func ColorOf(c game.Color) color.RGBA {
	switch c {
	case game.ColorRed:
		return color.RGBA{0xd6, 0x3c, 0x3c, 0xff}
	case game.ColorBlue:
		return color.RGBA{0x3c, 0x6c, 0xd6, 0xff}
	case game.ColorGreen:
		return color.RGBA{0x4c, 0xae, 0x5a, 0xff}
	case game.ColorYellow:
		return color.RGBA{0xe8, 0xc5, 0x3a, 0xff}
	}
	return noMatchInk
}

// ShareColor shades the archetype color so that pattern and eye variants of
// the same color stay distinguishable.
func ShareColor(s game.Share) color.RGBA {
	if s.NoMatch {
		return noMatchInk
	}
	base := ColorOf(s.Archetype.Color)
	f := 1.0
	if s.Archetype.Pattern == game.PatternDot {
		f -= 0.22
	}
	if s.Archetype.Eye == game.EyeDouble {
		f -= 0.12
	}
	return color.RGBA{shade(base.R, f), shade(base.G, f), shade(base.B, f), 0xff}
}

func shade(v uint8, f float64) uint8 {
	return uint8(math.Round(float64(v) * f))
}

// PieChart renders shares as a pie chart with a legend and writes it to path.
func PieChart(shares []game.Share, path string) error {
	dc := drawPie(shares)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save pie chart: %w", err)
	}
	return nil
}

// WritePie encodes the pie chart as PNG to w.
func WritePie(w io.Writer, shares []game.Share) error {
	return drawPie(shares).EncodePNG(w)
}

// PieImage returns the pie chart as an image.
func PieImage(shares []game.Share) image.Image {
	return drawPie(shares).Image()
}

func drawPie(shares []game.Share) *gg.Context {
	dc := gg.NewContext(pieWidth, pieHeight)
	dc.SetColor(background)
	dc.Clear()

	cx, cy := float64(pieHeight)/2, float64(pieHeight)/2
	angle := -math.Pi / 2
	for _, s := range shares {
		if s.Probability <= 0 {
			continue
		}
		sweep := s.Probability * 2 * math.Pi
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, pieRadius, angle, angle+sweep)
		dc.ClosePath()
		dc.SetColor(ShareColor(s))
		dc.FillPreserve()
		dc.SetColor(background)
		dc.SetLineWidth(2)
		dc.Stroke()
		angle += sweep
	}

	y := float64(60)
	for _, s := range shares {
		dc.SetColor(ShareColor(s))
		dc.DrawRectangle(legendX, y-12, 14, 14)
		dc.Fill()
		dc.SetColor(ink)
		dc.DrawString(fmt.Sprintf("%-20s %6.2f%%", s.Label, s.Probability*100), legendX+24, y)
		y += legendRow
	}
	return dc
}

// Board renders the ring as tiles around a circle and writes it to path.
// Amoeba tiles show their win count when t is non-nil. scale resizes the tiles.
func Board(r *game.Ring, t *game.Tally, path string, scale float64) error {
	if err := drawBoard(r, t, scale).SavePNG(path); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// WriteBoard encodes the board as PNG to w.
func WriteBoard(w io.Writer, r *game.Ring, t *game.Tally, scale float64) error {
	return drawBoard(r, t, scale).EncodePNG(w)
}

// BoardSize returns the pixel size of the board image for n cards.
func BoardSize(n int, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	tw, th := tileWidth*scale, tileHeight*scale
	radius := math.Max(float64(n)*(tw+tileGap*scale)/(2*math.Pi), 1.5*th)
	return int(math.Ceil(2*(radius+th)))
}

func drawBoard(r *game.Ring, t *game.Tally, scale float64) *gg.Context {
	if scale <= 0 {
		scale = 1
	}
	n := r.Len()
	size := BoardSize(n, scale)
	tw, th := tileWidth*scale, tileHeight*scale
	radius := float64(size)/2 - th

	dc := gg.NewContext(size, size)
	dc.SetColor(background)
	dc.Clear()

	c := float64(size) / 2
	for i := 0; i < n; i++ {
		card := r.At(i)
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		x, y := c+radius*math.Cos(a), c+radius*math.Sin(a)

		dc.Push()
		dc.RotateAbout(a+math.Pi/2, x, y)
		dc.DrawRoundedRectangle(x-tw/2, y-th/2, tw, th, 6*scale)
		dc.SetColor(tileColor(card))
		dc.FillPreserve()
		dc.SetColor(ink)
		dc.SetLineWidth(1.5)
		dc.Stroke()

		top, bottom := tileLabel(card)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(top, x, y-8*scale, 0.5, 0.5)
		dc.DrawStringAnchored(bottom, x, y+8*scale, 0.5, 0.5)
		if t != nil && card.Kind == game.KindAmoeba {
			dc.DrawStringAnchored(fmt.Sprintf("%d", t.Positions[i]), x, y+th/2-10*scale, 0.5, 0.5)
		}
		dc.Pop()

		dc.SetColor(ink)
		dc.DrawStringAnchored(fmt.Sprintf("%d", i), c+(radius-th*0.75)*math.Cos(a), c+(radius-th*0.75)*math.Sin(a), 0.5, 0.5)
	}
	return dc
}

func tileColor(c game.Card) color.Color {
	switch c.Kind {
	case game.KindLab:
		return ColorOf(c.LabColor)
	case game.KindVent:
		return ventInk
	case game.KindEvolution:
		return evoInk
	case game.KindAmoeba:
		return ColorOf(c.Amoeba.Color)
	}
	return noMatchInk
}

func tileLabel(c game.Card) (string, string) {
	switch c.Kind {
	case game.KindLab:
		return "LAB", c.LabColor.String()
	case game.KindVent:
		return "VENT", ""
	case game.KindEvolution:
		return "EVO", c.Axes.String()
	case game.KindAmoeba:
		return c.Amoeba.Pattern.String(), c.Amoeba.Eye.String()
	}
	return "?", ""
}
