// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hddchart draws access time over head position for every
// drive in a Store.
//
// Each model gets one chart with a scatter series per block size,
// colored by block size tier, optionally overlaid with a LOESS trend
// line and its prediction band. The chart is saved once per vertical
// scale so that both fast and slow drives can be compared at a glance.
package hddchart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/hddance/hddance/hddmath"
	"github.com/hddance/hddance/hddseries"
	"github.com/hddance/hddance/hddunit"
	"github.com/hddance/hddance/internal/report"
)

// Options configures Chart.
type Options struct {
	// Smooth adds a trend line and prediction band to every
	// block size series.
	Smooth bool

	// SmoothFraction is the LOESS span used when Smooth is set.
	SmoothFraction float64

	// Scales are the Y axis maxima, in ms. One image is written
	// per scale.
	Scales []float64

	// Width and Height are the image dimensions; DPI is its
	// resolution.
	Width, Height vg.Length
	DPI           int

	// Footer is printed in the bottom right corner.
	Footer string

	// Warn, if non-nil, is called for block sizes whose
	// statistics or trend could not be computed.
	Warn func(format string, args ...interface{})

	// Progress, if non-nil, is called before each model is drawn.
	Progress func(model string)
}

// DefaultOptions returns the options used by hddplot.
func DefaultOptions() Options {
	return Options{
		SmoothFraction: hddmath.DefaultFraction,
		Scales:         []float64{50, 100, 250},
		Width:          6.4 * vg.Inch,
		Height:         4.8 * vg.Inch,
		DPI:            600,
		Footer:         "hddance v1.0",
	}
}

func (o *Options) warn(format string, args ...interface{}) {
	if o.Warn != nil {
		o.Warn(format, args...)
	}
}

var (
	background = color.Black
	foreground = color.White
)

const (
	statsFontSize  = 6
	footerFontSize = 4
)

// FileName returns the base name of the image of model at the given
// Y scale. Path separators in model are replaced by "-".
func FileName(model string, scale float64) string {
	name := strings.ReplaceAll(model, "/", "-")
	name = strings.ReplaceAll(name, string(filepath.Separator), "-")
	return name + "_" + strconv.FormatFloat(scale, 'g', -1, 64) + "_ms.png"
}

// Chart draws every model of s and writes the images into dir,
// creating it if necessary. It returns the paths written.
func Chart(s *hddseries.Store, dir string, opts Options) ([]string, error) {
	if len(opts.Scales) == 0 {
		return nil, fmt.Errorf("hddchart: no scales")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}

	var paths []string
	for _, model := range s.Models() {
		if opts.Progress != nil {
			opts.Progress(model)
		}
		pl, err := modelPlot(s, model, &opts)
		if err != nil {
			return paths, fmt.Errorf("hddchart: %s: %w", model, err)
		}
		stats := report.StatsLines(s, model).String()
		nl := strings.Count(stats, "\n")
		pl.Title.Padding = vg.Points(statsFontSize*1.25*float64(nl) + 4)

		for _, scale := range opts.Scales {
			pl.Y.Min, pl.Y.Max = 0, scale
			path := filepath.Join(dir, FileName(model, scale))
			if err := save(pl, path, &opts, func(c draw.Canvas) { annotate(c, pl, stats, opts.Footer) }); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// modelPlot builds the chart of one model. The Y range is left for
// the caller to set.
func modelPlot(s *hddseries.Store, model string, opts *Options) (*plot.Plot, error) {
	pl := darkPlot()
	pl.Title.Text = fmt.Sprintf("%s, %d samples", model, s.ModelLen(model))
	pl.X.Label.Text = "head position, %"
	pl.Y.Label.Text = "access time, ms"
	pl.Legend.Top = true
	pl.Legend.Left = true

	for _, g := range s.Groups(model) {
		if _, err := g.Summary(); err != nil {
			opts.warn("%s, %s: %v", model, hddunit.BlockSize(g.Key.BlockSize), err)
		}
		if g.Len() == 0 {
			continue
		}
		clr := TierColor(hddunit.Classify(g.Key.BlockSize))
		xys := make(plotter.XYs, g.Len())
		for i, smp := range g.Samples {
			xys[i].X, xys[i].Y = smp.Position, smp.Latency
		}

		if opts.Smooth {
			if err := addTrend(pl, g, xys, clr, opts.SmoothFraction); err != nil {
				opts.warn("%s, %s: no trend: %v", model, hddunit.BlockSize(g.Key.BlockSize), err)
			}
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = clr
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		sc.GlyphStyle.Radius = vg.Points(0.4)
		pl.Add(sc)
		pl.Legend.Add(hddunit.BlockSize(g.Key.BlockSize), sc)
	}

	pl.X.Min, pl.X.Max = 0, 100
	return pl, nil
}

// addTrend adds g's smoothed curve and its prediction band to pl.
func addTrend(pl *plot.Plot, g *hddseries.Group, xys plotter.XYs, clr color.Color, fraction float64) error {
	curve, err := g.Smooth(fraction)
	if err != nil {
		return err
	}
	n := len(xys)
	line := make(plotter.XYs, n)
	band := make(plotter.XYs, 0, 2*n)
	for i := range xys {
		line[i] = plotter.XY{X: xys[i].X, Y: curve.Y[i]}
		band = append(band, plotter.XY{X: xys[i].X, Y: curve.Hi[i]})
	}
	for i := n - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: xys[i].X, Y: curve.Lo[i]})
	}

	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return err
	}
	poly.Color = withAlpha(clr, 0x33)
	poly.LineStyle.Width = 0

	l, err := plotter.NewLine(line)
	if err != nil {
		return err
	}
	l.Color = withAlpha(clr, 0x80)
	l.Width = vg.Points(1)

	pl.Add(poly, l)
	return nil
}

// darkPlot returns a plot with light text and lines on a dark
// background.
func darkPlot() *plot.Plot {
	pl := plot.New()
	pl.BackgroundColor = background
	pl.Title.TextStyle.Color = foreground
	for _, ax := range []*plot.Axis{&pl.X, &pl.Y} {
		ax.Color = foreground
		ax.Label.TextStyle.Color = foreground
		ax.Tick.Color = foreground
		ax.Tick.Label.Color = foreground
	}
	pl.Legend.TextStyle.Color = foreground
	return pl
}

// annotate draws the statistics block below the title of pl and the
// footer in the bottom right corner of c.
func annotate(c draw.Canvas, pl *plot.Plot, stats, footer string) {
	sty := pl.Title.TextStyle
	sty.Font = font.Font{Typeface: "Liberation", Variant: "Mono", Size: vg.Points(statsFontSize)}
	sty.XAlign = text.XLeft
	sty.YAlign = text.YTop

	top := c.Max.Y - pl.Title.TextStyle.Height(pl.Title.Text)
	left := c.Min.X + (c.Max.X-c.Min.X)*0.33
	if stats != "" {
		c.FillText(sty, vg.Point{X: left, Y: top}, strings.TrimRight(stats, "\n"))
	}

	if footer != "" {
		sty.Font.Size = vg.Points(footerFontSize)
		sty.XAlign = text.XRight
		sty.YAlign = text.YBottom
		c.FillText(sty, vg.Point{X: c.Max.X - vg.Points(2), Y: c.Min.Y + vg.Points(2)}, footer)
	}
}

// save draws pl, then decorations, onto a PNG canvas and writes it to
// path.
func save(pl *plot.Plot, path string, opts *Options, decorate func(draw.Canvas)) error {
	img := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
		vgimg.UseBackgroundColor(background),
	)
	c := draw.New(img)
	pl.Draw(c)
	decorate(c)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
