// Package chart renders the report figures as PNG images: count bar charts
// for each summary dimension and the annual strike-rate series with its
// control limits.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/feathermark/strikereport/internal/domain"
	"github.com/feathermark/strikereport/internal/report"
)

var (
	barColor    = color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	rateColor   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	centerColor = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	limitColor  = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

// RenderBar draws one bar per summary row, in the order the aggregator
// produced them.
func RenderBar(path, title, yLabel string, summaries []domain.PeriodSummary) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(summaries))
	labels := make([]string, len(summaries))
	for i, s := range summaries {
		values[i] = float64(s.Count)
		labels[i] = s.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", title, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = -0.6
		p.X.Tick.Label.XAlign = -0.9
	}

	return save(p, path, 8*vg.Inch, 4*vg.Inch)
}

// RenderRateSeries draws the annual rate line with the center line and
// control limits as dashed horizontal references.
func RenderRateSeries(path, title, yLabel string, annual []report.AnnualRate, limits domain.ControlLimits) error {
	if len(annual) == 0 {
		return fmt.Errorf("rate series %s: no annual rates", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(annual))
	for i, a := range annual {
		pts[i].X = float64(a.Year)
		pts[i].Y = a.Rate
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("rate series %s: %w", title, err)
	}
	line.Color = rateColor
	points.Color = rateColor
	p.Add(line, points)

	minYear := pts[0].X
	maxYear := pts[len(pts)-1].X
	if err := addReference(p, minYear, maxYear, limits.CenterLine, centerColor); err != nil {
		return err
	}
	if err := addReference(p, minYear, maxYear, limits.UpperLimit, limitColor); err != nil {
		return err
	}
	if err := addReference(p, minYear, maxYear, limits.LowerLimit, limitColor); err != nil {
		return err
	}

	// Integer year ticks; fractional years on the axis read as noise.
	p.X.Tick.Marker = yearTicks{}

	return save(p, path, 8*vg.Inch, 4*vg.Inch)
}

// maxFacets caps the small-multiple grid; the cross-tabulation is already
// suppression-filtered, but a wide year range can still produce more keys
// than a readable grid holds.
const maxFacets = 9

// RenderFacets draws one small bar chart per cross-tabulation key, arranged
// in a grid. Keys arrive ordered by total count, so the grid reads top-left
// to bottom-right by volume. periodOrder is the shared x axis of every facet.
func RenderFacets(path, title string, cells []report.CrossCount, periodOrder []string) error {
	keys, byKey := groupCells(cells)
	if len(keys) == 0 {
		return fmt.Errorf("facets %s: no cells", title)
	}
	if len(keys) > maxFacets {
		keys = keys[:maxFacets]
	}

	cols := 3
	if len(keys) < cols {
		cols = len(keys)
	}
	rows := (len(keys) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			i := r*cols + c
			if i >= len(keys) {
				continue
			}
			facet, err := facetPlot(keys[i], byKey[keys[i]], periodOrder)
			if err != nil {
				return fmt.Errorf("facets %s: %w", title, err)
			}
			plots[r][c] = facet
		}
	}

	img := vgimg.New(vg.Length(cols)*3*vg.Inch, vg.Length(rows)*2*vg.Inch)
	canvases := plot.Align(plots, draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Points(8), PadY: vg.Points(8),
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
	}, draw.New(img))
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chart output: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// groupCells splits the flat cross-tabulation into per-key period counts,
// preserving the incoming key order (descending by total).
func groupCells(cells []report.CrossCount) ([]string, map[string]map[string]int) {
	var keys []string
	byKey := make(map[string]map[string]int)
	for _, c := range cells {
		m, ok := byKey[c.Key]
		if !ok {
			m = make(map[string]int)
			byKey[c.Key] = m
			keys = append(keys, c.Key)
		}
		m[c.Period] = c.Count
	}
	return keys, byKey
}

func facetPlot(key string, counts map[string]int, periodOrder []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = key
	p.Title.TextStyle.Font.Size = vg.Points(9)
	p.X.Tick.Label.Font.Size = vg.Points(6)
	p.Y.Tick.Label.Font.Size = vg.Points(6)

	values := make(plotter.Values, len(periodOrder))
	for i, period := range periodOrder {
		values[i] = float64(counts[period])
	}
	bars, err := plotter.NewBarChart(values, vg.Points(6))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(periodOrder...)
	return p, nil
}

func addReference(p *plot.Plot, x0, x1, y float64, c color.Color) error {
	ref, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y}, {X: x1, Y: y}})
	if err != nil {
		return fmt.Errorf("reference line: %w", err)
	}
	ref.Color = c
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)
	return nil
}

// yearTicks marks whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for y := int(min); y <= int(max)+1; y++ {
		v := float64(y)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%d", y)})
	}
	return ticks
}

func save(p *plot.Plot, path string, w, h vg.Length) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chart output: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
