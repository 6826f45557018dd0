package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	events "my-calendar/internal/events/service"
)

const (
	width  = 12 * vg.Inch
	height = 6 * vg.Inch
)

type category int

const (
	weekAndMonth category = iota
	weekOnly
	monthOnly
	other
)

var categories = []struct {
	label string
	color color.Color
}{
	weekAndMonth: {"Current Week & Month", color.RGBA{R: 255, G: 215, A: 255}},
	weekOnly:     {"Current Week", color.RGBA{R: 31, G: 119, B: 180, A: 255}},
	monthOnly:    {"Current Month", color.RGBA{R: 44, G: 160, B: 44, A: 255}},
	other:        {"others", color.RGBA{R: 150, G: 150, B: 150, A: 255}},
}

func categorize(stat events.DayStat) category {
	switch {
	case stat.InCurrentWeek && stat.InCurrentMonth:
		return weekAndMonth
	case stat.InCurrentWeek:
		return weekOnly
	case stat.InCurrentMonth:
		return monthOnly
	}
	return other
}

// RenderPNG draws one bar per day, coloured by whether the day falls in the
// current week and/or month.
func RenderPNG(stats *events.Statistics) ([]byte, error) {
	p, err := newPlot(stats)
	if err != nil {
		return nil, err
	}

	w, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func newPlot(stats *events.Statistics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Event Statistics"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Number of events per day"
	p.Y.Min = 0
	p.Legend.Top = true

	n := len(stats.PerDays)
	values := make([]plotter.Values, len(categories))
	used := make([]bool, len(categories))
	for c := range values {
		values[c] = make(plotter.Values, n)
	}

	labels := make([]string, n)
	for i, stat := range stats.PerDays {
		c := categorize(stat)
		values[c][i] = float64(stat.Count)
		used[c] = true
		labels[i] = stat.Date
	}

	barWidth := vg.Points(20)
	if n > 30 {
		barWidth = vg.Points(8)
	}
	for c, cat := range categories {
		if !used[c] {
			continue
		}
		bars, err := plotter.NewBarChart(values[c], barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build bars for %q: %w", cat.label, err)
		}
		bars.Color = cat.color
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(cat.label, bars)
	}

	if n > 0 {
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}
