package main

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/BoxedFruits/pitch-detection-app/pkg/tuner"
)

const (
	chartPoints = 120
	chartMinHz  = 60.0
	chartMaxHz  = 400.0
)

// chartY maps a frequency to a 0..1 position from the top of the chart.
// Frequencies outside the plotted band clamp to its edges.
func chartY(freq float64) float32 {
	if freq < chartMinHz {
		freq = chartMinHz
	}
	if freq > chartMaxHz {
		freq = chartMaxHz
	}
	return float32(1 - (freq-chartMinHz)/(chartMaxHz-chartMinHz))
}

// HistoryChart draws the recent detected-frequency trace. It renders the
// newest chartPoints entries of a history snapshot as connected segments,
// breaking the trace where no pitch was detected.
type HistoryChart struct {
	widget.BaseWidget
	mu      sync.Mutex
	entries []tuner.Entry
}

func NewHistoryChart() *HistoryChart {
	c := &HistoryChart{}
	c.ExtendBaseWidget(c)
	return c
}

// SetHistory replaces the plotted snapshot.
func (c *HistoryChart) SetHistory(entries []tuner.Entry) {
	if len(entries) > chartPoints {
		entries = entries[len(entries)-chartPoints:]
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	c.Refresh()
}

func (c *HistoryChart) snapshot() []tuner.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

func (c *HistoryChart) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 28, A: 255})
	segments := make([]*canvas.Line, chartPoints-1)
	for i := range segments {
		segments[i] = canvas.NewLine(color.NRGBA{R: 120, G: 200, B: 160, A: 255})
		segments[i].StrokeWidth = 1.5
		segments[i].Hide()
	}
	return &historyChartRenderer{chart: c, background: background, segments: segments}
}

type historyChartRenderer struct {
	chart      *HistoryChart
	background *canvas.Rectangle
	segments   []*canvas.Line
}

func (r *historyChartRenderer) Layout(size fyne.Size) {
	r.background.Move(fyne.NewPos(0, 0))
	r.background.Resize(size)

	entries := r.chart.snapshot()
	dx := size.Width / float32(chartPoints-1)
	for i, seg := range r.segments {
		if i+1 >= len(entries) || entries[i].Frequency <= 0 || entries[i+1].Frequency <= 0 {
			seg.Hide()
			continue
		}
		seg.Show()
		seg.Position1 = fyne.NewPos(float32(i)*dx, chartY(entries[i].Frequency)*size.Height)
		seg.Position2 = fyne.NewPos(float32(i+1)*dx, chartY(entries[i+1].Frequency)*size.Height)
		seg.Refresh()
	}
}

func (r *historyChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(360, 120)
}

func (r *historyChartRenderer) Refresh() {
	r.Layout(r.chart.Size())
	canvas.Refresh(r.chart)
}

func (r *historyChartRenderer) Destroy() {}

func (r *historyChartRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.segments)+1)
	objs = append(objs, r.background)
	for _, seg := range r.segments {
		objs = append(objs, seg)
	}
	return objs
}
