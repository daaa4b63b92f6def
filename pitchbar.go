package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	barFullScaleCents = 50 // half a semitone each way fills the bar
	barStepCents      = 5  // deviation is shown in discrete steps
	inTuneCents       = 5
)

// quantizeCents snaps a deviation to the bar's step grid, clamped to full
// scale. Returns the number of steps, signed (negative = flat).
func quantizeCents(cents int) int {
	if cents > barFullScaleCents {
		cents = barFullScaleCents
	}
	if cents < -barFullScaleCents {
		cents = -barFullScaleCents
	}
	if cents >= 0 {
		return (cents + barStepCents/2) / barStepCents
	}
	return -((-cents + barStepCents/2) / barStepCents)
}

// CentsBar is a horizontal indicator of tuning deviation. The filled
// region grows from the center line in discrete steps: right when sharp,
// left when flat, green when within tolerance.
type CentsBar struct {
	widget.BaseWidget
	steps  int
	inTune bool
}

func NewCentsBar() *CentsBar {
	b := &CentsBar{}
	b.ExtendBaseWidget(b)
	return b
}

// SetCents updates the displayed deviation. Pass hasPitch=false to blank
// the bar while nothing is detected.
func (b *CentsBar) SetCents(cents int, hasPitch bool) {
	if !hasPitch {
		b.steps = 0
		b.inTune = false
		b.Refresh()
		return
	}
	b.steps = quantizeCents(cents)
	b.inTune = cents >= -inTuneCents && cents <= inTuneCents
	b.Refresh()
}

func (b *CentsBar) CreateRenderer() fyne.WidgetRenderer {
	line := canvas.NewRectangle(color.NRGBA{R: 160, G: 160, B: 160, A: 180})
	fill := canvas.NewRectangle(color.NRGBA{R: 220, G: 80, B: 80, A: 220})
	return &centsBarRenderer{bar: b, line: line, fill: fill}
}

type centsBarRenderer struct {
	bar  *CentsBar
	line *canvas.Rectangle
	fill *canvas.Rectangle
}

func (r *centsBarRenderer) Layout(size fyne.Size) {
	centerX := size.Width / 2
	r.line.Move(fyne.NewPos(centerX-1, 0))
	r.line.Resize(fyne.NewSize(2, size.Height))

	maxSteps := barFullScaleCents / barStepCents
	steps := r.bar.steps
	if steps == 0 && !r.bar.inTune {
		r.fill.Hide()
		return
	}
	r.fill.Show()

	stepWidth := (size.Width / 2) / float32(maxSteps)
	width := stepWidth * float32(abs(steps))
	if width < stepWidth {
		width = stepWidth // in tune still shows one centered notch
	}
	switch {
	case r.bar.inTune:
		r.fill.FillColor = color.NRGBA{R: 70, G: 190, B: 90, A: 220}
		r.fill.Move(fyne.NewPos(centerX-width/2, 0))
	case steps > 0:
		r.fill.FillColor = color.NRGBA{R: 220, G: 80, B: 80, A: 220}
		r.fill.Move(fyne.NewPos(centerX, 0))
	default:
		r.fill.FillColor = color.NRGBA{R: 80, G: 140, B: 230, A: 220}
		r.fill.Move(fyne.NewPos(centerX-width, 0))
	}
	r.fill.Resize(fyne.NewSize(width, size.Height))
	r.fill.Refresh()
}

func (r *centsBarRenderer) MinSize() fyne.Size {
	return fyne.NewSize(220, 22)
}

func (r *centsBarRenderer) Refresh() {
	r.Layout(r.bar.Size())
	canvas.Refresh(r.bar)
}

func (r *centsBarRenderer) Destroy() {}

func (r *centsBarRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.fill, r.line}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
