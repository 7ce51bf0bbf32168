package web

import (
	"fmt"
	"math"
)

// ColorScale is a list of hex stops from the lowest to the highest value.
type ColorScale []string

var (
	Blues   = ColorScale{"#deebf7", "#9ecae1", "#4292c6", "#08519c"}
	Viridis = ColorScale{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}
)

// At interpolates the scale at t in [0, 1].
func (s ColorScale) At(t float64) string {
	if len(s) == 0 {
		return "#888888"
	}
	if len(s) == 1 || math.IsNaN(t) {
		return s[0]
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(s)-1)
	i := int(math.Floor(pos))
	if i >= len(s)-1 {
		return s[len(s)-1]
	}
	a, b := parseHex(s[i]), parseHex(s[i+1])
	frac := pos - float64(i)
	var out [3]int
	for c := range out {
		out[c] = int(math.Round(float64(a[c]) + (float64(b[c])-float64(a[c]))*frac))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

func parseHex(h string) [3]int {
	var rgb [3]int
	if _, err := fmt.Sscanf(h, "#%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return [3]int{136, 136, 136}
	}
	return rgb
}

type Bar struct {
	Label   string
	Value   int
	X       float64
	Y       float64
	Width   float64
	Height  float64
	CenterX float64
	ValueY  float64
	Fill    string
}

// BarChart is a vertical bar chart laid out for the barchart template.
type BarChart struct {
	Title    string
	Width    float64
	Height   float64
	Left     float64
	Right    float64
	Baseline float64
	LabelY   float64
	Bars     []Bar
}

const (
	chartSlot    = 56.0
	chartMinW    = 480.0
	chartHeight  = 380.0
	chartTop     = 48.0
	chartBottom  = 120.0
	chartPadding = 24.0
)

// NewBarChart lays out one bar per label. Bar height and color are scaled to
// the largest value.
func NewBarChart(title string, labels []string, values []int, scale ColorScale) BarChart {
	n := len(labels)
	if len(values) < n {
		n = len(values)
	}
	width := math.Max(chartMinW, chartPadding*2+chartSlot*float64(n))
	c := BarChart{
		Title:    title,
		Width:    width,
		Height:   chartHeight,
		Left:     chartPadding,
		Right:    width - chartPadding,
		Baseline: chartHeight - chartBottom,
		LabelY:   chartHeight - chartBottom + 14,
	}

	maxV := 0
	for _, v := range values[:n] {
		if v > maxV {
			maxV = v
		}
	}
	plotH := c.Baseline - chartTop
	for i := 0; i < n; i++ {
		v := values[i]
		frac := 0.0
		if maxV > 0 {
			frac = float64(v) / float64(maxV)
		}
		h := plotH * frac
		x := chartPadding + chartSlot*float64(i) + chartSlot*0.15
		w := chartSlot * 0.7
		c.Bars = append(c.Bars, Bar{
			Label:   labels[i],
			Value:   v,
			X:       x,
			Y:       c.Baseline - h,
			Width:   w,
			Height:  h,
			CenterX: x + w/2,
			ValueY:  c.Baseline - h - 4,
			Fill:    scale.At(frac),
		})
	}
	return c
}
