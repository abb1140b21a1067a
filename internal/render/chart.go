package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// ErrBadChartData is returned when chart labels and values cannot be paired.
var ErrBadChartData = errors.New("chart labels and values do not match")

// Unit is the display convention of chart values.
type Unit struct {
	Prefix string
	Suffix string
}

// DefaultUnit formats values as billions of reais.
var DefaultUnit = Unit{Prefix: "R$ ", Suffix: "bi"}

func (u Unit) Format(v float64) string {
	return u.Prefix + strconv.FormatFloat(v, 'f', -1, 64) + u.Suffix
}

// Chart turns labelled values into a renderable bar chart.
type Chart interface {
	Render(data slides.ChartData) (template.HTML, error)
}

// SVGChart renders an inline SVG bar chart. The last bar is highlighted.
type SVGChart struct {
	Width  int
	Height int
	Unit   Unit
}

func NewSVGChart(unit Unit) *SVGChart {
	return &SVGChart{Width: 640, Height: 320, Unit: unit}
}

type svgBar struct {
	X, Y, W, H float64
	Label      string
	Value      string
	Opacity    float64
}

var svgTmpl = template.Must(template.New("chart").Parse(`<svg class="chart" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.Width}} {{.Height}}" role="img">
{{- range .Bars}}
<rect x="{{printf "%.1f" .X}}" y="{{printf "%.1f" .Y}}" width="{{printf "%.1f" .W}}" height="{{printf "%.1f" .H}}" rx="4" fill="hsl(221, 83%, 53%)" fill-opacity="{{.Opacity}}"><title>{{.Value}}</title></rect>
<text x="{{printf "%.1f" .X}}" y="{{printf "%.1f" $.LabelY}}" font-size="12">{{.Label}}</text>
{{- end}}
</svg>`))

func (c *SVGChart) Render(data slides.ChartData) (template.HTML, error) {
	if len(data.Labels) != len(data.Values) {
		return "", ErrBadChartData
	}

	const bottom = 24.0
	plot := float64(c.Height) - bottom
	maxVal := 0.0
	for _, v := range data.Values {
		maxVal = math.Max(maxVal, v)
	}

	bars := make([]svgBar, len(data.Values))
	if n := len(data.Values); n > 0 {
		slot := float64(c.Width) / float64(n)
		for i, v := range data.Values {
			h := 0.0
			if maxVal > 0 && v > 0 {
				h = plot * v / maxVal
			}
			opacity := 0.8
			if i == n-1 {
				opacity = 1
			}
			bars[i] = svgBar{
				X:       float64(i)*slot + slot*0.15,
				Y:       plot - h,
				W:       slot * 0.7,
				H:       h,
				Label:   data.Labels[i],
				Value:   c.Unit.Format(v),
				Opacity: opacity,
			}
		}
	}

	var buf bytes.Buffer
	err := svgTmpl.Execute(&buf, struct {
		Width, Height int
		LabelY        float64
		Bars          []svgBar
	}{c.Width, c.Height, float64(c.Height) - 6, bars})
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ChartDataOf extracts chart data from a content value.
func ChartDataOf(v any) (slides.ChartData, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return slides.ChartData{}, ErrBadChartData
	}
	labels, _ := m["labels"].([]any)
	values, _ := m["values"].([]any)
	if len(labels) != len(values) {
		return slides.ChartData{}, ErrBadChartData
	}

	var d slides.ChartData
	for i := range labels {
		f, ok := number(values[i])
		if !ok {
			return slides.ChartData{}, fmt.Errorf("%w: value %d is not a number", ErrBadChartData, i)
		}
		d.Labels = append(d.Labels, scalar(labels[i]))
		d.Values = append(d.Values, f)
	}
	return d, nil
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func chartNode(c *Context, v any) Node {
	data, err := ChartDataOf(v)
	if err != nil {
		return Node{Type: NodePlaceholder, Role: "chartData", Text: "Gráfico indisponível"}
	}
	html, err := c.Chart.Render(data)
	if err != nil {
		return Node{Type: NodePlaceholder, Role: "chartData", Text: "Gráfico indisponível"}
	}
	n := Node{Type: NodeChart, Role: "chartData", Raw: html}
	unit := unitOf(c.Chart)
	for i, l := range data.Labels {
		n.Children = append(n.Children, Node{Type: NodeItem, Role: "bar", Text: l + ": " + unit.Format(data.Values[i])})
	}
	return n
}

// unitOf returns the unit used by chart, or DefaultUnit.
func unitOf(chart Chart) Unit {
	if u, ok := chart.(interface{ DisplayUnit() Unit }); ok {
		return u.DisplayUnit()
	}
	return DefaultUnit
}

func (c *SVGChart) DisplayUnit() Unit { return c.Unit }
