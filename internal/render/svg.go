package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Clark-Hu/gradeboard/internal/grades"
)

// ErrNoChartData is returned when a chart would have nothing to draw.
var ErrNoChartData = errors.New("render: no chart data")

// Same palette as the client-side charts, in bucket order.
var bucketColors = []string{"#9cb0d8", "#d89cce", "#d8c49c", "#9cd8a6"}

const defaultScoreMax = 20

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// AverageChartSVG draws the average-bucket pie chart. Empty buckets are omitted.
func AverageChartSVG(w io.Writer, data grades.ChartData) error {
	values := make([]chart.Value, 0, len(data.Buckets))
	for i, b := range data.Buckets {
		if b.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", b.Label, b.Count),
			Value: float64(b.Count),
			Style: chart.Style{
				FillColor:   color(bucketColors[i%len(bucketColors)]),
				StrokeColor: chart.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return ErrNoChartData
	}

	pie := chart.PieChart{
		Title:  "Part d'étudiants par catégorie de moyenne",
		Width:  512,
		Height: 512,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

// CourseChartSVG draws one bar per score, labelled with the student id.
func CourseChartSVG(w io.Writer, course grades.CourseChart) error {
	if len(course.Scores) == 0 {
		return ErrNoChartData
	}

	yMin, yMax := 0.0, float64(defaultScoreMax)
	bars := make([]chart.Value, 0, len(course.Scores))
	for i, s := range course.Scores {
		v := float64(s)
		yMin = math.Min(yMin, v)
		yMax = math.Max(yMax, v)

		label := fmt.Sprintf("%d", i+1)
		if i < len(course.StudentIDs) {
			label = fmt.Sprintf("#%d", course.StudentIDs[i])
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: color(bucketColors[0]), StrokeColor: color(bucketColors[0])},
		})
	}

	width := 120 + 50*len(bars)
	if width < 400 {
		width = 400
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("Notes %s", course.Code),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      width,
		Height:     400,
		BarWidth:   30,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}
