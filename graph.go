// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pagecarver

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxticks = 40

// createLine makes a horizontal series at a fixed y value, used to
// mark thresholds on the graph.
func createLine(xvalues []float64, y float64, c drawing.Color) chart.ContinuousSeries {
	var yvalues []float64
	for range xvalues {
		yvalues = append(yvalues, y)
	}
	return chart.ContinuousSeries{
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor: c,
		},
	}
}

// Graph draws the smoothed ink density profile of a page with the
// detected line regions marked, so segmentation behaviour can be
// inspected when tuning. profile is the per-row ink density, regions
// the detected lines, and name titles the chart.
func Graph(profile []float64, regions []image.Rectangle, name string, w io.Writer) error {
	if len(profile) < 2 {
		return errors.New("Not enough rows to graph")
	}

	var xvalues, yvalues []float64
	var max float64
	for row, v := range profile {
		xvalues = append(xvalues, float64(row))
		yvalues = append(yvalues, v)
		if v > max {
			max = v
		}
	}

	mainSeries := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	// annotate the start and end rows of each detected line
	var annotations []chart.Value2
	for i, r := range regions {
		annotations = append(annotations, chart.Value2{
			Label:  fmt.Sprintf("%d", i+1),
			XValue: float64(r.Min.Y),
			YValue: max,
		})
	}

	var ticks []chart.Tick
	tickevery := len(profile) / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for row := 0; row < len(profile); row += tickevery {
		ticks = append(ticks, chart.Tick{Value: float64(row), Label: fmt.Sprintf("%d", row)})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(profile) - 1), Label: fmt.Sprintf("%d", len(profile)-1)})

	// mark the blank-band rejection threshold
	minSeries := createLine(xvalues, max/10, chart.ColorAlternateGreen)

	graph := chart.Chart{
		Title:  name,
		Width:  3840,
		Height: 2160,
		XAxis: chart.XAxis{
			Name:  "Row",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(profile) - 1)},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Ink density",
		},
		Series: []chart.Series{
			mainSeries,
			minSeries,
			chart.AnnotationSeries{Annotations: annotations},
		},
	}
	return graph.Render(chart.PNG, w)
}
