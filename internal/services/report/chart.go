package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/stockdeck/internal/models"
)

// RenderPriceChart renders a PNG line chart of the close column and returns
// it base64-encoded for inline embedding.
func RenderPriceChart(symbol string, bars []models.Bar) (string, error) {
	if len(bars) < 2 {
		return "", fmt.Errorf("need at least 2 data points, got %d", len(bars))
	}

	xValues := make([]time.Time, len(bars))
	yValues := make([]float64, len(bars))
	for i, b := range bars {
		xValues[i] = b.Date
		yValues[i] = b.Close
	}

	closeSeries := chart.TimeSeries{
		Name: symbol,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - Close Price", symbol),
		Width:  1000,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{closeSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("chart render failed: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
