package portfolio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tomhartley/ledgerd/internal/models"
)

// RenderNetWorthChart renders a PNG line chart from net-worth history.
// Two series: Net Worth (blue solid) and Investments (gray dashed).
// Returns raw PNG bytes.
func RenderNetWorthChart(points []models.NetWorthPoint, currency string) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	netWorthY := make([]float64, len(points))
	investingY := make([]float64, len(points))

	for i, p := range points {
		xValues[i] = p.Date
		netWorthY[i] = p.NetWorth
		investingY[i] = p.Investing
	}

	symbol := "£"
	if currency == "USD" {
		symbol = "$"
	}

	netWorthSeries := chart.TimeSeries{
		Name: "Net Worth",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: netWorthY,
	}

	investingSeries := chart.TimeSeries{
		Name: "Investments",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: investingY,
	}

	graph := chart.Chart{
		Title:  "Net Worth",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", symbol, f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			netWorthSeries,
			investingSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
