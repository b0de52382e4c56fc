package statsservice

import (
	"bytes"
	"errors"
	"fmt"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartKind selects which chart to render.
type ChartKind string

const (
	ChartRunningScore ChartKind = "running-score"
	ChartTrumps       ChartKind = "trumps"
)

// ErrUnknownChart is returned for a ChartKind that has no renderer.
var ErrUnknownChart = errors.New("unknown chart kind")

// ChartPalette holds the colors charts are drawn with.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	UsLine     drawing.Color
	ThemLine   drawing.Color
	TargetLine drawing.Color
	Trumps     map[belotetypes.TrumpColor]drawing.Color
}

// DefaultPalette is the green felt palette of the score sheet.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("FEFEE3"),
	TextColor:  drawing.ColorFromHex("333333"),
	UsLine:     drawing.ColorFromHex("2C6E49"),
	ThemLine:   drawing.ColorFromHex("8C2F39"),
	TargetLine: drawing.ColorFromHex("D68C45"),
	Trumps: map[belotetypes.TrumpColor]drawing.Color{
		belotetypes.TrumpColorRed:   drawing.ColorFromHex("C0392B"),
		belotetypes.TrumpColorBlack: drawing.ColorFromHex("2D3436"),
		belotetypes.TrumpColorBlue:  drawing.ColorFromHex("2E86C1"),
		belotetypes.TrumpColorGold:  drawing.ColorFromHex("D4AC0D"),
	},
}

// RenderChart renders kind for game as a PNG.
func RenderChart(game belotetypes.Game, kind ChartKind, palette ChartPalette) ([]byte, error) {
	switch kind {
	case ChartRunningScore:
		return GenerateRunningScoreChart(game, palette)
	case ChartTrumps:
		return GenerateTrumpChart(Compute(game), palette)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
}

// GenerateRunningScoreChart plots both cumulative scores per round against
// the target score.
func GenerateRunningScoreChart(game belotetypes.Game, palette ChartPalette) ([]byte, error) {
	if len(game.Rounds) == 0 {
		return renderNoDataPlaceholder(palette, "No rounds played yet")
	}

	// Round 0 anchors both lines at zero so a single round still spans a range.
	n := len(game.Rounds) + 1
	xValues := make([]float64, n)
	usValues := make([]float64, n)
	themValues := make([]float64, n)
	top := float64(game.TargetScore)

	for i, point := range Compute(game).RunningScore {
		xValues[i+1] = float64(i + 1)
		usValues[i+1] = float64(point.Us)
		themValues[i+1] = float64(point.Them)
		top = max(top, usValues[i+1], themValues[i+1])
	}
	if top <= 0 {
		top = 1
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    game.TeamName(belotetypes.TeamUs),
			XValues: xValues,
			YValues: usValues,
			Style: chart.Style{
				StrokeColor: palette.UsLine,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    palette.UsLine,
			},
		},
		chart.ContinuousSeries{
			Name:    game.TeamName(belotetypes.TeamThem),
			XValues: xValues,
			YValues: themValues,
			Style: chart.Style{
				StrokeColor: palette.ThemLine,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    palette.ThemLine,
			},
		},
	}
	if game.TargetScore > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Target",
			XValues: []float64{0, float64(n - 1)},
			YValues: []float64{float64(game.TargetScore), float64(game.TargetScore)},
			Style: chart.Style{
				StrokeColor:     palette.TargetLine,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	graph := chart.Chart{
		Title:  game.Title,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		XAxis: chart.XAxis{
			Name: "Round",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
			Style: chart.Style{FontColor: palette.TextColor},
		},
		YAxis: chart.YAxis{
			Name:  "Score",
			Style: chart.Style{FontColor: palette.TextColor},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return render(graph)
}

// GenerateTrumpChart draws the trump distribution as a pie chart.
func GenerateTrumpChart(stats GameStats, palette ChartPalette) ([]byte, error) {
	if len(stats.Trumps) == 0 {
		return renderNoDataPlaceholder(palette, "No trumps played yet")
	}

	values := make([]chart.Value, 0, len(stats.Trumps))
	for _, usage := range stats.Trumps {
		values = append(values, chart.Value{
			Value: float64(usage.Count),
			Label: fmt.Sprintf("%s (%d)", usage.Trump, usage.Count),
			Style: chart.Style{
				FillColor:   palette.Trumps[usage.Color],
				StrokeColor: palette.Background,
				FontColor:   drawing.ColorWhite,
			},
		})
	}

	pie := chart.PieChart{
		Width:  400,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Values: values,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render refuses a chart without series.
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{Hidden: true},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	return render(graph)
}

func render(graph chart.Chart) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
