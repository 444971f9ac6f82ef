// Package report renders training results as HTML charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/training"
)

// ErrEmptyCurve is returned when there are no samples to plot.
var ErrEmptyCurve = errors.New("learning curve has no samples")

// WriteLearningCurve renders the greedy win rate and the value table size
// against the episode count as an HTML page.
func WriteLearningCurve(w io.Writer, curve []training.CurvePoint) error {
	if len(curve) == 0 {
		return ErrEmptyCurve
	}

	episodes := make([]string, 0, len(curve))
	winRates := make([]opts.LineData, 0, len(curve))
	sizes := make([]opts.LineData, 0, len(curve))
	for _, p := range curve {
		episodes = append(episodes, strconv.Itoa(p.Episode))
		winRates = append(winRates, opts.LineData{Value: p.WinRate})
		sizes = append(sizes, opts.LineData{Value: p.TableSize})
	}

	winLine := charts.NewLine()
	winLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Win rate vs random",
			Subtitle: fmt.Sprintf("%d samples", len(curve)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	winLine.SetXAxis(episodes).AddSeries("win rate", winRates)

	sizeLine := charts.NewLine()
	sizeLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Value table size"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	sizeLine.SetXAxis(episodes).AddSeries("entries", sizes)

	page := components.NewPage()
	page.AddCharts(winLine, sizeLine)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render learning curve: %w", err)
	}
	return nil
}

// SaveLearningCurve writes the chart to path, creating parent directories.
func SaveLearningCurve(path string, curve []training.CurvePoint) error {
	if len(curve) == 0 {
		return ErrEmptyCurve
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := WriteLearningCurve(f, curve); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
