package trajplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes an interactive top-down scatter of the tracks, one
// series per frame id. Each point carries its frame instant.
func RenderHTML(w io.Writer, title string, tracks ...Track) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("tracks=%d", len(tracks))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Z (m)", NameLocation: "middle", NameGap: 30}),
	)

	drawn := 0
	for _, tr := range tracks {
		if len(tr.Samples) == 0 {
			continue
		}
		data := make([]opts.ScatterData, 0, len(tr.Samples))
		for _, s := range tr.Samples {
			data = append(data, opts.ScatterData{
				Value: []interface{}{s.Pose.Translation.X, s.Pose.Translation.Z, int64(s.Time)},
			})
		}
		scatter.AddSeries(tr.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("no samples to plot")
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
