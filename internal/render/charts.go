package render

import (
	"fmt"
	"html/template"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	gorender "github.com/go-echarts/go-echarts/v2/render"

	"github.com/newspulse/sentiment-dashboard/internal/aggregate"
)

const (
	chartWidth  = "860px"
	chartHeight = "420px"
)

// chartBlock is one rendered widget: its container element and init script,
// ready for direct template embedding.
type chartBlock struct {
	Element template.HTML
	Script  template.HTML
}

func toBlock(r gorender.Renderer) chartBlock {
	snippet := r.RenderSnippet()
	return chartBlock{
		Element: template.HTML(snippet.Element),
		Script:  template.HTML(snippet.Script),
	}
}

func sentimentPie(dist map[string]int) chartBlock {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
	)

	items := make([]opts.PieData, 0, len(dist))
	for _, label := range aggregate.Sentiments(dist) {
		items = append(items, opts.PieData{Name: label, Value: dist[label]})
	}

	pie.AddSeries("sentiment", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return toBlock(pie.Renderer)
}

func trendLine(trend map[string]map[string]int, sentiments []string) chartBlock {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment Trend by Day"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
	)

	days := aggregate.Days(trend)
	line.SetXAxis(days)
	for _, label := range sentiments {
		data := make([]opts.LineData, 0, len(days))
		for _, day := range days {
			data = append(data, opts.LineData{Value: trend[day][label]})
		}
		line.AddSeries(label, data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)
	return toBlock(line.Renderer)
}

func hourlyBar(hours map[int]map[string]int, sentiments []string) chartBlock {
	keys := make([]int, 0, len(hours))
	for h := range hours {
		keys = append(keys, h)
	}
	sort.Ints(keys)

	axis := make([]string, 0, len(keys))
	for _, h := range keys {
		axis = append(axis, fmt.Sprintf("%02d:00", h))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment by Hour"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
	)

	bar.SetXAxis(axis)
	for _, label := range sentiments {
		data := make([]opts.BarData, 0, len(keys))
		for _, h := range keys {
			data = append(data, opts.BarData{Value: hours[h][label]})
		}
		bar.AddSeries(label, data)
	}
	return toBlock(bar.Renderer)
}

func sourceBar(sources map[string]map[string]int, sentiments []string) chartBlock {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment by News Source"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
	)

	bar.SetXAxis(names)
	for _, label := range sentiments {
		data := make([]opts.BarData, 0, len(names))
		for _, name := range names {
			data = append(data, opts.BarData{Value: sources[name][label]})
		}
		bar.AddSeries(label, data)
	}
	return toBlock(bar.Renderer)
}

func topicBar(topics map[string]int) chartBlock {
	type topicCount struct {
		name  string
		count int
	}
	ranked := make([]topicCount, 0, len(topics))
	for name, count := range topics {
		ranked = append(ranked, topicCount{name: name, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count == ranked[j].count {
			return ranked[i].name < ranked[j].name
		}
		return ranked[i].count > ranked[j].count
	})

	axis := make([]string, 0, len(ranked))
	data := make([]opts.BarData, 0, len(ranked))
	for _, tc := range ranked {
		axis = append(axis, tc.name)
		data = append(data, opts.BarData{Value: tc.count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Article Count by Topic"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
	)
	bar.SetXAxis(axis)
	bar.AddSeries("articles", data)
	return toBlock(bar.Renderer)
}
