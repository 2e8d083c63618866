// Package render maps the aggregated summaries onto one HTML document:
// chart widgets, an inline word-cloud image and a paginated headline table.
// It carries no business logic of its own.
package render

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/newspulse/sentiment-dashboard/internal/aggregate"
	"github.com/newspulse/sentiment-dashboard/internal/models"
	"github.com/newspulse/sentiment-dashboard/internal/text"
)

const pageTitle = "Tech News Sentiment Dashboard"

// Renderer turns summaries into dashboard pages.
type Renderer struct {
	pageSize int
	fontPath string
	log      *slog.Logger
	tmpl     *template.Template
}

// New builds a Renderer. pageSize is the table page length; fontPath may be
// empty to use the embedded fallback font for the word cloud.
func New(pageSize int, fontPath string, log *slog.Logger) (*Renderer, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tmpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &Renderer{pageSize: pageSize, fontPath: fontPath, log: log, tmpl: tmpl}, nil
}

type pageData struct {
	Title     string
	HasData   bool
	DateFrom  string
	DateTo    string
	Pie       chartBlock
	WordCloud template.URL
	Charts    []chartBlock
	Table     tableData
}

type tableData struct {
	Rows    []tableRow
	Total   int
	Page    int
	Pages   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

type tableRow struct {
	Source      string
	Title       string
	URL         string
	Topics      string
	Sentiment   string
	PublishedAt string
}

// Page writes the dashboard document for one table page. An empty summary
// renders the no-data body instead of charts.
func (r *Renderer) Page(w io.Writer, s *aggregate.Summary, pageNum int) error {
	data := pageData{Title: pageTitle}

	if s.HasData {
		sentiments := aggregate.Sentiments(s.Distribution)

		data.HasData = true
		data.DateFrom = s.From.UTC().Format("January 2, 2006")
		data.DateTo = s.To.UTC().Format("January 2, 2006")
		data.Pie = sentimentPie(s.Distribution)
		data.Charts = []chartBlock{
			trendLine(s.DailyTrend, sentiments),
			hourlyBar(s.Hours, sentiments),
			sourceBar(s.Sources, sentiments),
			topicBar(s.Topics),
		}
		data.Table = r.table(s.Articles, pageNum)

		freq := text.WordFrequencies(s.Corpus, maxCloudWords, minWordLength)
		cloud, err := wordCloudPNG(freq, r.fontPath)
		if err != nil {
			// The page is still useful without the cloud.
			r.log.Warn("word cloud rendering failed", slog.Any("err", err))
		} else if cloud != "" {
			data.WordCloud = template.URL("data:image/png;base64," + cloud)
		}
	}

	return r.tmpl.Execute(w, data)
}

// table slices the most-recent-first article set into one page of rows.
// Out-of-range page numbers clamp to the nearest valid page.
func (r *Renderer) table(articles []models.Article, pageNum int) tableData {
	total := len(articles)
	pages := (total + r.pageSize - 1) / r.pageSize
	if pages == 0 {
		pages = 1
	}
	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > pages {
		pageNum = pages
	}

	start := (pageNum - 1) * r.pageSize
	end := start + r.pageSize
	if end > total {
		end = total
	}

	rows := make([]tableRow, 0, end-start)
	for _, a := range articles[start:end] {
		rows = append(rows, tableRow{
			Source:      a.Source,
			Title:       a.Title,
			URL:         a.URL,
			Topics:      strings.Join(a.Topics, ", "),
			Sentiment:   a.Sentiment,
			PublishedAt: a.PublishedAt.UTC().Format("2006-01-02 15:04 UTC"),
		})
	}

	return tableData{
		Rows:    rows,
		Total:   total,
		Page:    pageNum,
		Pages:   pages,
		HasPrev: pageNum > 1,
		HasNext: pageNum < pages,
		Prev:    pageNum - 1,
		Next:    pageNum + 1,
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { font-family: "Segoe UI", sans-serif; background-color: #f4f6f9; padding: 30px; margin: 0; }
h1 { text-align: center; color: #2c3e50; }
h3.caption { text-align: center; color: #444; margin-bottom: 30px; font-weight: normal; }
.card { background-color: #fff; padding: 20px; border-radius: 10px; box-shadow: 0 0 10px rgba(0,0,0,0.1); margin: 0 auto 30px; max-width: 920px; }
.card.center { text-align: center; }
.card img { width: 100%; max-width: 800px; }
table { border-collapse: collapse; width: 100%; }
th { background-color: #e8eaf6; font-weight: bold; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #eee; }
nav.pager { margin-top: 12px; }
nav.pager a { margin-right: 12px; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{ if .HasData }}
<h3 class="caption">Showing articles from {{ .DateFrom }} &rarr; {{ .DateTo }}</h3>
<div class="card">{{ .Pie.Element }}{{ .Pie.Script }}</div>
{{ if .WordCloud }}
<div class="card center">
<h3>Word Cloud</h3>
<img src="{{ .WordCloud }}" alt="word cloud">
</div>
{{ end }}
{{ range .Charts }}
<div class="card">{{ .Element }}{{ .Script }}</div>
{{ end }}
<div class="card">
<h3>Headlines (Total: {{ .Table.Total }})</h3>
<table>
<thead>
<tr><th>Source</th><th>Title</th><th>Topics</th><th>Sentiment</th><th>Published At</th></tr>
</thead>
<tbody>
{{ range .Table.Rows }}
<tr>
<td>{{ .Source }}</td>
<td>{{ if .URL }}<a href="{{ .URL }}" target="_blank" rel="noopener">{{ .Title }}</a>{{ else }}{{ .Title }}{{ end }}</td>
<td>{{ .Topics }}</td>
<td>{{ .Sentiment }}</td>
<td>{{ .PublishedAt }}</td>
</tr>
{{ end }}
</tbody>
</table>
<nav class="pager">
{{ if .Table.HasPrev }}<a href="?page={{ .Table.Prev }}">&laquo; Prev</a>{{ end }}
<span>Page {{ .Table.Page }} of {{ .Table.Pages }}</span>
{{ if .Table.HasNext }}<a href="?page={{ .Table.Next }}">Next &raquo;</a>{{ end }}
</nav>
</div>
{{ else }}
<div class="card center">
<p>No articles in the current window. Check back once fresh data arrives.</p>
</div>
{{ end }}
</body>
</html>
`
