package render

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/newspulse/sentiment-dashboard/internal/aggregate"
	"github.com/newspulse/sentiment-dashboard/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixtureArticles(n int) []models.Article {
	articles := make([]models.Article, 0, n)
	sentiments := []string{"positive", "negative", "neutral"}
	for i := 0; i < n; i++ {
		articles = append(articles, models.Article{
			PublishedAt: testNow.Add(-time.Duration(i) * time.Hour),
			Title:       "Headline " + string(rune('A'+i%26)),
			Text:        "quantum chips shipping volume revenue quantum",
			Sentiment:   sentiments[i%len(sentiments)],
			Topics:      []string{"ai", "chips"},
			Source:      "wired",
			URL:         "https://example.com/a",
		})
	}
	return articles
}

func renderPage(t *testing.T, articles []models.Article, pageNum int) string {
	t.Helper()
	r, err := New(10, "", nil)
	require.NoError(t, err)

	s := aggregate.BuildSummary(articles, testNow, 7)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, s, pageNum))
	return buf.String()
}

func TestPageRendersChartsAndTable(t *testing.T) {
	html := renderPage(t, fixtureArticles(3), 1)

	require.Contains(t, html, "Tech News Sentiment Dashboard")
	require.Contains(t, html, "Showing articles from June 15, 2025")
	require.Contains(t, html, "Sentiment Distribution")
	require.Contains(t, html, "Sentiment Trend by Day")
	require.Contains(t, html, "Sentiment by Hour")
	require.Contains(t, html, "Sentiment by News Source")
	require.Contains(t, html, "Article Count by Topic")
	require.Contains(t, html, "data:image/png;base64,")
	require.Contains(t, html, "Headlines (Total: 3)")
	require.Contains(t, html, `<a href="https://example.com/a"`)
	require.Contains(t, html, "ai, chips")
}

func TestPageEmptyState(t *testing.T) {
	html := renderPage(t, nil, 1)

	require.Contains(t, html, "No articles in the current window")
	require.NotContains(t, html, "<table")
	require.NotContains(t, html, "data:image/png;base64,")
}

func TestTablePagination(t *testing.T) {
	r, err := New(10, "", nil)
	require.NoError(t, err)

	articles := fixtureArticles(15)

	first := r.table(articles, 1)
	require.Len(t, first.Rows, 10)
	require.Equal(t, 15, first.Total)
	require.Equal(t, 2, first.Pages)
	require.False(t, first.HasPrev)
	require.True(t, first.HasNext)

	second := r.table(articles, 2)
	require.Len(t, second.Rows, 5)
	require.True(t, second.HasPrev)
	require.False(t, second.HasNext)

	// Out-of-range pages clamp instead of erroring.
	clamped := r.table(articles, 99)
	require.Equal(t, 2, clamped.Page)
	require.Len(t, clamped.Rows, 5)
	require.Equal(t, 1, r.table(articles, -1).Page)
}

func TestTableRowsMostRecentFirst(t *testing.T) {
	s := aggregate.BuildSummary(fixtureArticles(5), testNow, 7)

	r, err := New(10, "", nil)
	require.NoError(t, err)
	rows := r.table(s.Articles, 1).Rows

	require.Len(t, rows, 5)
	prev := ""
	for i, row := range rows {
		if i > 0 {
			require.LessOrEqual(t, row.PublishedAt, prev)
		}
		prev = row.PublishedAt
	}
}

func TestTableRowCountMatchesFiltered(t *testing.T) {
	articles := fixtureArticles(8)
	s := aggregate.BuildSummary(articles, testNow, 7)

	html := renderPage(t, articles, 1)
	require.Equal(t, len(s.Articles), strings.Count(html, "<tr>")-1)
}

func TestEnsureFontFallback(t *testing.T) {
	path, err := ensureFont("")
	require.NoError(t, err)
	require.NotEmpty(t, path)

	// The fallback is written once per process and reused.
	again, err := ensureFont("")
	require.NoError(t, err)
	require.Equal(t, path, again)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, goregular.TTF, data)

	// Configured paths pass through untouched.
	got, err := ensureFont("/fonts/custom.ttf")
	require.NoError(t, err)
	require.Equal(t, "/fonts/custom.ttf", got)
}
