// Package aggregate turns a raw article load into the chart-ready summaries
// the dashboard renders. All reducers are pure; they never mutate their input.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/newspulse/sentiment-dashboard/internal/models"
)

// Summary bundles everything one page render needs: the filtered article
// set sorted most-recent-first plus the five aggregates and the word-cloud
// corpus. A Summary is immutable once built.
type Summary struct {
	Articles     []models.Article
	Distribution map[string]int
	DailyTrend   map[string]map[string]int
	Sources      map[string]map[string]int
	Hours        map[int]map[string]int
	Topics       map[string]int
	Corpus       string
	From         time.Time
	To           time.Time
	HasData      bool
}

// BuildSummary filters articles to the trailing window ending at now and
// computes all aggregates in one pass over the result. An empty window is a
// valid state: HasData is false and From/To are zero.
func BuildSummary(articles []models.Article, now time.Time, windowDays int) *Summary {
	filtered := FilterWindow(articles, now, windowDays)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PublishedAt.After(filtered[j].PublishedAt)
	})

	s := &Summary{
		Articles:     filtered,
		Distribution: Distribution(filtered),
		DailyTrend:   DailyTrend(filtered),
		Sources:      SourceBreakdown(filtered),
		Hours:        HourlyBreakdown(filtered),
		Topics:       TopicCounts(filtered),
		Corpus:       Corpus(filtered),
	}
	s.From, s.To, s.HasData = DateRange(filtered)
	return s
}

// FilterWindow keeps articles whose UTC calendar date lies within
// [today-days, today], where today is now's UTC date.
func FilterWindow(articles []models.Article, now time.Time, days int) []models.Article {
	today := dateOf(now)
	oldest := today.AddDate(0, 0, -days)

	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		day := dateOf(a.PublishedAt)
		if day.Before(oldest) || day.After(today) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Distribution counts articles per sentiment label.
func Distribution(articles []models.Article) map[string]int {
	counts := make(map[string]int)
	for _, a := range articles {
		counts[a.Sentiment]++
	}
	return counts
}

// DailyTrend counts articles per (day, sentiment). Day keys use the UTC
// "2006-01-02" form so they sort chronologically as strings.
func DailyTrend(articles []models.Article) map[string]map[string]int {
	trend := make(map[string]map[string]int)
	for _, a := range articles {
		day := a.Day()
		if trend[day] == nil {
			trend[day] = make(map[string]int)
		}
		trend[day][a.Sentiment]++
	}
	return trend
}

// SourceBreakdown counts articles per (source, sentiment).
func SourceBreakdown(articles []models.Article) map[string]map[string]int {
	bySource := make(map[string]map[string]int)
	for _, a := range articles {
		if bySource[a.Source] == nil {
			bySource[a.Source] = make(map[string]int)
		}
		bySource[a.Source][a.Sentiment]++
	}
	return bySource
}

// HourlyBreakdown counts articles per (UTC hour of day, sentiment).
func HourlyBreakdown(articles []models.Article) map[int]map[string]int {
	byHour := make(map[int]map[string]int)
	for _, a := range articles {
		h := a.Hour()
		if byHour[h] == nil {
			byHour[h] = make(map[string]int)
		}
		byHour[h][a.Sentiment]++
	}
	return byHour
}

// TopicCounts fans each article out to every topic it carries and counts
// articles per topic. An article with no topics contributes nothing here.
func TopicCounts(articles []models.Article) map[string]int {
	counts := make(map[string]int)
	for _, a := range articles {
		for _, topic := range a.Topics {
			counts[topic]++
		}
	}
	return counts
}

// Corpus joins every article's free text with single spaces; the word-cloud
// generator consumes it.
func Corpus(articles []models.Article) string {
	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		if t := strings.TrimSpace(a.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// DateRange reports the oldest and newest publish times in the set.
// ok is false for an empty set so callers never format a zero date.
func DateRange(articles []models.Article) (from, to time.Time, ok bool) {
	if len(articles) == 0 {
		return time.Time{}, time.Time{}, false
	}
	from, to = articles[0].PublishedAt, articles[0].PublishedAt
	for _, a := range articles[1:] {
		if a.PublishedAt.Before(from) {
			from = a.PublishedAt
		}
		if a.PublishedAt.After(to) {
			to = a.PublishedAt
		}
	}
	return from, to, true
}

// Sentiments returns the distinct sentiment labels of a distribution in
// sorted order, giving charts a stable series order.
func Sentiments(distribution map[string]int) []string {
	labels := make([]string, 0, len(distribution))
	for label := range distribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Days returns the trend's day keys in chronological order.
func Days(trend map[string]map[string]int) []string {
	days := make([]string, 0, len(trend))
	for day := range trend {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
