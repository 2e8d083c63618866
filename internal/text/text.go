// Package text prepares the article corpus for the word-frequency cloud.
package text

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s]+`)
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// Words this common carry no signal in a news word cloud.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "for": {},
	"from": {}, "with": {}, "by": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "has": {}, "have": {},
	"had": {}, "it": {}, "its": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "will": {}, "would": {}, "can": {}, "could": {},
	"said": {}, "says": {}, "new": {}, "more": {}, "about": {},
	"after": {}, "over": {}, "into": {}, "than": {}, "also": {},
	"not": {}, "they": {}, "their": {}, "which": {}, "who": {},
}

// Clean strips HTML entities, URLs and punctuation from the corpus and
// squeezes whitespace.
func Clean(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = urlPattern.ReplaceAllString(decoded, " ")
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// WordFrequencies tokenizes a corpus and counts lowercase words, dropping
// stop-words and tokens shorter than minLen runes. When limit is positive
// only the most frequent limit words are kept; ties break alphabetically.
func WordFrequencies(corpus string, limit, minLen int) map[string]int {
	clean := strings.ToLower(Clean(corpus))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}
	if limit <= 0 || len(freq) <= limit {
		return freq
	}

	type kv struct {
		word  string
		count int
	}
	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	top := make(map[string]int, limit)
	for _, p := range pairs[:limit] {
		top[p.word] = p.count
	}
	return top
}
