package text_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newspulse/sentiment-dashboard/internal/text"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "punctuation", input: "Chips!!!   everywhere", want: "Chips everywhere"},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "remove urls", input: "Read https://example.com/a?b=c today", want: "Read today"},
		{name: "html entities", input: "AT&amp;T earnings", want: "AT T earnings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, text.Clean(tt.input))
		})
	}
}

func TestWordFrequencies(t *testing.T) {
	corpus := "The chip chip chip market and the cloud cloud grew"
	freq := text.WordFrequencies(corpus, 0, 3)

	require.Equal(t, 3, freq["chip"])
	require.Equal(t, 2, freq["cloud"])
	require.Equal(t, 1, freq["market"])
	require.Equal(t, 1, freq["grew"])
	require.NotContains(t, freq, "the")
	require.NotContains(t, freq, "and")
}

func TestWordFrequenciesLimit(t *testing.T) {
	corpus := "alpha alpha alpha beta beta gamma delta"
	freq := text.WordFrequencies(corpus, 2, 3)

	require.Len(t, freq, 2)
	require.Equal(t, 3, freq["alpha"])
	require.Equal(t, 2, freq["beta"])
}

func TestWordFrequenciesMinLength(t *testing.T) {
	freq := text.WordFrequencies("go is ok but kubernetes wins", 0, 4)
	require.NotContains(t, freq, "go")
	require.NotContains(t, freq, "ok")
	require.Equal(t, 1, freq["kubernetes"])
	require.Equal(t, 1, freq["wins"])
}

func TestWordFrequenciesEmpty(t *testing.T) {
	require.Nil(t, text.WordFrequencies("", 10, 3))
	require.Nil(t, text.WordFrequencies("!!! ???", 10, 3))
}
