package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalWords(t *testing.T) {
	cases := []struct {
		name     string
		chapters []Chapter
		want     int
	}{
		{"single chapter", []Chapter{{Index: 1, TextRaw: "Hello world"}}, 2},
		{"multi chapter sums", []Chapter{
			{Index: 1, TextRaw: "one two three"},
			{Index: 2, TextRaw: "four five"},
		}, 5},
		{"collapses whitespace", []Chapter{{Index: 1, TextRaw: "a   b\tc\nd"}}, 4},
		{"empty text", []Chapter{{Index: 1, TextRaw: ""}}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Story{Chapters: tc.chapters}
			assert.Equal(t, tc.want, s.TotalWords())
		})
	}
}

func TestOrderedVisibleTags(t *testing.T) {
	s := &Story{
		Tags: []TagRef{
			{Type: TagTypeGenre, Name: "fluff"},
			{Type: TagTypeStatus, Name: "completed"}, // internal, excluded
			{Type: TagTypeGenre, Name: "angst"},
			{Type: TagTypeCharacter, Name: "alice"},
			{Type: TagTypeGenre, Name: "angst", Implied: true}, // explicit wins, dedup'd
			{Type: TagTypeGenre, Name: "hurt/comfort", Implied: true},
		},
	}

	visible := s.OrderedVisibleTags()
	require.Len(t, visible, 4)
	// sorted by (Type, Name): character < genre
	assert.Equal(t, TagTypeCharacter, visible[0].Type)
	assert.Equal(t, "alice", visible[0].Name)
	assert.Equal(t, "angst", visible[1].Name)
	assert.False(t, visible[1].Implied)
	assert.Equal(t, "fluff", visible[2].Name)
	assert.Equal(t, "hurt/comfort", visible[3].Name)
	assert.True(t, visible[3].Implied)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("  foo  bar baz  "))
}
