package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnsMatchFieldCount(t *testing.T) {
	assert.Len(t, Story.Columns(), 15)
	assert.Len(t, Chapter.Columns(), 5)
	assert.Len(t, StoryTag.Columns(), 5)
	assert.Len(t, Author.Columns(), 3)
	assert.Len(t, Series.Columns(), 2)
	assert.Len(t, SeriesMember.Columns(), 4)
}

func TestColumnsAreNonEmpty(t *testing.T) {
	for _, col := range Story.Columns() {
		assert.NotEmpty(t, col)
	}
}
