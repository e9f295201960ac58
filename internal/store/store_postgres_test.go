package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow is a rowScanner stand-in so scanStory can be unit tested without
// a live connection.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = r.values[i].(string)
		case *int:
			*v = r.values[i].(int)
		}
	}
	return nil
}

func TestScanStory(t *testing.T) {
	row := fakeRow{values: []any{
		"s1", "pub", "author", "title", "<p>summary</p>", "en",
		"completed", "explicit", "https://example.com", "2020-01-01", "2020-02-01",
		"2020-03-01", "group", "name", 42,
	}}

	story, err := scanStory(row)
	require.NoError(t, err)
	assert.Equal(t, "s1", story.ID)
	assert.Equal(t, "pub", story.Publisher)
	assert.EqualValues(t, "completed", story.Status)
	assert.Equal(t, 42, story.Score)
}

func TestScanStoryPropagatesScanError(t *testing.T) {
	_, err := scanStory(fakeRow{err: errors.New("boom")})
	assert.Error(t, err)
}

func TestPrefixColumns(t *testing.T) {
	cols := []string{"id", "publisher", "title"}
	prefixed := prefixColumns("s", cols)

	// Only the first element carries the prefix; the join separator used
	// at call sites (", s.") supplies it for every subsequent column.
	require.Len(t, prefixed, 3)
	assert.Equal(t, "s.id", prefixed[0])
	assert.Equal(t, "publisher", prefixed[1])
	assert.Equal(t, "title", prefixed[2])
}
