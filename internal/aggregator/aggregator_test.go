package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaybeabitshy/zimfiction/internal/model"
)

func story(publisher, author string, words int, published, updated string, tags ...model.TagRef) *model.Story {
	return &model.Story{
		Publisher:     publisher,
		AuthorName:    author,
		PublishedDate: published,
		UpdatedDate:   updated,
		Chapters:      []model.Chapter{{Index: 0, TextRaw: wordsOf(words)}},
		Tags:          tags,
	}
}

func wordsOf(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += "w"
	}
	return out
}

func TestAggregatorTotals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	require.NoError(t, agg.ObserveStory(ctx, story("ao3", "alice", 100, "2020-01-05", "2020-02-10")))
	require.NoError(t, agg.ObserveStory(ctx, story("ao3", "bob", 50, "2020-01-20", "2020-01-20")))

	snap, err := agg.SealPhase(ctx, "per_story")
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalStories())
	assert.Equal(t, 150, snap.TotalWords())
	assert.Equal(t, 2, snap.TotalChapters())

	global := snap.GlobalHistogram()
	assert.Equal(t, 2, global["2020-01"].Published)
	assert.Equal(t, 1, global["2020-02"].Updated)
}

func TestAggregatorCategoryScopedByPublisher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	catTag := model.TagRef{Type: model.TagTypeCategory, Name: "anime"}
	require.NoError(t, agg.ObserveStory(ctx, story("siteA", "alice", 10, "2021-03-01", "2021-03-01", catTag)))
	require.NoError(t, agg.ObserveStory(ctx, story("siteB", "carol", 10, "2021-04-01", "2021-04-01", catTag)))

	snap, err := agg.SealPhase(ctx, "per_story")
	require.NoError(t, err)

	assert.Equal(t, 1, snap.CategoryCounts("siteA")["anime"])
	assert.Equal(t, 1, snap.CategoryCounts("siteB")["anime"])
	assert.Equal(t, 1, snap.CategoryHistogram("siteA", "anime")["2021-03"].Published)
	assert.Equal(t, 1, snap.CategoryHistogram("siteB", "anime")["2021-04"].Published)
}

func TestAggregatorNonCategoryTagIsGlobal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	fandomTag := model.TagRef{Type: model.TagTypeGenre, Name: "fantasy"}
	require.NoError(t, agg.ObserveStory(ctx, story("siteA", "alice", 10, "2021-03-01", "2021-03-01", fandomTag)))
	require.NoError(t, agg.ObserveStory(ctx, story("siteB", "carol", 10, "2021-03-01", "2021-03-01", fandomTag)))

	snap, err := agg.SealPhase(ctx, "per_story")
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TagHistogram(model.TagTypeGenre, "fantasy")["2021-03"].Published)
}

func TestAggregatorAltIdentities(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	require.NoError(t, agg.ObserveAuthor(ctx, model.Author{Name: "alice", Publisher: "siteA"}))
	require.NoError(t, agg.ObserveAuthor(ctx, model.Author{Name: "alice", Publisher: "siteB"}))

	snap, err := agg.SealPhase(ctx, "per_author")
	require.NoError(t, err)

	alts := snap.AltIdentities("alice")
	require.Len(t, alts, 2)
	assert.ElementsMatch(t, []string{"siteA", "siteB"}, []string{alts[0].Publisher, alts[1].Publisher})
}

func TestAggregatorSeriesCounts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	require.NoError(t, agg.ObserveSeries(ctx, &model.Series{Name: "s1", Publisher: "siteA"}))
	require.NoError(t, agg.ObserveSeries(ctx, &model.Series{Name: "s2", Publisher: "siteA"}))

	snap, err := agg.SealPhase(ctx, "per_series")
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalSeries())
	assert.Equal(t, 2, snap.SeriesCount("siteA"))
	assert.Equal(t, 0, snap.SeriesCount("siteB"))
}

func TestAggregatorSnapshotIsIndependentOfLaterObservations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agg := New(ctx)

	require.NoError(t, agg.ObserveStory(ctx, story("ao3", "alice", 10, "2020-01-01", "2020-01-01")))
	snap, err := agg.SealPhase(ctx, "per_story")
	require.NoError(t, err)

	require.NoError(t, agg.ObserveStory(ctx, story("ao3", "bob", 20, "2020-01-01", "2020-01-01")))

	assert.Equal(t, 1, snap.TotalStories(), "sealed snapshot must not see contributions observed after sealing")
}
