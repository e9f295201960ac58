package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/store"
)

// fakeStore is a minimal in-memory store.Store used only to drive the
// planner's phase logic; it ignores cursor pagination (always returns
// everything in one page) since the planner's own loops only depend on
// HasMore eventually going false.
type fakeStore struct {
	stories    []*model.Story
	authors    []model.Author
	series     []*model.Series
	publishers []model.Publisher
	categories map[string][]model.Category
}

func (f *fakeStore) GetStory(ctx context.Context, publisher, id string) (*model.Story, error) {
	for _, s := range f.stories {
		if s.Publisher == publisher && s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func matchesQuery(s *model.Story, q store.StoryQuery) bool {
	if q.Publisher != "" && s.Publisher != q.Publisher {
		return false
	}
	if q.AuthorName != "" && s.AuthorName != q.AuthorName {
		return false
	}
	if q.TagType != "" {
		found := false
		for _, t := range s.Tags {
			if t.Type == q.TagType && (q.TagName == "" || t.Name == q.TagName) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.CategoryName != "" {
		found := false
		for _, t := range s.Tags {
			if t.Type == model.TagTypeCategory && t.Name == q.CategoryName {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeStore) ListStories(ctx context.Context, q store.StoryQuery, cursor string, limit int) (store.Page[*model.Story], error) {
	var items []*model.Story
	for _, s := range f.stories {
		if matchesQuery(s, q) {
			items = append(items, s)
		}
	}
	return store.Page[*model.Story]{Items: items}, nil
}

func (f *fakeStore) CountStories(ctx context.Context, q store.StoryQuery) (int, error) {
	n := 0
	for _, s := range f.stories {
		if matchesQuery(s, q) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return f.publishers, nil
}

func (f *fakeStore) ListAuthors(ctx context.Context, publisher string, cursor string, limit int) (store.Page[model.Author], error) {
	var items []model.Author
	for _, a := range f.authors {
		if publisher == "" || a.Publisher == publisher {
			items = append(items, a)
		}
	}
	return store.Page[model.Author]{Items: items}, nil
}

func (f *fakeStore) FindAltIdentities(ctx context.Context, name string) ([]model.Author, error) {
	var out []model.Author
	for _, a := range f.authors {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSeries(ctx context.Context, publisher string, cursor string, limit int) (store.Page[*model.Series], error) {
	var items []*model.Series
	for _, s := range f.series {
		if publisher == "" || s.Publisher == publisher {
			items = append(items, s)
		}
	}
	return store.Page[*model.Series]{Items: items}, nil
}

func (f *fakeStore) ListCategories(ctx context.Context, publisher string) ([]model.Category, error) {
	return f.categories[publisher], nil
}

func (f *fakeStore) EnumerateTagTypes(ctx context.Context) ([]store.TagTypeCount, error) {
	counts := map[model.TagType]int{}
	for _, s := range f.stories {
		for _, t := range s.Tags {
			counts[t.Type]++
		}
	}
	var out []store.TagTypeCount
	for tagType, n := range counts {
		out = append(out, store.TagTypeCount{TagType: tagType, Count: n})
	}
	return out, nil
}

func (f *fakeStore) ListTagNames(ctx context.Context, publisher string, tagType model.TagType) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.stories {
		if publisher != "" && s.Publisher != publisher {
			continue
		}
		for _, t := range s.Tags {
			if t.Type == tagType && !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t.Name)
			}
		}
	}
	return out, nil
}

func sampleStore() *fakeStore {
	return &fakeStore{
		stories: []*model.Story{
			{
				ID: "1", Publisher: "ao3", AuthorName: "alice", Title: "Hello",
				PublishedDate: "2020-01-05", UpdatedDate: "2020-01-06",
				Chapters: []model.Chapter{{Index: 1, TextRaw: "hello world"}, {Index: 2, TextRaw: "more words here"}},
				Tags: []model.TagRef{
					{Type: model.TagTypeCategory, Name: "anime"},
					{Type: model.TagTypeGenre, Name: "fantasy"},
				},
			},
			{
				ID: "2", Publisher: "ao3", AuthorName: "bob", Title: "World",
				PublishedDate: "2020-02-01", UpdatedDate: "2020-02-01",
				Chapters: []model.Chapter{{Index: 1, TextRaw: "one"}},
				Tags:     []model.TagRef{{Type: model.TagTypeGenre, Name: "fantasy"}},
			},
		},
		authors: []model.Author{
			{Name: "alice", Publisher: "ao3"},
			{Name: "bob", Publisher: "ao3"},
		},
		series: []*model.Series{
			{Name: "collected works", Publisher: "ao3", Members: []model.SeriesMember{{StoryID: "1", Index: 1}, {StoryID: "2", Index: 2}}},
		},
		publishers: []model.Publisher{{Name: "ao3"}},
		categories: map[string][]model.Category{
			"ao3": {{Publisher: "ao3", Name: "anime"}},
		},
	}
}

func drain(t *testing.T, jobs <-chan Job, errs <-chan error) []Job {
	t.Helper()
	var out []Job
	for j := range jobs {
		out = append(out, j)
	}
	for err := range errs {
		require.NoError(t, err)
	}
	return out
}

func newTestPlanner(st store.Store) *Planner {
	return New(st, Config{StoriesPerPage: 20, ShardSize: 500, NMin: 0, NMax: 1000000})
}

func TestPlanEmitsStoryJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := aggregator.New(ctx)
	p := newTestPlanner(sampleStore())
	jobs, errs := p.Plan(ctx, agg)
	all := drain(t, jobs, errs)

	var paths []string
	for _, j := range all {
		if j.Phase == PhasePerStory {
			paths = append(paths, j.Path)
		}
	}
	assert.Contains(t, paths, "story/ao3/1/")
	assert.Contains(t, paths, "story/ao3/1/index")
	assert.Contains(t, paths, "story/ao3/1/preview.json")
	assert.Contains(t, paths, "story/ao3/1/1")
	assert.Contains(t, paths, "story/ao3/1/2")
}

func TestPlanEmitsAuthorJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := aggregator.New(ctx)
	p := newTestPlanner(sampleStore())
	jobs, errs := p.Plan(ctx, agg)
	all := drain(t, jobs, errs)

	var found bool
	for _, j := range all {
		if j.Phase == PhasePerAuthor && j.Kind == KindAuthorListPage && j.AuthorName == "alice" {
			found = true
			assert.Equal(t, "author/ao3/alice/1", j.Path)
		}
	}
	assert.True(t, found)
}

func TestPlanEmitsCategoryAndTagJobsWithDistinctPathShapes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := aggregator.New(ctx)
	p := newTestPlanner(sampleStore())
	jobs, errs := p.Plan(ctx, agg)
	all := drain(t, jobs, errs)

	var categoryPath, tagPath string
	for _, j := range all {
		if j.Kind == KindTagListPage && j.CategoryName == "anime" {
			categoryPath = j.Path
		}
		if j.Kind == KindTagListPage && j.TagType == model.TagTypeGenre {
			tagPath = j.Path
		}
	}
	assert.Equal(t, "category/ao3/anime/1", categoryPath)
	assert.Equal(t, "tag/genre/fantasy/1", tagPath)
}

func TestPlanEmitsSeriesAndPublisherAndGlobalJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := aggregator.New(ctx)
	p := newTestPlanner(sampleStore())
	jobs, errs := p.Plan(ctx, agg)
	all := drain(t, jobs, errs)

	var hasSeries, hasPublisherLanding, hasGlobalIndex, hasRootRedirect bool
	for _, j := range all {
		switch {
		case j.Kind == KindSeriesPage:
			hasSeries = true
			assert.Equal(t, "series/ao3/collected+works/", j.Path)
		case j.Kind == KindPublisherLand:
			hasPublisherLanding = true
			assert.Equal(t, "publisher/ao3/", j.Path)
		case j.Kind == KindGlobalIndex:
			hasGlobalIndex = true
		case j.Kind == KindGlobalRedirect && j.Path == "":
			hasRootRedirect = true
		}
	}
	assert.True(t, hasSeries)
	assert.True(t, hasPublisherLanding)
	assert.True(t, hasGlobalIndex)
	assert.True(t, hasRootRedirect)
}

func TestPlanDetectsSlugCollision(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := sampleStore()
	st.authors = append(st.authors,
		model.Author{Name: "foo bar", Publisher: "ao3"},
		model.Author{Name: "foo+bar", Publisher: "ao3"},
	)

	agg := aggregator.New(ctx)
	p := newTestPlanner(st)
	jobs, errs := p.Plan(ctx, agg)

	for range jobs {
	}
	var gotErr error
	for err := range errs {
		gotErr = err
	}
	require.Error(t, gotErr)
}
