// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package planner enumerates the complete set of output artifacts for one
build, partitioned into the six phases spec §4.1 fixes:

 1. per-story, 2. per-author, 3. per-series, 4. per-category/per-tag,
 5. per-publisher, 6. global.

Jobs within a phase are content-independent by construction: each job's
fields come either from a single read-only store projection or from an
aggregate already sealed by a prior phase (internal/aggregator), never
from another job in the same phase. The planner never materializes the
full job list — Plan streams jobs phase by phase over a channel so a full
archive dump never has to fit in memory at once.
*/
package planner

import (
	"context"
	"fmt"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/apperr"
	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/slug"
	"github.com/imaybeabitshy/zimfiction/internal/store"
)

// Phase identifies one of the six ordered stages jobs are enumerated in.
// Jobs in Phase N may depend on aggregates sealed during Phase N-1, never
// on other Phase N jobs (spec §4.1).
type Phase int

const (
	PhasePerStory Phase = iota + 1
	PhasePerAuthor
	PhasePerSeries
	PhasePerCategoryTag
	PhasePerPublisher
	PhaseGlobal
)

func (p Phase) String() string {
	switch p {
	case PhasePerStory:
		return "per_story"
	case PhasePerAuthor:
		return "per_author"
	case PhasePerSeries:
		return "per_series"
	case PhasePerCategoryTag:
		return "per_category_tag"
	case PhasePerPublisher:
		return "per_publisher"
	case PhaseGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Kind distinguishes the render/redirect shapes a Job can take.
type Kind string

const (
	KindChapterPage     Kind = "chapter_page"
	KindStoryIndex      Kind = "story_index"
	KindStoryPreview    Kind = "story_preview"
	KindStoryRedirect   Kind = "story_redirect"
	KindAuthorListPage  Kind = "author_list_page"
	KindAuthorChart     Kind = "author_chart"
	KindSeriesPage      Kind = "series_page"
	KindSeriesChart     Kind = "series_chart"
	KindTagListPage     Kind = "tag_list_page"
	KindTagStats        Kind = "tag_stats"
	KindTagSearchHeader Kind = "tag_search_header"
	KindTagSearchShard  Kind = "tag_search_shard"
	KindTagChart        Kind = "tag_chart"
	KindPublisherLand   Kind = "publisher_landing"
	KindPublisherCats   Kind = "publisher_categories"
	KindPublisherChart  Kind = "publisher_chart"
	KindGlobalRedirect  Kind = "global_redirect"
	KindGlobalIndex     Kind = "global_index"
	KindGlobalStats     Kind = "global_statistics"
	KindGlobalInfo      Kind = "global_info"
	KindGlobalAsset     Kind = "global_asset"
)

// Job is one unit of render work. Exactly the fields relevant to Kind are
// populated; the rest are the zero value.
type Job struct {
	Phase Phase
	Kind  Kind
	Path  string

	Publisher    string
	StoryID      string
	ChapterIndex int
	AuthorName   string
	TagType      model.TagType
	TagName      string
	CategoryName string
	SeriesName   string
	Page         int
	ShardIndex   int

	// AssetName identifies a global static asset job (stylesheet variant,
	// script file, favicon) without needing a dedicated Kind per file.
	AssetName string
}

// Planner enumerates jobs against an entity store, tracking per-scope slug
// collisions as it goes (spec §8 invariant 2).
type Planner struct {
	store          store.Store
	storiesPerPage int
	shardSize      int
	nMin, nMax     int

	// slugsSeen maps a "scope key" (e.g. "tag:fandom" or "author:ao3") to
	// the slugs already emitted for that scope, each mapped to the name it
	// came from, so a second distinct
	// name mapping to the same slug is caught before two jobs collide on
	// the same output path.
	slugsSeen map[string]map[string]string
}

// Config bundles the tunables Plan needs from internal/config.
type Config struct {
	StoriesPerPage int
	ShardSize      int
	NMin           int
	NMax           int
}

// New constructs a Planner against st.
func New(st store.Store, cfg Config) *Planner {
	return &Planner{
		store:          st,
		storiesPerPage: cfg.StoriesPerPage,
		shardSize:      cfg.ShardSize,
		nMin:           cfg.NMin,
		nMax:           cfg.NMax,
		slugsSeen:      make(map[string]map[string]string),
	}
}

// Plan streams every job across all six phases in phase order. The
// returned jobs channel is closed when enumeration completes, is
// cancelled, or fails; errs carries at most one error (a fatal
// apperr.AppError, typically PlanError on a slug collision).
func (p *Planner) Plan(ctx context.Context, agg *aggregator.Aggregator) (<-chan Job, <-chan error) {
	jobs := make(chan Job)
	errs := make(chan error, 1)

	go func() {
		defer close(jobs)
		defer close(errs)

		phases := []func(context.Context, chan<- Job, *aggregator.Aggregator) error{
			p.planPerStory,
			p.planPerAuthor,
			p.planPerSeries,
			p.planPerCategoryTag,
			p.planPerPublisher,
			p.planGlobal,
		}
		for _, phase := range phases {
			if err := phase(ctx, jobs, agg); err != nil {
				errs <- err
				return
			}
		}
	}()

	return jobs, errs
}

// checkSlug registers name's slug within scope and reports a PlanError if
// it collides with a previously seen, distinct name in the same scope
// (spec §8 invariant 2: "a b" and "a+b" both normalize to "a+b").
func (p *Planner) checkSlug(scope, name string) error {
	bucket, ok := p.slugsSeen[scope]
	if !ok {
		bucket = make(map[string]string)
		p.slugsSeen[scope] = bucket
	}

	normalized := slug.Normalize(name)
	if prior, exists := bucket[normalized]; exists && prior != name {
		return apperr.PlanError(
			fmt.Sprintf("slug collision in scope %q: %q and %q both normalize to %q", scope, prior, name, normalized),
			nil,
		)
	}
	bucket[normalized] = name
	return nil
}

// emit sends job on jobs, returning apperr.Cancelled() if the context was
// cancelled first.
func emit(ctx context.Context, jobs chan<- Job, job Job) error {
	select {
	case jobs <- job:
		return nil
	case <-ctx.Done():
		return apperr.Cancelled()
	}
}

// numPages computes the page count for total items at storiesPerPage per
// page (spec §4.2's STORIES_PER_PAGE=20 example: 0 items → 0 pages, 1-20 →
// 1 page, 21 → 2 pages).
func numPages(total, perPage int) int {
	if total <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}
