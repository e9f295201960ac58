// Copyright (c) 2026 ZimFiction. All rights reserved.

package planner

import (
	"context"
	"fmt"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/slug"
	"github.com/imaybeabitshy/zimfiction/internal/store"
)

// slugOf is the path-facing alias for slug.Normalize, used wherever a name
// (author, series, tag, category) becomes a URL path segment.
func slugOf(name string) string {
	return slug.Normalize(name)
}

// storeBatchSize is the cursor-pagination page size used when the planner
// itself walks the store; unrelated to StoriesPerPage, which governs the
// size of rendered list pages.
const storeBatchSize = 500

// planPerStory is phase 1: one chapter page per chapter, an index page, a
// preview.json, and a redirect from the story's bare directory to its
// first chapter (spec §4.1 phase 1). Every story observed here feeds the
// Aggregator, which phases 4-6 read back as a sealed snapshot.
func (p *Planner) planPerStory(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	cursor := ""
	for {
		page, err := p.store.ListStories(ctx, store.StoryQuery{}, cursor, storeBatchSize)
		if err != nil {
			return err
		}
		for _, st := range page.Items {
			if err := agg.ObserveStory(ctx, st); err != nil {
				return err
			}
			if err := emitStoryJobs(ctx, jobs, st); err != nil {
				return err
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if _, err := agg.SealPhase(ctx, PhasePerStory.String()); err != nil {
		return err
	}
	return nil
}

func emitStoryJobs(ctx context.Context, jobs chan<- Job, st *model.Story) error {
	base := fmt.Sprintf("story/%s/%s", st.Publisher, st.ID)

	if err := emit(ctx, jobs, Job{
		Phase: PhasePerStory, Kind: KindStoryRedirect,
		Path: base + "/", Publisher: st.Publisher, StoryID: st.ID,
	}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{
		Phase: PhasePerStory, Kind: KindStoryIndex,
		Path: base + "/index", Publisher: st.Publisher, StoryID: st.ID,
	}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{
		Phase: PhasePerStory, Kind: KindStoryPreview,
		Path: base + "/preview.json", Publisher: st.Publisher, StoryID: st.ID,
	}); err != nil {
		return err
	}
	for _, ch := range st.Chapters {
		if err := emit(ctx, jobs, Job{
			Phase: PhasePerStory, Kind: KindChapterPage,
			Path: fmt.Sprintf("%s/%d", base, ch.Index), Publisher: st.Publisher,
			StoryID: st.ID, ChapterIndex: ch.Index,
		}); err != nil {
			return err
		}
	}
	return nil
}

// planPerAuthor is phase 2: a paginated story list and chart-data JSON per
// (publisher, author) pair (spec §4.1 phase 2). Observes each author into
// the Aggregator's cross-publisher alt-identity clusters; no job kind
// renders those clusters, so author pages carry no alt-identity links.
func (p *Planner) planPerAuthor(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	cursor := ""
	for {
		page, err := p.store.ListAuthors(ctx, "", cursor, storeBatchSize)
		if err != nil {
			return err
		}
		for _, author := range page.Items {
			if err := agg.ObserveAuthor(ctx, author); err != nil {
				return err
			}
			if err := p.checkSlug("author:"+author.Publisher, author.Name); err != nil {
				return err
			}

			total, err := p.store.CountStories(ctx, store.StoryQuery{Publisher: author.Publisher, AuthorName: author.Name})
			if err != nil {
				return err
			}

			base := fmt.Sprintf("author/%s/%s", author.Publisher, slugOf(author.Name))
			for n := numPages(total, p.storiesPerPage); n >= 1; n-- {
				if err := emit(ctx, jobs, Job{
					Phase: PhasePerAuthor, Kind: KindAuthorListPage,
					Path: fmt.Sprintf("%s/%d", base, n), Publisher: author.Publisher,
					AuthorName: author.Name, Page: n,
				}); err != nil {
					return err
				}
			}
			if err := emit(ctx, jobs, Job{
				Phase: PhasePerAuthor, Kind: KindAuthorChart,
				Path: base + "/storyupdates.json", Publisher: author.Publisher, AuthorName: author.Name,
			}); err != nil {
				return err
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if _, err := agg.SealPhase(ctx, PhasePerAuthor.String()); err != nil {
		return err
	}
	return nil
}

// planPerSeries is phase 3: a single page plus chart-data JSON per series
// (spec §4.1 phase 3).
func (p *Planner) planPerSeries(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	cursor := ""
	for {
		page, err := p.store.ListSeries(ctx, "", cursor, storeBatchSize)
		if err != nil {
			return err
		}
		for _, series := range page.Items {
			if err := agg.ObserveSeries(ctx, series); err != nil {
				return err
			}
			if err := p.checkSlug("series:"+series.Publisher, series.Name); err != nil {
				return err
			}

			base := fmt.Sprintf("series/%s/%s", series.Publisher, slugOf(series.Name))
			if err := emit(ctx, jobs, Job{
				Phase: PhasePerSeries, Kind: KindSeriesPage,
				Path: base + "/", Publisher: series.Publisher, SeriesName: series.Name,
			}); err != nil {
				return err
			}
			if err := emit(ctx, jobs, Job{
				Phase: PhasePerSeries, Kind: KindSeriesChart,
				Path: base + "/storyupdates.json", Publisher: series.Publisher, SeriesName: series.Name,
			}); err != nil {
				return err
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if _, err := agg.SealPhase(ctx, PhasePerSeries.String()); err != nil {
		return err
	}
	return nil
}

// planPerCategoryTag is phase 4: paginated list, stats, and (subject to
// N_min/N_max) a search index per tag and per publisher-scoped category
// (spec §4.1 phase 4, §4.4). This phase is pure store/snapshot reads — the
// Aggregator is never written to here, since spec §4.3 scopes accumulation
// to phases 1-3; the tag and category histograms this phase renders were
// already folded in during planPerStory's ObserveStory calls.
func (p *Planner) planPerCategoryTag(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	counts, err := p.store.EnumerateTagTypes(ctx)
	if err != nil {
		return err
	}

	nonCategoryTypes := map[model.TagType]bool{}
	for _, c := range counts {
		if c.TagType != model.TagTypeCategory {
			nonCategoryTypes[c.TagType] = true
		}
	}

	for tagType := range nonCategoryTypes {
		names, err := p.store.ListTagNames(ctx, "", tagType)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := p.checkSlug("tag:"+string(tagType), name); err != nil {
				return err
			}
			total, err := p.store.CountStories(ctx, store.StoryQuery{TagType: tagType, TagName: name})
			if err != nil {
				return err
			}
			base := fmt.Sprintf("tag/%s/%s", tagType, slugOf(name))
			if err := p.emitScopedListing(ctx, jobs, PhasePerCategoryTag, base, total, Job{TagType: tagType, TagName: name}); err != nil {
				return err
			}
		}
	}

	publishers, err := p.store.ListPublishers(ctx)
	if err != nil {
		return err
	}
	for _, publisher := range publishers {
		categories, err := p.store.ListCategories(ctx, publisher.Name)
		if err != nil {
			return err
		}
		for _, cat := range categories {
			if err := p.checkSlug("category:"+publisher.Name, cat.Name); err != nil {
				return err
			}
			total, err := p.store.CountStories(ctx, store.StoryQuery{Publisher: publisher.Name, CategoryName: cat.Name})
			if err != nil {
				return err
			}
			base := fmt.Sprintf("category/%s/%s", publisher.Name, slugOf(cat.Name))
			if err := p.emitScopedListing(ctx, jobs, PhasePerCategoryTag, base, total, Job{Publisher: publisher.Name, TagType: model.TagTypeCategory, CategoryName: cat.Name}); err != nil {
				return err
			}
		}
	}

	return nil
}

// emitScopedListing emits the full job set one tag or category scope gets:
// a paginated story list, a stats page, chart data, and — only when total
// falls within [nMin, nMax] — a search index header plus N shard jobs
// (spec §4.4). template fields (Publisher/TagType/TagName/CategoryName)
// are copied onto every emitted job so the render stage knows what scope
// it is building for.
func (p *Planner) emitScopedListing(ctx context.Context, jobs chan<- Job, phase Phase, base string, total int, template Job) error {
	for n := numPages(total, p.storiesPerPage); n >= 1; n-- {
		job := template
		job.Phase = phase
		job.Kind = KindTagListPage
		job.Path = fmt.Sprintf("%s/%d", base, n)
		job.Page = n
		if err := emit(ctx, jobs, job); err != nil {
			return err
		}
	}

	stats := template
	stats.Phase = phase
	stats.Kind = KindTagStats
	stats.Path = base + "/stats"
	if err := emit(ctx, jobs, stats); err != nil {
		return err
	}

	chart := template
	chart.Phase = phase
	chart.Kind = KindTagChart
	chart.Path = base + "/storyupdates.json"
	if err := emit(ctx, jobs, chart); err != nil {
		return err
	}

	if total < p.nMin || total > p.nMax {
		return nil
	}

	header := template
	header.Phase = phase
	header.Kind = KindTagSearchHeader
	header.Path = base + "/search_header.json"
	if err := emit(ctx, jobs, header); err != nil {
		return err
	}

	shards := numShards(total, p.shardSize)
	for i := 0; i < shards; i++ {
		shard := template
		shard.Phase = phase
		shard.Kind = KindTagSearchShard
		shard.Path = fmt.Sprintf("%s/search_content_%d.json", base, i)
		shard.ShardIndex = i
		if err := emit(ctx, jobs, shard); err != nil {
			return err
		}
	}
	return nil
}

// numShards is ceil(total/shardSize) (spec §4.4's num_pages = ceil(n /
// SHARD_SIZE)).
func numShards(total, shardSize int) int {
	return numPages(total, shardSize)
}

// planPerPublisher is phase 5: a landing page and a paginated category
// listing per publisher, plus chart data (spec §4.1 phase 5).
func (p *Planner) planPerPublisher(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	publishers, err := p.store.ListPublishers(ctx)
	if err != nil {
		return err
	}

	for _, publisher := range publishers {
		base := "publisher/" + publisher.Name
		if err := emit(ctx, jobs, Job{
			Phase: PhasePerPublisher, Kind: KindPublisherLand,
			Path: base + "/", Publisher: publisher.Name,
		}); err != nil {
			return err
		}

		categories, err := p.store.ListCategories(ctx, publisher.Name)
		if err != nil {
			return err
		}
		for n := numPages(len(categories), p.storiesPerPage); n >= 1; n-- {
			if err := emit(ctx, jobs, Job{
				Phase: PhasePerPublisher, Kind: KindPublisherCats,
				Path: fmt.Sprintf("%s/categories/%d", base, n), Publisher: publisher.Name, Page: n,
			}); err != nil {
				return err
			}
		}

		if err := emit(ctx, jobs, Job{
			Phase: PhasePerPublisher, Kind: KindPublisherChart,
			Path: base + "/storyupdates.json", Publisher: publisher.Name,
		}); err != nil {
			return err
		}
	}
	return nil
}

// globalAssets lists every job phase 6 emits beyond the handful with
// dedicated Kinds, keyed by the exact output path spec §6.2 fixes.
var globalAssets = []string{
	"favicon.png",
	"style_light.css",
	"style_dark.css",
	"scripts/search.js",
	"scripts/chart.js",
	"scripts/storytimechart.js",
}

// planGlobal is phase 6: the archive-wide root redirect, landing index,
// statistics page, info pages, and static assets (spec §4.1 phase 6).
func (p *Planner) planGlobal(ctx context.Context, jobs chan<- Job, agg *aggregator.Aggregator) error {
	if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalRedirect, Path: ""}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalIndex, Path: "index.html"}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalStats, Path: "statistics.html"}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalInfo, Path: "info/index.html", AssetName: "index"}); err != nil {
		return err
	}
	if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalInfo, Path: "info/acknowledgements.html", AssetName: "acknowledgements"}); err != nil {
		return err
	}
	for _, asset := range globalAssets {
		if err := emit(ctx, jobs, Job{Phase: PhaseGlobal, Kind: KindGlobalAsset, Path: asset, AssetName: asset}); err != nil {
			return err
		}
	}
	return nil
}
