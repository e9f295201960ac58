// Copyright (c) 2026 ZimFiction. All rights reserved.

package render

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/apperr"
	"github.com/imaybeabitshy/zimfiction/internal/artifact"
	"github.com/imaybeabitshy/zimfiction/internal/buildctx"
	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/planner"
	"github.com/imaybeabitshy/zimfiction/internal/queue"
	"github.com/imaybeabitshy/zimfiction/internal/searchindex"
	"github.com/imaybeabitshy/zimfiction/internal/store"
	internaltemplates "github.com/imaybeabitshy/zimfiction/internal/templates"
	"github.com/imaybeabitshy/zimfiction/web"
)

// Pool is the fixed-size RenderWorker fleet (spec §4.2, §5): each worker
// pulls a planner.Job off the shared channel, projects the store data the
// job's Kind needs into a view model, executes the matching template, and
// pushes the resulting artifact.Artifact onto the ArtifactQueue. A
// recoverable per-job failure (RenderError, InputCorruption) increments a
// counter and drops that one artifact rather than aborting the run (spec
// §7); only ctx cancellation or a queue WriteError propagates.
//
// Aggregate data (histograms, totals) is obtained by asking the Aggregator
// to reseal on demand rather than by threading a fixed Snapshot through
// from the planner. This is safe because planner.Plan's six phases run
// strictly in sequence on a single producer goroutine: by the time any
// Phase-N job reaches a worker, every Phase-(N-1) observation (and its
// seal) has already happened, so a fresh seal always reflects at least
// that much state. Re-sealing costs one round trip through the
// Aggregator's reducer goroutine, cheap enough to pay per job.
type Pool struct {
	bc       *buildctx.BuildContext
	registry *Registry
	queue    *queue.ArtifactQueue
	agg      *aggregator.Aggregator
	workers  int
	nMin     int
	nMax     int
	shard    int
}

// NewPool constructs a RenderWorker pool.
func NewPool(bc *buildctx.BuildContext, registry *Registry, q *queue.ArtifactQueue, agg *aggregator.Aggregator, workers, searchNMin, searchNMax, shardSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		bc:       bc,
		registry: registry,
		queue:    q,
		agg:      agg,
		workers:  workers,
		nMin:     searchNMin,
		nMax:     searchNMax,
		shard:    shardSize,
	}
}

// Run drains jobs with Pool.workers concurrent goroutines until jobs is
// closed, ctx is cancelled, or a fatal error occurs. It closes q on return
// regardless of outcome so the ZimWriter's Pop loop always terminates.
func (p *Pool) Run(ctx context.Context, jobs <-chan planner.Job) error {
	defer p.queue.Close()

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		group.Go(func() error {
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return nil
					}
					if err := p.handle(gctx, job); err != nil {
						return err
					}
				case <-gctx.Done():
					return apperr.Cancelled()
				}
			}
		})
	}
	return group.Wait()
}

// handle dispatches one job to its Kind-specific renderer and pushes the
// result(s) onto the queue. A render/projection failure that spec §7
// classifies as recoverable is logged and counted, not returned; only a
// queue push failure (context cancellation) propagates.
func (p *Pool) handle(ctx context.Context, job planner.Job) error {
	artifacts, err := p.render(ctx, job)
	if err != nil {
		if appErr, ok := err.(*apperr.AppError); ok && appErr.Fatal() {
			return appErr
		}
		p.bc.Counters.ArtifactsFailed.Inc()
		p.bc.Logger.Error("render failed", "path", job.Path, "kind", job.Kind, "error", err)
		return nil
	}
	for _, a := range artifacts {
		if err := p.queue.Push(ctx, a); err != nil {
			return apperr.WriteError("push artifact "+a.Path, err)
		}
		p.bc.Counters.ArtifactsWritten.Inc()
	}
	return nil
}

func (p *Pool) store() store.Store {
	return p.bc.Store
}

func (p *Pool) render(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	switch job.Kind {
	case KindStoryRedirect:
		return one(artifact.Artifact{
			Path:           job.Path,
			RedirectTarget: fmt.Sprintf("story/%s/%s/1", job.Publisher, job.StoryID),
		}), nil

	case KindStoryIndex:
		return p.renderStoryIndex(ctx, job)

	case KindStoryPreview:
		return p.renderStoryPreview(ctx, job)

	case KindChapterPage:
		return p.renderChapter(ctx, job)

	case KindAuthorListPage:
		return p.renderAuthorList(ctx, job)

	case KindAuthorChart:
		return p.renderAuthorChart(ctx, job)

	case KindSeriesPage:
		return p.renderSeriesPage(ctx, job)

	case KindSeriesChart:
		return p.renderSeriesChart(ctx, job)

	case KindTagListPage:
		return p.renderTagList(ctx, job)

	case KindTagStats:
		return p.renderTagStats(ctx, job)

	case KindTagChart:
		return p.renderTagChart(ctx, job)

	case KindTagSearchHeader:
		return p.renderSearchHeader(ctx, job)

	case KindTagSearchShard:
		return p.renderSearchShard(ctx, job)

	case KindPublisherLand:
		return p.renderPublisherLand(ctx, job)

	case KindPublisherCats:
		return p.renderPublisherCats(ctx, job)

	case KindPublisherChart:
		return p.renderPublisherChart(ctx, job)

	case KindGlobalRedirect:
		return one(artifact.Artifact{Path: job.Path, RedirectTarget: "index.html"}), nil

	case KindGlobalIndex:
		return p.renderGlobalIndex(ctx, job)

	case KindGlobalStats:
		return p.renderGlobalStats(ctx, job)

	case KindGlobalInfo:
		return p.renderGlobalInfo(ctx, job)

	case KindGlobalAsset:
		return p.renderGlobalAsset(ctx, job)

	default:
		return nil, apperr.RenderError(job.Path, fmt.Errorf("unknown job kind %q", job.Kind))
	}
}

func one(a artifact.Artifact) []artifact.Artifact { return []artifact.Artifact{a} }

func (p *Pool) getStory(ctx context.Context, job planner.Job) (*model.Story, error) {
	st, err := p.store().GetStory(ctx, job.Publisher, job.StoryID)
	if err != nil {
		return nil, apperr.InputCorruption(fmt.Sprintf("story %s/%s", job.Publisher, job.StoryID), err)
	}
	return st, nil
}

func (p *Pool) renderStoryIndex(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	st, err := p.getStory(ctx, job)
	if err != nil {
		return nil, err
	}
	body, err := p.registry.Render("story_index", st.Title, newStoryIndexData(st))
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

type previewRecord struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Words    int    `json:"words"`
	Chapters int    `json:"chapters"`
	Updated  string `json:"updated"`
}

func (p *Pool) renderStoryPreview(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	st, err := p.getStory(ctx, job)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(previewRecord{
		Title:    st.Title,
		Author:   st.AuthorName,
		Words:    st.TotalWords(),
		Chapters: len(st.Chapters),
		Updated:  st.UpdatedDate,
	})
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) renderChapter(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	st, err := p.getStory(ctx, job)
	if err != nil {
		return nil, err
	}
	data := newChapterPageData(st, job.ChapterIndex)
	title := fmt.Sprintf("%s - %s", st.Title, data.Chapter.Title)
	body, err := p.registry.Render("story_chapter", title, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

// fetchAllStories walks every page q matches, used by list/chart handlers
// that need the full scoped set rather than one page of it (spec §4.1's
// "computed from read-only store projections" case).
func (p *Pool) fetchAllStories(ctx context.Context, q store.StoryQuery) ([]*model.Story, error) {
	var out []*model.Story
	cursor := ""
	for {
		page, err := p.store().ListStories(ctx, q, cursor, 500)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return out, nil
}

func storyCards(stories []*model.Story) []storyCard {
	cards := make([]storyCard, len(stories))
	for i, s := range stories {
		cards[i] = newStoryCard(s)
	}
	return cards
}

func totalWords(stories []*model.Story) int {
	total := 0
	for _, s := range stories {
		total += s.TotalWords()
	}
	return total
}

func (p *Pool) renderAuthorList(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	stories, err := p.fetchAllStories(ctx, store.StoryQuery{Publisher: job.Publisher, AuthorName: job.AuthorName})
	if err != nil {
		return nil, apperr.InputCorruption("author "+job.AuthorName, err)
	}
	page := paginate(stories, job.Page)
	prefix := fmt.Sprintf("author/%s/%s", job.Publisher, slugOf(job.AuthorName))

	data := storyListData{
		Heading:        job.AuthorName,
		Stories:        storyCards(page),
		PageTokens:     internaltemplates.ComputePaginationWindow(job.Page, numPages(len(stories))),
		CurrentPage:    job.Page,
		PageLinkPrefix: prefix,
		HasSearchIndex: false,
	}
	body, err := p.registry.Render("story_list", job.AuthorName, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderAuthorChart(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	snap, err := p.agg.SealPhase(ctx, "render:author_chart")
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	data, err := buildChartJSON(snap.AuthorHistogram(job.Publisher, job.AuthorName))
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) renderSeriesPage(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	series, err := p.findSeries(ctx, job.Publisher, job.SeriesName)
	if err != nil {
		return nil, err
	}

	members := make([]seriesMemberView, 0, len(series.Members))
	for _, m := range series.Members {
		st, err := p.store().GetStory(ctx, job.Publisher, m.StoryID)
		if err != nil {
			continue
		}
		members = append(members, seriesMemberView{Publisher: job.Publisher, StoryID: m.StoryID, Title: st.Title})
	}

	body, err := p.registry.Render("series_page", series.Name, seriesPageData{Series: series, Members: members})
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

// findSeries re-derives the Series entity by scanning ListSeries, since
// store.Store exposes no GetSeries-by-name lookup (only enumeration).
func (p *Pool) findSeries(ctx context.Context, publisher, name string) (*model.Series, error) {
	cursor := ""
	for {
		page, err := p.store().ListSeries(ctx, publisher, cursor, 500)
		if err != nil {
			return nil, apperr.InputCorruption("series "+name, err)
		}
		for _, s := range page.Items {
			if s.Name == name {
				return s, nil
			}
		}
		if !page.HasMore {
			return nil, apperr.InputCorruption("series "+name, fmt.Errorf("not found"))
		}
		cursor = page.NextCursor
	}
}

func (p *Pool) renderSeriesChart(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	stories, err := p.fetchAllStories(ctx, store.StoryQuery{Publisher: job.Publisher, SeriesName: job.SeriesName})
	if err != nil {
		return nil, apperr.InputCorruption("series "+job.SeriesName, err)
	}
	data, err := buildChartJSON(histogramFromStories(stories))
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) tagQuery(job planner.Job) store.StoryQuery {
	if job.TagType == model.TagTypeCategory {
		return store.StoryQuery{Publisher: job.Publisher, CategoryName: job.CategoryName}
	}
	return store.StoryQuery{TagType: job.TagType, TagName: job.TagName}
}

func (p *Pool) scopeLabel(job planner.Job) (heading, prefix string) {
	if job.TagType == model.TagTypeCategory {
		return job.CategoryName, fmt.Sprintf("category/%s/%s", job.Publisher, slugOf(job.CategoryName))
	}
	return string(job.TagType) + ": " + job.TagName, fmt.Sprintf("tag/%s/%s", job.TagType, slugOf(job.TagName))
}

func (p *Pool) renderTagList(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	q := p.tagQuery(job)
	stories, err := p.fetchAllStories(ctx, q)
	if err != nil {
		return nil, apperr.InputCorruption("tag scope", err)
	}
	heading, prefix := p.scopeLabel(job)
	page := paginate(stories, job.Page)

	data := storyListData{
		Heading:        heading,
		Stories:        storyCards(page),
		PageTokens:     internaltemplates.ComputePaginationWindow(job.Page, numPages(len(stories))),
		CurrentPage:    job.Page,
		PageLinkPrefix: prefix,
		HasSearchIndex: len(stories) >= p.nMin && len(stories) <= p.nMax,
	}
	body, err := p.registry.Render("story_list", heading, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderTagStats(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	q := p.tagQuery(job)
	stories, err := p.fetchAllStories(ctx, q)
	if err != nil {
		return nil, apperr.InputCorruption("tag scope", err)
	}
	tagType, tagName := string(job.TagType), job.TagName
	if job.TagType == model.TagTypeCategory {
		tagType, tagName = "category", job.CategoryName
	}

	data := tagStatsData{
		TagType:        tagType,
		TagName:        tagName,
		TotalStories:   len(stories),
		TotalWords:     totalWords(stories),
		HasSearchIndex: len(stories) >= p.nMin && len(stories) <= p.nMax,
	}
	body, err := p.registry.Render("tag_stats", tagName, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderTagChart(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	snap, err := p.agg.SealPhase(ctx, "render:tag_chart")
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	var hist aggregator.Histogram
	if job.TagType == model.TagTypeCategory {
		hist = snap.CategoryHistogram(job.Publisher, job.CategoryName)
	} else {
		hist = snap.TagHistogram(job.TagType, job.TagName)
	}
	data, err := buildChartJSON(hist)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) renderSearchHeader(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	q := p.tagQuery(job)
	header, _, err := searchindex.Build(ctx, p.store(), q, p.nMin, p.nMax, p.shard)
	if err != nil {
		return nil, apperr.InputCorruption("search index", err)
	}
	if header == nil {
		return nil, nil
	}
	data, err := searchindex.MarshalHeader(header)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) renderSearchShard(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	q := p.tagQuery(job)
	_, shards, err := searchindex.Build(ctx, p.store(), q, p.nMin, p.nMax, p.shard)
	if err != nil {
		return nil, apperr.InputCorruption("search index", err)
	}
	if job.ShardIndex < 0 || job.ShardIndex >= len(shards) {
		return nil, apperr.RenderError(job.Path, fmt.Errorf("shard index %d out of range", job.ShardIndex))
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: shards[job.ShardIndex]}), nil
}

func (p *Pool) renderPublisherLand(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	stories, err := p.fetchAllStories(ctx, store.StoryQuery{Publisher: job.Publisher})
	if err != nil {
		return nil, apperr.InputCorruption("publisher "+job.Publisher, err)
	}
	data := publisherLandData{
		Publisher:    job.Publisher,
		TotalStories: len(stories),
		TotalWords:   totalWords(stories),
	}
	body, err := p.registry.Render("publisher_land", job.Publisher, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderPublisherCats(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	categories, err := p.store().ListCategories(ctx, job.Publisher)
	if err != nil {
		return nil, apperr.InputCorruption("publisher "+job.Publisher, err)
	}
	snap, err := p.agg.SealPhase(ctx, "render:publisher_cats")
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	counts := snap.CategoryCounts(job.Publisher)

	rows := make([]publisherCategory, len(categories))
	for i, c := range categories {
		rows[i] = publisherCategory{Name: c.Name, Count: counts[c.Name]}
	}
	pageRows := paginateCategories(rows, job.Page)

	data := publisherCategoriesData{
		Publisher:   job.Publisher,
		Categories:  pageRows,
		PageTokens:  internaltemplates.ComputePaginationWindow(job.Page, numPages(len(rows))),
		CurrentPage: job.Page,
	}
	body, err := p.registry.Render("publisher_categories", job.Publisher, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderPublisherChart(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	snap, err := p.agg.SealPhase(ctx, "render:publisher_chart")
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	data, err := buildChartJSON(snap.PublisherHistogram(job.Publisher))
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{Path: job.Path, MIME: artifact.MIMEJSON, Content: data}), nil
}

func (p *Pool) renderGlobalIndex(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	publishers, err := p.store().ListPublishers(ctx)
	if err != nil {
		return nil, apperr.InputCorruption("publishers", err)
	}
	body, err := p.registry.Render("global_index", "ZimFiction", globalIndexData{Publishers: publishers})
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

func (p *Pool) renderGlobalStats(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	snap, err := p.agg.SealPhase(ctx, "render:global_stats")
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	chartJSON, err := buildChartJSON(snap.GlobalHistogram())
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}

	data := globalStatisticsData{
		TotalStories:  snap.TotalStories(),
		TotalChapters: snap.TotalChapters(),
		TotalWords:    snap.TotalWords(),
		TotalSeries:   snap.TotalSeries(),
		ChartJSON:     template.JS(chartJSON),
	}
	body, err := p.registry.Render("global_statistics", "Statistics", data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

// globalInfoHeadings names the two static info pages spec §6.2 fixes;
// their body HTML is caller-supplied (internal/config's InfoIndexHTML /
// AcknowledgementsHTML), since the build stage has no CMS or source
// document to generate attributions copy from.
var globalInfoHeadings = map[string]string{
	"index":            "About",
	"acknowledgements": "Acknowledgements",
}

func (p *Pool) renderGlobalInfo(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	heading, ok := globalInfoHeadings[job.AssetName]
	if !ok {
		return nil, apperr.RenderError(job.Path, fmt.Errorf("unknown info page %q", job.AssetName))
	}
	bodyHTML := p.bc.Config.InfoIndexHTML
	if job.AssetName == "acknowledgements" {
		bodyHTML = p.bc.Config.AcknowledgementsHTML
	}
	data := infoPageData{Heading: heading, BodyHTML: template.HTML(bodyHTML)}
	body, err := p.registry.Render("info", heading, data)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(htmlArtifact(job.Path, body)), nil
}

// assetSourcePaths maps a planner-assigned AssetName to its location
// inside web.AssetsFS.
var assetSourcePaths = map[string]string{
	"favicon.png":               "assets/images/favicon.png",
	"style_light.css":           "assets/styles/style_light.css",
	"style_dark.css":            "assets/styles/style_dark.css",
	"scripts/search.js":         "assets/scripts/search.js",
	"scripts/chart.js":          "assets/scripts/chart.js",
	"scripts/storytimechart.js": "assets/scripts/storytimechart.js",
}

func (p *Pool) renderGlobalAsset(ctx context.Context, job planner.Job) ([]artifact.Artifact, error) {
	src, ok := assetSourcePaths[job.AssetName]
	if !ok {
		return nil, apperr.RenderError(job.Path, fmt.Errorf("unknown asset %q", job.AssetName))
	}
	content, err := web.AssetsFS.ReadFile(src)
	if err != nil {
		return nil, apperr.RenderError(job.Path, err)
	}
	return one(artifact.Artifact{
		Path:    job.Path,
		MIME:    assetMIME(src),
		Content: content,
		Hints:   artifact.Hints{Shareable: true},
	}), nil
}

func assetMIME(p string) string {
	switch {
	case strings.HasSuffix(p, ".png"):
		return artifact.MIMEPNG
	case strings.HasSuffix(p, ".css"):
		return artifact.MIMECSS
	case strings.HasSuffix(p, ".js"):
		return artifact.MIMEJavaScript
	default:
		return "application/octet-stream"
	}
}

func htmlArtifact(p string, body []byte) artifact.Artifact {
	return artifact.Artifact{Path: p, MIME: artifact.MIMEHTML, Content: body}
}

func numPages(total int) int {
	const perPage = internaltemplates.StoriesPerPage
	if total <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}

func paginate(stories []*model.Story, page int) []*model.Story {
	const perPage = internaltemplates.StoriesPerPage
	start := (page - 1) * perPage
	if start < 0 || start >= len(stories) {
		return nil
	}
	end := start + perPage
	if end > len(stories) {
		end = len(stories)
	}
	return stories[start:end]
}

func paginateCategories(rows []publisherCategory, page int) []publisherCategory {
	const perPage = internaltemplates.StoriesPerPage
	start := (page - 1) * perPage
	if start < 0 || start >= len(rows) {
		return nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
