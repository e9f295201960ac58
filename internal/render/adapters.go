// Copyright (c) 2026 ZimFiction. All rights reserved.

package render

import (
	"html/template"

	"github.com/imaybeabitshy/zimfiction/internal/model"
	internaltemplates "github.com/imaybeabitshy/zimfiction/internal/templates"
)

// chapterPageData is the view model for pages/story_chapter.tmpl.
type chapterPageData struct {
	Story         *model.Story
	Chapter       model.Chapter
	RenderedText  template.HTML
	TotalChapters int
	HasPrevious   bool
	PreviousIndex int
	HasNext       bool
	NextIndex     int
}

func newChapterPageData(story *model.Story, chapterIndex int) chapterPageData {
	var chapter model.Chapter
	pos := -1
	for i, c := range story.Chapters {
		if c.Index == chapterIndex {
			chapter = c
			pos = i
			break
		}
	}

	data := chapterPageData{
		Story:         story,
		Chapter:       chapter,
		RenderedText:  template.HTML(internaltemplates.RenderStoryText(chapter.TextRaw)),
		TotalChapters: len(story.Chapters),
	}
	if pos > 0 {
		data.HasPrevious = true
		data.PreviousIndex = story.Chapters[pos-1].Index
	}
	if pos >= 0 && pos < len(story.Chapters)-1 {
		data.HasNext = true
		data.NextIndex = story.Chapters[pos+1].Index
	}
	return data
}

// storyIndexData is the view model for pages/story_index.tmpl.
type storyIndexData struct {
	Story       *model.Story
	SummaryHTML template.HTML
	TotalWords  int
	VisibleTags []model.TagRef
}

func newStoryIndexData(story *model.Story) storyIndexData {
	return storyIndexData{
		Story:       story,
		SummaryHTML: template.HTML(story.SummaryHTML),
		TotalWords:  story.TotalWords(),
		VisibleTags: story.OrderedVisibleTags(),
	}
}

// storyCard is one entry in a paginated story list (author/tag/category
// pages share this shape).
type storyCard struct {
	Publisher  string
	ID         string
	Title      string
	AuthorName string
	Words      int
}

func newStoryCard(s *model.Story) storyCard {
	return storyCard{
		Publisher:  s.Publisher,
		ID:         s.ID,
		Title:      s.Title,
		AuthorName: s.AuthorName,
		Words:      s.TotalWords(),
	}
}

// storyListData is the view model for pages/story_list.tmpl, shared by
// author, tag, and category list pages.
type storyListData struct {
	Heading        string
	Stories        []storyCard
	PageTokens     []internaltemplates.PageToken
	CurrentPage    int
	PageLinkPrefix string
	HasSearchIndex bool
}

// seriesMemberView joins a model.SeriesMember with the story title it
// references (the Series entity itself carries only (StoryID, Index),
// per spec §3 — the title is a read-only store projection, not something
// the Aggregator tracks, since series membership display is computed at
// render time from the store, not from a sealed snapshot).
type seriesMemberView struct {
	Publisher string
	StoryID   string
	Title     string
}

// seriesPageData is the view model for pages/series_page.tmpl.
type seriesPageData struct {
	Series  *model.Series
	Members []seriesMemberView
}

// tagStatsData is the view model for pages/tag_stats.tmpl.
type tagStatsData struct {
	TagType        string
	TagName        string
	TotalStories   int
	TotalWords     int
	HasSearchIndex bool
}

// publisherLandData is the view model for pages/publisher_land.tmpl.
type publisherLandData struct {
	Publisher    string
	TotalStories int
	TotalWords   int
}

// publisherCategory is one row of the categories listing.
type publisherCategory struct {
	Name  string
	Count int
}

// publisherCategoriesData is the view model for
// pages/publisher_categories.tmpl.
type publisherCategoriesData struct {
	Publisher   string
	Categories  []publisherCategory
	PageTokens  []internaltemplates.PageToken
	CurrentPage int
}

// globalIndexData is the view model for pages/global_index.tmpl.
type globalIndexData struct {
	Publishers []model.Publisher
}

// globalStatisticsData is the view model for pages/global_statistics.tmpl.
type globalStatisticsData struct {
	TotalStories  int
	TotalChapters int
	TotalWords    int
	TotalSeries   int
	ChartJSON     template.JS
}

// infoPageData is the view model for pages/info.tmpl.
type infoPageData struct {
	Heading  string
	BodyHTML template.HTML
}
