// Copyright (c) 2026 ZimFiction. All rights reserved.

// Package schema holds column-name constants for the entity store's tables,
// the same way the teacher's internal/platform/database/schema package does:
// one struct-of-strings per table, used to build SQL with fmt.Sprintf rather
// than scattering string literals across query sites.
package schema

// StoryTable describes the story table.
type StoryTable struct {
	Table         string
	ID            string
	Publisher     string
	AuthorName    string
	Title         string
	SummaryHTML   string
	Language      string
	Status        string
	Rating        string
	URL           string
	PublishedDate string
	UpdatedDate   string
	PackagedDate  string
	SourceGroup   string
	SourceName    string
	Score         string
}

// Story is the schema definition for the story table.
var Story = StoryTable{
	Table:         "story",
	ID:            "id",
	Publisher:     "publisher",
	AuthorName:    "author_name",
	Title:         "title",
	SummaryHTML:   "summary_html",
	Language:      "language",
	Status:        "status",
	Rating:        "rating",
	URL:           "url",
	PublishedDate: "published_date",
	UpdatedDate:   "updated_date",
	PackagedDate:  "packaged_date",
	SourceGroup:   "source_group",
	SourceName:    "source_name",
	Score:         "score",
}

func (t StoryTable) Columns() []string {
	return []string{
		t.ID, t.Publisher, t.AuthorName, t.Title, t.SummaryHTML, t.Language,
		t.Status, t.Rating, t.URL, t.PublishedDate, t.UpdatedDate,
		t.PackagedDate, t.SourceGroup, t.SourceName, t.Score,
	}
}

// ChapterTable describes the chapter table.
type ChapterTable struct {
	Table     string
	StoryID   string
	Publisher string
	Index     string
	Title     string
	TextHTML  string
}

var Chapter = ChapterTable{
	Table:     "chapter",
	StoryID:   "story_id",
	Publisher: "publisher",
	Index:     "chapter_index",
	Title:     "title",
	TextHTML:  "text_html",
}

func (t ChapterTable) Columns() []string {
	return []string{t.StoryID, t.Publisher, t.Index, t.Title, t.TextHTML}
}

// TagTable describes the story_tag join table.
type TagTable struct {
	Table     string
	StoryID   string
	Publisher string
	Type      string
	Name      string
	Implied   string
}

var StoryTag = TagTable{
	Table:     "story_tag",
	StoryID:   "story_id",
	Publisher: "publisher",
	Type:      "tag_type",
	Name:      "tag_name",
	Implied:   "implied",
}

func (t TagTable) Columns() []string {
	return []string{t.StoryID, t.Publisher, t.Type, t.Name, t.Implied}
}

// AuthorTable describes the author table.
type AuthorTable struct {
	Table     string
	Name      string
	Publisher string
	URL       string
}

var Author = AuthorTable{
	Table:     "author",
	Name:      "name",
	Publisher: "publisher",
	URL:       "url",
}

func (t AuthorTable) Columns() []string {
	return []string{t.Name, t.Publisher, t.URL}
}

// SeriesTable describes the series table.
type SeriesTable struct {
	Table     string
	Name      string
	Publisher string
}

var Series = SeriesTable{
	Table:     "series",
	Name:      "name",
	Publisher: "publisher",
}

func (t SeriesTable) Columns() []string {
	return []string{t.Name, t.Publisher}
}

// SeriesMemberTable describes the series_member join table.
type SeriesMemberTable struct {
	Table         string
	SeriesName    string
	Publisher     string
	StoryID       string
	MemberIndex   string
}

var SeriesMember = SeriesMemberTable{
	Table:       "series_member",
	SeriesName:  "series_name",
	Publisher:   "publisher",
	StoryID:     "story_id",
	MemberIndex: "member_index",
}

func (t SeriesMemberTable) Columns() []string {
	return []string{t.SeriesName, t.Publisher, t.StoryID, t.MemberIndex}
}
