// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package store defines the entity store contract (spec §6.1): the read-only
query surface the build stage's core consumes. The store itself is an
external collaborator (spec §1) — owned by the import/implication stages —
so this package only defines the interface plus one concrete adapter
(PostgresStore) grounded on the teacher's repository-per-entity pattern.

All listing methods are cursor-paginated by primary key rather than
offset-paginated, so JobPlanner (internal/planner) can stream the full
entity set without materializing it (spec §4.1).
*/
package store

import (
	"context"

	"github.com/imaybeabitshy/zimfiction/internal/model"
)

// Page is a cursor-paginated slice of T plus the cursor to request the next
// page. An empty NextCursor means there is no further page.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// StoryQuery selects the scope of stories to iterate. Callers set one of
// the Author/Tag/Category/Series scopes, Publisher alone, or Publisher
// together with AuthorName or CategoryName; an all-zero query iterates
// every story in the store.
type StoryQuery struct {
	Publisher    string
	AuthorName   string
	TagType      model.TagType
	TagName      string
	CategoryName string
	SeriesName   string
}

// Store is the full entity store contract the build stage depends on.
type Store interface {
	// GetStory fetches one story together with its ordered chapters and
	// tags (spec §6.1 "Fetch a Story with its chapters").
	GetStory(ctx context.Context, publisher, id string) (*model.Story, error)

	// ListStories iterates the scope described by q, cursor-paginated by
	// (publisher, id). limit bounds the page size.
	ListStories(ctx context.Context, q StoryQuery, cursor string, limit int) (Page[*model.Story], error)

	// CountStories returns the total story count for q without materializing it.
	CountStories(ctx context.Context, q StoryQuery) (int, error)

	// ListPublishers enumerates every publisher known to the store.
	ListPublishers(ctx context.Context) ([]model.Publisher, error)

	// ListAuthors enumerates authors, optionally scoped to one publisher
	// (empty publisher lists every author across every publisher).
	ListAuthors(ctx context.Context, publisher string, cursor string, limit int) (Page[model.Author], error)

	// FindAltIdentities returns, for a given author name, every
	// (publisher, author) pair sharing that exact name across publishers
	// (spec §3 "alt identities").
	FindAltIdentities(ctx context.Context, name string) ([]model.Author, error)

	// ListSeries enumerates series, optionally scoped to one publisher.
	ListSeries(ctx context.Context, publisher string, cursor string, limit int) (Page[*model.Series], error)

	// ListCategories enumerates categories (Tags of type category) scoped
	// to one publisher.
	ListCategories(ctx context.Context, publisher string) ([]model.Category, error)

	// EnumerateTagTypes enumerates every distinct (publisher, tag_type)
	// pair present in the store together with the count of stories
	// carrying at least one tag of that type (spec §6.1).
	EnumerateTagTypes(ctx context.Context) ([]TagTypeCount, error)

	// ListTagNames enumerates every distinct tag name of the given type
	// (optionally scoped to a publisher), used by JobPlanner to enumerate
	// per-tag pages (spec §4.1 phase 4).
	ListTagNames(ctx context.Context, publisher string, tagType model.TagType) ([]string, error)
}

// TagTypeCount is one row of the EnumerateTagTypes projection.
type TagTypeCount struct {
	Publisher string
	TagType   model.TagType
	Count     int
}
