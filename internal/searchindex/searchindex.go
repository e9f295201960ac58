// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package searchindex builds the per-scope static JSON search indices the
in-ZIM client search engine (web/assets/scripts/search.js) consumes: a
`search_header.json` mapping tag names to scope-local integer ids, and a
sequence of `search_content_<i>.json` shards, each a flat array of story
preview records keyed by those ids (spec §4.4).

Tag ids are scope-local: the same tag name gets a different integer id in
a different scope's header, and headers/shards are only ever compared
within the scope they were built for. This lets id 0 mean "first tag
assigned in this scope" rather than requiring a single global id space
shared across every tag/category page in the archive.
*/
package searchindex

import (
	"context"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/store"
	internaltemplates "github.com/imaybeabitshy/zimfiction/internal/templates"
)

// Header is the search_header.json shape (spec §4.4).
type Header struct {
	NumPages int                       `json:"num_pages"`
	TagIDs   map[string]map[string]int `json:"tag_ids"`
	Amounts  map[int]int               `json:"amounts"`
}

// Record is one entry of a search_content_<i>.json shard (spec §4.4).
type Record struct {
	Publisher     string   `json:"publisher"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Updated       string   `json:"updated"`
	Words         int      `json:"words"`
	Chapters      int      `json:"chapters"`
	Score         int      `json:"score"`
	Rating        string   `json:"rating"`
	Language      string   `json:"language"`
	Status        string   `json:"status"`
	Categories    []string `json:"categories"`
	Series        [][2]any `json:"series"`
	Summary       string   `json:"summary"`
	Tags          []int    `json:"tags"`
	ImpliedTags   []int    `json:"implied_tags"`
	CategoryCount int      `json:"category_count"`
}

// fieldNames is the fixed set of search fields spec §4.4 enumerates.
var fieldNames = []string{"publisher", "language", "status", "categories", "warnings", "characters", "relationships", "tags", "rating"}

// fieldForTagType maps a model.TagType to its search field. Genre and
// special tags both collapse into the catch-all "tags" field; category,
// warning, character, and relationship each get a dedicated field
// matching spec §4.4's field list. Tag types with no search field
// (status/rating/language, already first-class record columns) return "".
func fieldForTagType(t model.TagType) string {
	switch t {
	case model.TagTypeCategory:
		return "categories"
	case model.TagTypeWarning:
		return "warnings"
	case model.TagTypeCharacter:
		return "characters"
	case model.TagTypeRelationship:
		return "relationships"
	case model.TagTypeGenre, model.TagTypeSpecial:
		return "tags"
	default:
		return ""
	}
}

// idAssigner hands out scope-local, globally-unique-within-scope integer
// ids, grouped by field for the header but drawn from one flat counter so
// a story record's combined "tags"/"implied_tags" arrays can mix ids from
// every field without collision.
type idAssigner struct {
	next int
	ids  map[string]map[string]int // field -> name -> id
}

func newIDAssigner() *idAssigner {
	ids := make(map[string]map[string]int, len(fieldNames))
	for _, f := range fieldNames {
		ids[f] = make(map[string]int)
	}
	return &idAssigner{ids: ids}
}

func (a *idAssigner) idFor(field, name string) int {
	bucket := a.ids[field]
	if bucket == nil {
		bucket = make(map[string]int)
		a.ids[field] = bucket
	}
	if id, ok := bucket[name]; ok {
		return id
	}
	id := a.next
	a.next++
	bucket[name] = id
	return id
}

// Build computes the header and every shard for the story set matched by
// q, sharding at shardSize records per file. Returns (nil, nil, nil) if
// the set's size falls outside [nMin, nMax] (spec §4.4: "emit no search
// index" — the caller interprets a nil header as "skip this scope's
// search jobs").
func Build(ctx context.Context, st store.Store, q store.StoryQuery, nMin, nMax, shardSize int) (*Header, [][]byte, error) {
	total, err := st.CountStories(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if total < nMin || total > nMax {
		return nil, nil, nil
	}

	var stories []*model.Story
	cursor := ""
	for {
		page, err := st.ListStories(ctx, q, cursor, 500)
		if err != nil {
			return nil, nil, err
		}
		stories = append(stories, page.Items...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	assigner := newIDAssigner()
	amounts := make(map[int]int)
	records := make([]Record, 0, len(stories))

	for _, s := range stories {
		record, explicitIDs, impliedIDs := buildRecord(s, assigner)
		records = append(records, record)
		seen := make(map[int]bool)
		for _, id := range explicitIDs {
			if !seen[id] {
				amounts[id]++
				seen[id] = true
			}
		}
		for _, id := range impliedIDs {
			if !seen[id] {
				amounts[id]++
				seen[id] = true
			}
		}
	}

	header := &Header{
		NumPages: numShards(len(records), shardSize),
		TagIDs:   assigner.ids,
		Amounts:  amounts,
	}

	shards := make([][]byte, header.NumPages)
	for i := 0; i < header.NumPages; i++ {
		start := i * shardSize
		end := start + shardSize
		if end > len(records) {
			end = len(records)
		}
		data, err := json.Marshal(records[start:end])
		if err != nil {
			return nil, nil, err
		}
		shards[i] = data
	}

	return header, shards, nil
}

func buildRecord(s *model.Story, assigner *idAssigner) (Record, []int, []int) {
	var explicitIDs, impliedIDs []int
	var categories []string
	categoryCount := 0

	addFirstClass := func(field, value string) {
		if value == "" {
			return
		}
		explicitIDs = append(explicitIDs, assigner.idFor(field, value))
	}
	addFirstClass("publisher", s.Publisher)
	addFirstClass("language", s.Language)
	addFirstClass("rating", s.Rating)
	addFirstClass("status", string(s.Status))

	for _, tag := range s.Tags {
		field := fieldForTagType(tag.Type)
		if field == "" {
			continue
		}
		id := assigner.idFor(field, tag.Name)
		if tag.Implied {
			impliedIDs = append(impliedIDs, id)
		} else {
			explicitIDs = append(explicitIDs, id)
		}
		if tag.Type == model.TagTypeCategory {
			categories = append(categories, tag.Name)
			if !tag.Implied {
				categoryCount++
			}
		}
	}

	record := Record{
		Publisher:     s.Publisher,
		ID:            s.ID,
		Title:         s.Title,
		Author:        s.AuthorName,
		Updated:       s.UpdatedDate,
		Words:         s.TotalWords(),
		Chapters:      len(s.Chapters),
		Score:         s.Score,
		Rating:        s.Rating,
		Language:      s.Language,
		Status:        string(s.Status),
		Categories:    categories,
		Series:        [][2]any{},
		Summary:       summarize(s.SummaryHTML),
		Tags:          sortedInts(explicitIDs),
		ImpliedTags:   sortedInts(impliedIDs),
		CategoryCount: categoryCount,
	}
	return record, explicitIDs, impliedIDs
}

// summarize renders a story's summary as plain text for the preview
// record, trimmed to a bounded length so shards stay within the ~200-500
// KiB target (spec §4.4).
func summarize(summaryHTML string) string {
	text := internaltemplates.StripTags(summaryHTML)
	text = strings.TrimSpace(text)
	const maxLen = 500
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

func sortedInts(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func numShards(total, shardSize int) int {
	if total <= 0 {
		return 0
	}
	pages := total / shardSize
	if total%shardSize != 0 {
		pages++
	}
	return pages
}

// MarshalHeader serializes h for a search_header.json artifact.
func MarshalHeader(h *Header) ([]byte, error) {
	return json.Marshal(h)
}
