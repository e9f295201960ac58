// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package model defines the entity types the build stage reads from the
entity store (internal/store) and projects into render-ready views
(internal/render).

All types here are immutable from the build stage's point of view — the
store is read-only during build (spec §3, §5) — so none of these types carry
mutation methods beyond the ordering/derivation helpers below, which are pure
functions of already-loaded data.
*/
package model

import (
	"sort"
	"strings"
)

// Status is the completion state of a Story.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusUnknown   Status = "unknown"
)

// TagType is the closed set of tag categories a Tag may belong to.
type TagType string

const (
	TagTypeCategory     TagType = "category"
	TagTypeWarning      TagType = "warning"
	TagTypeRelationship TagType = "relationship"
	TagTypeCharacter    TagType = "character"
	TagTypeGenre        TagType = "genre"
	TagTypeRating       TagType = "rating"
	TagTypeLanguage     TagType = "language"
	TagTypeStatus       TagType = "status"
	TagTypePublisher    TagType = "publisher"
	TagTypeSeries       TagType = "series"
	TagTypeSpecial      TagType = "special"
)

// internalTagTypes are tag types whose value duplicates a first-class Story
// field and are therefore excluded from OrderedVisibleTags (spec §3).
var internalTagTypes = map[TagType]bool{
	TagTypeStatus:   true,
	TagTypeRating:   true,
	TagTypeLanguage: true,
}

// Chapter is a single entry in a Story's ordered chapter sequence.
type Chapter struct {
	Index   int
	Title   string
	TextRaw string
}

// TagRef attaches a Tag to a Story, recording whether it is implied
// (inferred by the implication stage, out of scope here) rather than
// explicit (author-applied).
type TagRef struct {
	Type     TagType
	Name     string
	Implied  bool
	TagID    int // not set in this module; searchindex keeps scope-local ids in its own table
}

// Story is the central entity of the archive.
type Story struct {
	ID            string
	Publisher     string
	AuthorName    string
	Title         string
	SummaryHTML   string
	Language      string
	Status        Status
	Rating        string
	URL           string
	PublishedDate string // YYYY-MM-DD
	UpdatedDate   string
	PackagedDate  string
	SourceGroup   string
	SourceName    string
	Score         int
	Chapters      []Chapter
	Tags          []TagRef
}

// OrderedVisibleTags returns Tags sorted by (Type, Name), excluding tags
// whose type duplicates a first-class field and excluding any implied tag
// whose name is already present as an explicit tag of the same type
// (explicit wins, spec §3).
func (s *Story) OrderedVisibleTags() []TagRef {
	explicit := make(map[TagType]map[string]bool)
	for _, t := range s.Tags {
		if t.Implied {
			continue
		}
		if explicit[t.Type] == nil {
			explicit[t.Type] = make(map[string]bool)
		}
		explicit[t.Type][t.Name] = true
	}

	visible := make([]TagRef, 0, len(s.Tags))
	for _, t := range s.Tags {
		if internalTagTypes[t.Type] {
			continue
		}
		if t.Implied && explicit[t.Type][t.Name] {
			continue
		}
		visible = append(visible, t)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Type != visible[j].Type {
			return visible[i].Type < visible[j].Type
		}
		return visible[i].Name < visible[j].Name
	})
	return visible
}

// TotalWords sums a stable whitespace-split word count across all chapters.
// Never cached — recomputed from chapter text on every call, per spec §3.
func (s *Story) TotalWords() int {
	total := 0
	for _, c := range s.Chapters {
		total += WordCount(c.TextRaw)
	}
	return total
}

// WordCount performs the spec's stable word-count function: whitespace-split
// on normalized (collapsed-whitespace) text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Author identity is (Publisher, Name).
type Author struct {
	Name      string
	Publisher string
	URL       string
}

// SeriesMember is one entry in a Series' ordered member list.
type SeriesMember struct {
	StoryID string
	Index   int
}

// Series groups an ordered sequence of stories under one publisher.
type Series struct {
	Name      string
	Publisher string
	Members   []SeriesMember
}

// Publisher is the originating archive site.
type Publisher struct {
	Name string
}

// Category is a Tag of type TagTypeCategory, scoped by publisher.
type Category struct {
	Publisher string
	Name      string
}
