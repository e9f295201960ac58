// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package aggregator accumulates the cross-references and statistics spec
§4.3 assigns to phases 1–3: per-scope story/word/chapter counts, monthly
published/updated histograms, tag frequency, alt-identity clusters, and
per-publisher category membership rollups.

Every reduction here is commutative: Observe* calls may arrive from any
goroutine in any order (JobPlanner feeds the per-story/author/series
observations as it streams phase 1–3 jobs) and the result is identical.
Rather than guard every map with its own mutex, a single background
goroutine owns all mutable state and drains a channel of contributions —
the same "single writer owns the map, everyone else sends on a channel"
shape the teacher reaches for around its session cache, generalized here
to an in-process reducer. SealPhase blocks until every contribution sent
before it has been applied, then hands back an immutable Snapshot; phase
4 onward only ever reads a Snapshot, never the live Aggregator (spec
§4.3: "aggregated only during phases 1-3").
*/
package aggregator

import (
	"context"

	"github.com/imaybeabitshy/zimfiction/internal/model"
)

// MonthCounts is one (published, updated) pair of story counts for a
// single "YYYY-MM" bucket.
type MonthCounts struct {
	Published int
	Updated   int
}

// Histogram is a scope's month-bucketed published/updated series, kept as
// a map during accumulation and flattened to parallel arrays (spec §6.5)
// only when a chart-data artifact is actually rendered.
type Histogram map[string]MonthCounts

// clone returns a defensive copy so a Snapshot's caller cannot mutate
// aggregator-owned state.
func (h Histogram) clone() Histogram {
	out := make(Histogram, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func (h Histogram) observe(publishedMonth, updatedMonth string) {
	if publishedMonth != "" {
		c := h[publishedMonth]
		c.Published++
		h[publishedMonth] = c
	}
	if updatedMonth != "" {
		c := h[updatedMonth]
		c.Updated++
		h[updatedMonth] = c
	}
}

func monthOf(isoDate string) string {
	if len(isoDate) < 7 {
		return ""
	}
	return isoDate[:7]
}

// authorKey identifies an author scoped to its publisher, since author
// names are only unique per-publisher (spec §3's alt-identity clusters
// exist precisely because the same name can recur across publishers).
type authorKey struct {
	Publisher string
	Name      string
}

// tagKey identifies a tag-typed scope. Category tags are additionally
// scoped by publisher (spec §6.2's "/category/<publisher>/<slug>/..."
// path); every other tag type is a global namespace
// ("/tag/<type>/<slug>/...").
type tagKey struct {
	Type      model.TagType
	Publisher string // only meaningful when Type == TagTypeCategory
	Name      string
}

// state is the live, single-goroutine-owned mutable state the Aggregator
// folds contributions into.
type state struct {
	totalStories  int
	totalWords    int
	totalChapters int
	totalSeries   int

	global            Histogram
	publishers        map[string]Histogram
	authors           map[authorKey]Histogram
	tags              map[tagKey]Histogram
	categoryCounts    map[string]map[string]int // publisher -> category name -> story count
	altIdentities     map[string][]model.Author // author name -> every (publisher, author) sharing it
	seriesByPublisher map[string]int
}

func newState() *state {
	return &state{
		global:            make(Histogram),
		publishers:        make(map[string]Histogram),
		authors:            make(map[authorKey]Histogram),
		tags:              make(map[tagKey]Histogram),
		categoryCounts:    make(map[string]map[string]int),
		altIdentities:     make(map[string][]model.Author),
		seriesByPublisher: make(map[string]int),
	}
}

func (s *state) histogramFor(publisher string) Histogram {
	h, ok := s.publishers[publisher]
	if !ok {
		h = make(Histogram)
		s.publishers[publisher] = h
	}
	return h
}

func (s *state) authorHistogram(key authorKey) Histogram {
	h, ok := s.authors[key]
	if !ok {
		h = make(Histogram)
		s.authors[key] = h
	}
	return h
}

func (s *state) tagHistogram(key tagKey) Histogram {
	h, ok := s.tags[key]
	if !ok {
		h = make(Histogram)
		s.tags[key] = h
	}
	return h
}

func (s *state) observeStory(story *model.Story) {
	s.totalStories++
	s.totalWords += story.TotalWords()
	s.totalChapters += len(story.Chapters)

	publishedMonth := monthOf(story.PublishedDate)
	updatedMonth := monthOf(story.UpdatedDate)

	s.global.observe(publishedMonth, updatedMonth)
	s.histogramFor(story.Publisher).observe(publishedMonth, updatedMonth)
	s.authorHistogram(authorKey{Publisher: story.Publisher, Name: story.AuthorName}).observe(publishedMonth, updatedMonth)

	for _, tag := range story.Tags {
		key := tagKey{Type: tag.Type, Name: tag.Name}
		if tag.Type == model.TagTypeCategory {
			key.Publisher = story.Publisher
			bucket, ok := s.categoryCounts[story.Publisher]
			if !ok {
				bucket = make(map[string]int)
				s.categoryCounts[story.Publisher] = bucket
			}
			bucket[tag.Name]++
		}
		s.tagHistogram(key).observe(publishedMonth, updatedMonth)
	}
}

func (s *state) observeAuthor(author model.Author) {
	s.altIdentities[author.Name] = append(s.altIdentities[author.Name], author)
}

func (s *state) observeSeries(series *model.Series) {
	s.totalSeries++
	s.seriesByPublisher[series.Publisher]++
}

// request is the sum type sent over the Aggregator's single reducer
// channel: exactly one of its fields is populated per message.
type request struct {
	story  *model.Story
	author *model.Author
	series *model.Series

	// seal, when non-nil, asks the reducer to snapshot current state and
	// reply on the given channel. Sent after every prior request has
	// already been applied, since the channel itself serializes delivery.
	seal chan *Snapshot
}

// Aggregator accumulates Observe* calls from any number of goroutines and
// exposes a sealed, read-only Snapshot once a phase completes.
type Aggregator struct {
	requests chan request
	done     chan struct{}
	cancel   context.CancelFunc
}

// New starts an Aggregator's reducer goroutine. Cancelling ctx or calling
// Close stops it.
func New(ctx context.Context) *Aggregator {
	ctx, cancel := context.WithCancel(ctx)
	a := &Aggregator{
		requests: make(chan request),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go a.run(ctx)
	return a
}

func (a *Aggregator) run(ctx context.Context) {
	defer close(a.done)
	s := newState()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-a.requests:
			switch {
			case req.story != nil:
				s.observeStory(req.story)
			case req.author != nil:
				s.observeAuthor(*req.author)
			case req.series != nil:
				s.observeSeries(req.series)
			case req.seal != nil:
				req.seal <- snapshotOf(s)
			}
		}
	}
}

// send delivers req to the reducer, returning ctx.Err() if the context is
// cancelled first (e.g. a worker backing off from a shutdown signal).
func (a *Aggregator) send(ctx context.Context, req request) error {
	select {
	case a.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ObserveStory folds one story's contribution into the aggregator. Called
// once per story during phase 1 (spec §4.3).
func (a *Aggregator) ObserveStory(ctx context.Context, story *model.Story) error {
	return a.send(ctx, request{story: story})
}

// ObserveAuthor folds one (publisher, author) pair into the alt-identity
// cluster for author.Name. Called once per author during phase 2.
func (a *Aggregator) ObserveAuthor(ctx context.Context, author model.Author) error {
	return a.send(ctx, request{author: &author})
}

// ObserveSeries folds one series into the series totals. Called once per
// series during phase 3.
func (a *Aggregator) ObserveSeries(ctx context.Context, series *model.Series) error {
	return a.send(ctx, request{series: series})
}

// SealPhase blocks until every Observe* call sent before it has been
// applied, then returns an immutable Snapshot of the current totals. The
// returned label is purely descriptive (for logging); the Aggregator does
// not care which phase is sealing and deliberately takes no dependency on
// internal/planner's Phase type to avoid an import cycle.
func (a *Aggregator) SealPhase(ctx context.Context, label string) (*Snapshot, error) {
	reply := make(chan *Snapshot, 1)
	if err := a.send(ctx, request{seal: reply}); err != nil {
		return nil, err
	}
	select {
	case snap := <-reply:
		snap.Label = label
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the reducer goroutine. Safe to call after the Aggregator's
// owning context is already cancelled.
func (a *Aggregator) Close() {
	a.cancel()
	<-a.done
}

// Snapshot is an immutable view of the Aggregator's state at the moment it
// was sealed. All accessor methods return defensive copies.
type Snapshot struct {
	Label string

	totalStories  int
	totalWords    int
	totalChapters int
	totalSeries   int

	global            Histogram
	publishers        map[string]Histogram
	authors           map[authorKey]Histogram
	tags              map[tagKey]Histogram
	categoryCounts    map[string]map[string]int
	altIdentities     map[string][]model.Author
	seriesByPublisher map[string]int
}

func snapshotOf(s *state) *Snapshot {
	snap := &Snapshot{
		totalStories:      s.totalStories,
		totalWords:        s.totalWords,
		totalChapters:     s.totalChapters,
		totalSeries:       s.totalSeries,
		global:            s.global.clone(),
		publishers:        make(map[string]Histogram, len(s.publishers)),
		authors:           make(map[authorKey]Histogram, len(s.authors)),
		tags:              make(map[tagKey]Histogram, len(s.tags)),
		categoryCounts:    make(map[string]map[string]int, len(s.categoryCounts)),
		altIdentities:     make(map[string][]model.Author, len(s.altIdentities)),
		seriesByPublisher: make(map[string]int, len(s.seriesByPublisher)),
	}
	for k, v := range s.publishers {
		snap.publishers[k] = v.clone()
	}
	for k, v := range s.authors {
		snap.authors[k] = v.clone()
	}
	for k, v := range s.tags {
		snap.tags[k] = v.clone()
	}
	for publisher, counts := range s.categoryCounts {
		cloned := make(map[string]int, len(counts))
		for name, n := range counts {
			cloned[name] = n
		}
		snap.categoryCounts[publisher] = cloned
	}
	for name, authors := range s.altIdentities {
		cloned := make([]model.Author, len(authors))
		copy(cloned, authors)
		snap.altIdentities[name] = cloned
	}
	for publisher, n := range s.seriesByPublisher {
		snap.seriesByPublisher[publisher] = n
	}
	return snap
}

// TotalStories is the global story count observed during phase 1.
func (s *Snapshot) TotalStories() int { return s.totalStories }

// TotalWords is the global word count summed across every story's chapters.
func (s *Snapshot) TotalWords() int { return s.totalWords }

// TotalChapters is the global chapter count.
func (s *Snapshot) TotalChapters() int { return s.totalChapters }

// TotalSeries is the global series count observed during phase 3.
func (s *Snapshot) TotalSeries() int { return s.totalSeries }

// GlobalHistogram is the archive-wide monthly published/updated series
// (spec §6.5 global statistics chart).
func (s *Snapshot) GlobalHistogram() Histogram {
	return s.global.clone()
}

// PublisherHistogram is publisher's monthly published/updated series.
func (s *Snapshot) PublisherHistogram(publisher string) Histogram {
	if h, ok := s.publishers[publisher]; ok {
		return h.clone()
	}
	return Histogram{}
}

// AuthorHistogram is (publisher, authorName)'s monthly published/updated
// series.
func (s *Snapshot) AuthorHistogram(publisher, authorName string) Histogram {
	if h, ok := s.authors[authorKey{Publisher: publisher, Name: authorName}]; ok {
		return h.clone()
	}
	return Histogram{}
}

// TagHistogram is the monthly published/updated series for a non-category
// tag, which is a global namespace (spec §6.2's "/tag/<type>/<slug>/...").
func (s *Snapshot) TagHistogram(tagType model.TagType, name string) Histogram {
	if h, ok := s.tags[tagKey{Type: tagType, Name: name}]; ok {
		return h.clone()
	}
	return Histogram{}
}

// CategoryHistogram is the monthly published/updated series for a
// publisher-scoped category (spec §6.2's
// "/category/<publisher>/<slug>/...").
func (s *Snapshot) CategoryHistogram(publisher, name string) Histogram {
	if h, ok := s.tags[tagKey{Type: model.TagTypeCategory, Publisher: publisher, Name: name}]; ok {
		return h.clone()
	}
	return Histogram{}
}

// CategoryCounts is publisher's category name -> story count rollup (spec
// §6.2 publisher categories page).
func (s *Snapshot) CategoryCounts(publisher string) map[string]int {
	out := make(map[string]int)
	for name, n := range s.categoryCounts[publisher] {
		out[name] = n
	}
	return out
}

// AltIdentities returns every (publisher, author) pair sharing name,
// accumulated from phase 2's ObserveAuthor calls (spec §3).
func (s *Snapshot) AltIdentities(name string) []model.Author {
	authors := s.altIdentities[name]
	out := make([]model.Author, len(authors))
	copy(out, authors)
	return out
}

// SeriesCount is the number of series observed under publisher.
func (s *Snapshot) SeriesCount(publisher string) int {
	return s.seriesByPublisher[publisher]
}
