// Copyright (c) 2026 ZimFiction. All rights reserved.

package render

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/model"
)

// chartData is the storyupdates.json shape fixed by spec §6.5.
type chartData struct {
	Months    []string `json:"months"`
	Published []int    `json:"published"`
	Updated   []int    `json:"updated"`
}

// buildChartJSON flattens a month-keyed Histogram into the parallel-array
// shape spec §6.5 fixes, sorted chronologically.
func buildChartJSON(hist aggregator.Histogram) ([]byte, error) {
	months := make([]string, 0, len(hist))
	for m := range hist {
		months = append(months, m)
	}
	sort.Strings(months)

	data := chartData{
		Months:    months,
		Published: make([]int, len(months)),
		Updated:   make([]int, len(months)),
	}
	for i, m := range months {
		data.Published[i] = hist[m].Published
		data.Updated[i] = hist[m].Updated
	}
	return json.Marshal(data)
}

// histogramFromStories computes a month histogram directly from a set of
// stories rather than from the Aggregator. Used for series chart data:
// spec §4.3 scopes Aggregator writes to phases 1-3's story/author/series
// observations, and the Aggregator's Series observation only tracks
// counts, not a month histogram — series chart data is instead one of the
// "(b) computed from read-only store projections" cases spec §4.1
// explicitly allows.
func histogramFromStories(stories []*model.Story) aggregator.Histogram {
	hist := make(aggregator.Histogram)
	for _, s := range stories {
		publishedMonth := monthOf(s.PublishedDate)
		updatedMonth := monthOf(s.UpdatedDate)
		if publishedMonth != "" {
			c := hist[publishedMonth]
			c.Published++
			hist[publishedMonth] = c
		}
		if updatedMonth != "" {
			c := hist[updatedMonth]
			c.Updated++
			hist[updatedMonth] = c
		}
	}
	return hist
}

func monthOf(isoDate string) string {
	if len(isoDate) < 7 {
		return ""
	}
	return isoDate[:7]
}
