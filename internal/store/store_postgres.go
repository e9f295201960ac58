// Copyright (c) 2026 ZimFiction. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imaybeabitshy/zimfiction/internal/dberr"
	"github.com/imaybeabitshy/zimfiction/internal/model"
	"github.com/imaybeabitshy/zimfiction/internal/store/schema"
)

// PostgresStore is the Store implementation backed by the import/implication
// stages' relational schema. It never writes — every method issues a SELECT
// — matching spec §5's "Store: read-only after the import/implication
// stages; workers open their own handles."
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an already-connected pool. Connection strings are
// opaque to the core (spec §6.1); dialing happens in cmd/zimbuild.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetStory(ctx context.Context, publisher, id string) (*model.Story, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1 AND %s = $2
	`, strings.Join(schema.Story.Columns(), ", "), schema.Story.Table, schema.Story.Publisher, schema.Story.ID)

	row := s.db.QueryRow(ctx, query, publisher, id)
	story, err := scanStory(row)
	if err != nil {
		return nil, dberr.Wrap(err, "get_story")
	}

	chapters, err := s.listChapters(ctx, publisher, id)
	if err != nil {
		return nil, err
	}
	story.Chapters = chapters

	tags, err := s.listStoryTags(ctx, publisher, id)
	if err != nil {
		return nil, err
	}
	story.Tags = tags

	return story, nil
}

func (s *PostgresStore) listChapters(ctx context.Context, publisher, storyID string) ([]model.Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC
	`, schema.Chapter.Index, schema.Chapter.Title, schema.Chapter.TextHTML, schema.Chapter.Table,
		schema.Chapter.Publisher, schema.Chapter.StoryID, schema.Chapter.Index)

	rows, err := s.db.Query(ctx, query, publisher, storyID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapters")
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		var c model.Chapter
		if err := rows.Scan(&c.Index, &c.Title, &c.TextRaw); err != nil {
			return nil, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

func (s *PostgresStore) listStoryTags(ctx context.Context, publisher, storyID string) ([]model.TagRef, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE %s = $1 AND %s = $2
	`, schema.StoryTag.Type, schema.StoryTag.Name, schema.StoryTag.Implied, schema.StoryTag.Table,
		schema.StoryTag.Publisher, schema.StoryTag.StoryID)

	rows, err := s.db.Query(ctx, query, publisher, storyID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_story_tags")
	}
	defer rows.Close()

	var tags []model.TagRef
	for rows.Next() {
		var t model.TagRef
		if err := rows.Scan(&t.Type, &t.Name, &t.Implied); err != nil {
			return nil, dberr.Wrap(err, "scan_story_tag")
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *PostgresStore) ListStories(ctx context.Context, q StoryQuery, cursor string, limit int) (Page[*model.Story], error) {
	where := []string{"1=1"}
	args := []any{}
	argn := 1

	add := func(col string, val any) {
		where = append(where, fmt.Sprintf("%s = $%d", col, argn))
		args = append(args, val)
		argn++
	}

	switch {
	case q.Publisher != "" && q.AuthorName != "":
		add(schema.Story.Publisher, q.Publisher)
		add(schema.Story.AuthorName, q.AuthorName)
	case q.Publisher != "":
		add(schema.Story.Publisher, q.Publisher)
	case q.AuthorName != "":
		add(schema.Story.AuthorName, q.AuthorName)
	}

	if cursor != "" {
		where = append(where, fmt.Sprintf("%s > $%d", schema.Story.ID, argn))
		args = append(args, cursor)
		argn++
	}

	// Tag/category/series scoping requires a join; handled by a dedicated
	// query shape since they don't share the story table's own columns.
	var joinQuery string
	switch {
	case q.TagName != "":
		joinQuery = fmt.Sprintf(`
			SELECT s.%s FROM %s s
			JOIN %s st ON st.%s = s.%s AND st.%s = s.%s
			WHERE st.%s = $%d AND st.%s = $%d
		`, strings.Join(prefixColumns("s", schema.Story.Columns()), ", s."), schema.Story.Table,
			schema.StoryTag.Table, schema.StoryTag.StoryID, schema.Story.ID, schema.StoryTag.Publisher, schema.Story.Publisher,
			schema.StoryTag.Type, argn, schema.StoryTag.Name, argn+1)
		args = append(args, string(q.TagType), q.TagName)
		argn += 2
	case q.SeriesName != "":
		joinQuery = fmt.Sprintf(`
			SELECT s.%s FROM %s s
			JOIN %s sm ON sm.%s = s.%s AND sm.%s = s.%s
			WHERE sm.%s = $%d
			ORDER BY sm.%s ASC
		`, strings.Join(prefixColumns("s", schema.Story.Columns()), ", s."), schema.Story.Table,
			schema.SeriesMember.Table, schema.SeriesMember.StoryID, schema.Story.ID, schema.SeriesMember.Publisher, schema.Story.Publisher,
			schema.SeriesMember.SeriesName, argn, schema.SeriesMember.MemberIndex)
		args = append(args, q.SeriesName)
		argn++
	}

	var query string
	if joinQuery != "" {
		query = joinQuery
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE %s
			ORDER BY %s, %s ASC
		`, strings.Join(schema.Story.Columns(), ", "), schema.Story.Table, strings.Join(where, " AND "),
			schema.Story.Publisher, schema.Story.ID)
	}
	query += fmt.Sprintf(" LIMIT %d", limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page[*model.Story]{}, dberr.Wrap(err, "list_stories")
	}
	defer rows.Close()

	var stories []*model.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return Page[*model.Story]{}, dberr.Wrap(err, "scan_story")
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return Page[*model.Story]{}, dberr.Wrap(err, "list_stories_rows")
	}

	page := Page[*model.Story]{Items: stories}
	if len(stories) > limit {
		page.Items = stories[:limit]
		page.HasMore = true
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	return page, nil
}

func (s *PostgresStore) CountStories(ctx context.Context, q StoryQuery) (int, error) {
	where := []string{"1=1"}
	args := []any{}
	argn := 1
	if q.Publisher != "" {
		where = append(where, fmt.Sprintf("%s = $%d", schema.Story.Publisher, argn))
		args = append(args, q.Publisher)
		argn++
	}
	if q.AuthorName != "" {
		where = append(where, fmt.Sprintf("%s = $%d", schema.Story.AuthorName, argn))
		args = append(args, q.AuthorName)
		argn++
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.Story.Table, strings.Join(where, " AND "))

	var count int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_stories")
	}
	return count, nil
}

func (s *PostgresStore) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s ORDER BY %s ASC`,
		schema.Story.Publisher, schema.Story.Table, schema.Story.Publisher)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_publishers")
	}
	defer rows.Close()

	var out []model.Publisher
	for rows.Next() {
		var p model.Publisher
		if err := rows.Scan(&p.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_publisher")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListAuthors(ctx context.Context, publisher string, cursor string, limit int) (Page[model.Author], error) {
	where := []string{"1=1"}
	args := []any{}
	argn := 1
	if publisher != "" {
		where = append(where, fmt.Sprintf("%s = $%d", schema.Author.Publisher, argn))
		args = append(args, publisher)
		argn++
	}
	if cursor != "" {
		where = append(where, fmt.Sprintf("%s > $%d", schema.Author.Name, argn))
		args = append(args, cursor)
		argn++
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s ORDER BY %s, %s ASC LIMIT %d
	`, strings.Join(schema.Author.Columns(), ", "), schema.Author.Table, strings.Join(where, " AND "),
		schema.Author.Publisher, schema.Author.Name, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page[model.Author]{}, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.Name, &a.Publisher, &a.URL); err != nil {
			return Page[model.Author]{}, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return Page[model.Author]{}, dberr.Wrap(err, "list_authors_rows")
	}

	page := Page[model.Author]{Items: authors}
	if len(authors) > limit {
		page.Items = authors[:limit]
		page.HasMore = true
		page.NextCursor = page.Items[len(page.Items)-1].Name
	}
	return page, nil
}

func (s *PostgresStore) FindAltIdentities(ctx context.Context, name string) ([]model.Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		strings.Join(schema.Author.Columns(), ", "), schema.Author.Table, schema.Author.Name, schema.Author.Publisher)

	rows, err := s.db.Query(ctx, query, name)
	if err != nil {
		return nil, dberr.Wrap(err, "find_alt_identities")
	}
	defer rows.Close()

	var out []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.Name, &a.Publisher, &a.URL); err != nil {
			return nil, dberr.Wrap(err, "scan_alt_identity")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListSeries(ctx context.Context, publisher string, cursor string, limit int) (Page[*model.Series], error) {
	where := []string{"1=1"}
	args := []any{}
	argn := 1
	if publisher != "" {
		where = append(where, fmt.Sprintf("%s = $%d", schema.Series.Publisher, argn))
		args = append(args, publisher)
		argn++
	}
	if cursor != "" {
		where = append(where, fmt.Sprintf("%s > $%d", schema.Series.Name, argn))
		args = append(args, cursor)
		argn++
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s ORDER BY %s, %s ASC LIMIT %d
	`, strings.Join(schema.Series.Columns(), ", "), schema.Series.Table, strings.Join(where, " AND "),
		schema.Series.Publisher, schema.Series.Name, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page[*model.Series]{}, dberr.Wrap(err, "list_series")
	}
	defer rows.Close()

	var out []*model.Series
	for rows.Next() {
		sr := &model.Series{}
		if err := rows.Scan(&sr.Name, &sr.Publisher); err != nil {
			return Page[*model.Series]{}, dberr.Wrap(err, "scan_series")
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return Page[*model.Series]{}, dberr.Wrap(err, "list_series_rows")
	}

	for _, sr := range out {
		members, err := s.listSeriesMembers(ctx, sr.Publisher, sr.Name)
		if err != nil {
			return Page[*model.Series]{}, err
		}
		sr.Members = members
	}

	page := Page[*model.Series]{Items: out}
	if len(out) > limit {
		page.Items = out[:limit]
		page.HasMore = true
		page.NextCursor = page.Items[len(page.Items)-1].Name
	}
	return page, nil
}

func (s *PostgresStore) listSeriesMembers(ctx context.Context, publisher, seriesName string) ([]model.SeriesMember, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s ASC
	`, schema.SeriesMember.StoryID, schema.SeriesMember.MemberIndex, schema.SeriesMember.Table,
		schema.SeriesMember.Publisher, schema.SeriesMember.SeriesName, schema.SeriesMember.MemberIndex)

	rows, err := s.db.Query(ctx, query, publisher, seriesName)
	if err != nil {
		return nil, dberr.Wrap(err, "list_series_members")
	}
	defer rows.Close()

	var out []model.SeriesMember
	for rows.Next() {
		var m model.SeriesMember
		if err := rows.Scan(&m.StoryID, &m.Index); err != nil {
			return nil, dberr.Wrap(err, "scan_series_member")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListCategories(ctx context.Context, publisher string) ([]model.Category, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s, %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s ASC
	`, schema.StoryTag.Publisher, schema.StoryTag.Name, schema.StoryTag.Table,
		schema.StoryTag.Publisher, schema.StoryTag.Type, schema.StoryTag.Name)

	rows, err := s.db.Query(ctx, query, publisher, string(model.TagTypeCategory))
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Publisher, &c.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) EnumerateTagTypes(ctx context.Context) ([]TagTypeCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(DISTINCT %s) FROM %s
		GROUP BY %s, %s ORDER BY %s, %s ASC
	`, schema.StoryTag.Publisher, schema.StoryTag.Type, schema.StoryTag.StoryID, schema.StoryTag.Table,
		schema.StoryTag.Publisher, schema.StoryTag.Type, schema.StoryTag.Publisher, schema.StoryTag.Type)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "enumerate_tag_types")
	}
	defer rows.Close()

	var out []TagTypeCount
	for rows.Next() {
		var c TagTypeCount
		if err := rows.Scan(&c.Publisher, &c.TagType, &c.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_tag_type_count")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListTagNames(ctx context.Context, publisher string, tagType model.TagType) ([]string, error) {
	where := []string{fmt.Sprintf("%s = $1", schema.StoryTag.Type)}
	args := []any{string(tagType)}
	if publisher != "" {
		where = append(where, fmt.Sprintf("%s = $2", schema.StoryTag.Publisher))
		args = append(args, publisher)
	}
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM %s WHERE %s ORDER BY %s ASC
	`, schema.StoryTag.Name, schema.StoryTag.Table, strings.Join(where, " AND "), schema.StoryTag.Name)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tag_names")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(err, "scan_tag_name")
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// rowScanner abstracts over pgx.Row and pgx.Rows, both of which satisfy Scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*model.Story, error) {
	s := &model.Story{}
	var status string
	err := row.Scan(
		&s.ID, &s.Publisher, &s.AuthorName, &s.Title, &s.SummaryHTML, &s.Language,
		&status, &s.Rating, &s.URL, &s.PublishedDate, &s.UpdatedDate,
		&s.PackagedDate, &s.SourceGroup, &s.SourceName, &s.Score,
	)
	if err != nil {
		return nil, err
	}
	s.Status = model.Status(status)
	return s, nil
}

func prefixColumns(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	out[0] = alias + "." + out[0]
	return out
}
