package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;&amp;&lt;/b&gt;", Escape("<b>&</b>"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "hello world", StripTags("<p>hello <b>world</b></p>"))
}

func TestFormatDate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2020-01-05", "January 5, 2020"},
		{"1999-12-31", "December 31, 1999"},
		{"not-a-date", "not-a-date"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDate(c.in))
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{42, "42"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatNumber(c.in))
	}
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "Unknown", FormatRating(""))
	assert.Equal(t, "Explicit", FormatRating("explicit"))
	assert.Equal(t, "General Audiences", FormatRating("GENERAL AUDIENCES"))
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "Harry+Potter", NormalizeTag("Harry Potter"))
}

func TestRepairHTMLBalancesTags(t *testing.T) {
	out := RepairHTML("<p>unterminated paragraph")
	assert.Contains(t, out, "<p>")
	assert.Contains(t, out, "</p>")
}

func TestRepairHTMLDropsDisallowedElements(t *testing.T) {
	out := RepairHTML(`<p>safe</p><script>alert(1)</script>`)
	assert.Contains(t, out, "safe")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
}

func TestRenderStoryTextAddsParagraphAnchors(t *testing.T) {
	out := RenderStoryText("<p>first</p><p>second</p>")
	assert.Contains(t, out, `id="p-0"`)
	assert.Contains(t, out, `id="p-1"`)
}

func TestDefaultIndexAny(t *testing.T) {
	list := []string{"a", "b"}
	assert.Equal(t, "a", DefaultIndexAny(list, 0, "fallback"))
	assert.Equal(t, "fallback", DefaultIndexAny(list, 5, "fallback"))
	assert.Equal(t, "fallback", DefaultIndexAny(list, -1, "fallback"))
}

func TestDefaultIndexGeneric(t *testing.T) {
	list := []int{10, 20, 30}
	assert.Equal(t, 20, DefaultIndex(list, 1, -1))
	assert.Equal(t, -1, DefaultIndex(list, 9, -1))
}

func pageNumbers(tokens []PageToken) []int {
	var out []int
	for _, tok := range tokens {
		if tok.Ellipsis {
			out = append(out, -1)
			continue
		}
		out = append(out, tok.Page)
	}
	return out
}

func TestComputePaginationWindowSmallTotal(t *testing.T) {
	// spec.md §8 invariant 4: cur_page=1, num_pages=5 -> [1,2,3,4,5], no ellipsis.
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageNumbers(ComputePaginationWindow(1, 5)))
}

func TestComputePaginationWindowMiddle(t *testing.T) {
	// spec.md §8 invariant 4: cur_page=10, num_pages=20 -> [1,…,8,9,10,11,12,…,20].
	got := pageNumbers(ComputePaginationWindow(10, 20))
	assert.Equal(t, []int{1, -1, 8, 9, 10, 11, 12, -1, 20}, got)
}

func TestComputePaginationWindowLargeSkip(t *testing.T) {
	// spec.md §8 scenario 6: cur_page=100, num_pages=200 ->
	// [1,…,98,99,100,101,102,…,200].
	got := pageNumbers(ComputePaginationWindow(100, 200))
	assert.Equal(t, []int{1, -1, 98, 99, 100, 101, 102, -1, 200}, got)
}

func TestComputePaginationWindowSinglePage(t *testing.T) {
	assert.Nil(t, ComputePaginationWindow(1, 1))
	assert.Nil(t, ComputePaginationWindow(1, 0))
}

func TestComputePaginationWindowLastPage(t *testing.T) {
	got := pageNumbers(ComputePaginationWindow(5, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}
