package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFileName(t *testing.T) {
	assert.Equal(t, "page-001.html", PageFileName(1))
	assert.Equal(t, "page-042.html", PageFileName(42))
	assert.Equal(t, "page-123.html", PageFileName(123))
}

func TestPaginationSinglePage(t *testing.T) {
	got := Pagination(1, 1)
	assert.Contains(t, got, `href="index.html"`)
	assert.NotContains(t, got, "page-001.html", "no page links when there is only one page")
}

func TestPaginationMiddlePage(t *testing.T) {
	got := Pagination(2, 3)

	assert.Contains(t, got, `href="page-001.html"`)
	assert.Contains(t, got, `href="page-003.html"`)
	assert.Contains(t, got, `<span class="current">2</span>`)
	assert.Contains(t, got, "Prev")
	assert.Contains(t, got, "Next")
}

func TestPaginationEdges(t *testing.T) {
	first := Pagination(1, 3)
	assert.Contains(t, first, `<span class="disabled">&larr; Prev</span>`)
	assert.Contains(t, first, `href="page-002.html"`)

	last := Pagination(3, 3)
	assert.Contains(t, last, `<span class="disabled">Next &rarr;</span>`)
	assert.Contains(t, last, `href="page-002.html"`)
}

func TestIndexPagination(t *testing.T) {
	got := IndexPagination(2)

	assert.Contains(t, got, `<span class="current">Index</span>`)
	assert.Contains(t, got, `href="page-001.html"`)
	assert.Contains(t, got, `href="page-002.html"`)
}

func TestPageTemplate(t *testing.T) {
	got := PageTemplate(2, 5, "<nav/>", "<div>messages</div>")

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Contains(t, got, "page 2/5")
	assert.Contains(t, got, "<div>messages</div>")
	assert.Equal(t, 2, strings.Count(got, "<nav/>"), "nav renders above and below the messages")
}

func TestIndexTemplateSummaryLine(t *testing.T) {
	got := IndexTemplate("<nav/>", 1, 4, 7, 2, 1, "<div>items</div>")

	assert.Contains(t, got, "1 prompts")
	assert.Contains(t, got, "4 messages")
	assert.Contains(t, got, "7 tool calls")
	assert.Contains(t, got, "2 commits")
	assert.Contains(t, got, "1 pages")
	assert.Contains(t, got, "<div>items</div>")
	assert.Contains(t, got, "search-modal")
}

func TestIndexItemAndStats(t *testing.T) {
	stats := IndexStats("5 bash · 1 read", IndexLongText("<p>long passage</p>"))
	item := IndexItem(3, "page-001.html#msg-x", "2024-03-01T10:00:00Z", "<p>prompt</p>", stats)

	assert.Contains(t, item, `href="page-001.html#msg-x"`)
	assert.Contains(t, item, "#3")
	assert.Contains(t, item, "<p>prompt</p>")
	assert.Contains(t, item, "5 bash")
	assert.Contains(t, item, "long passage")
}

func TestIndexStatsEmpty(t *testing.T) {
	assert.Equal(t, "", IndexStats("", ""))
}

func TestIndexCommitLinking(t *testing.T) {
	linked := IndexCommit("abcdef0123456", "Fix things", "2024-03-01T10:00:00Z", "owner/repo")
	assert.Contains(t, linked, "https://github.com/owner/repo/commit/abcdef0123456")
	assert.Contains(t, linked, "abcdef0")

	bare := IndexCommit("abcdef0123456", "Fix things", "2024-03-01T10:00:00Z", "")
	assert.NotContains(t, bare, "<a ")
}

func TestProjectIndexTemplate(t *testing.T) {
	got := ProjectIndexTemplate("myproject", []ProjectIndexSession{
		{Name: "a-session", Summary: "did a thing", Date: "2024-03-01 10:00", Size: "12 KB"},
	})

	assert.Contains(t, got, "myproject")
	assert.Contains(t, got, "1 session<")
	assert.Contains(t, got, "a-session/index.html")
	assert.Contains(t, got, "did a thing")
	assert.Contains(t, got, "12 KB")
}

func TestMasterIndexTemplate(t *testing.T) {
	got := MasterIndexTemplate([]MasterIndexProject{
		{Name: "alpha", SessionCount: 2, RecentDate: "2024-03-01"},
		{Name: "beta", SessionCount: 1, RecentDate: "2024-02-15"},
	}, 3)

	assert.Contains(t, got, "2 projects")
	assert.Contains(t, got, "3 sessions")
	assert.Contains(t, got, "alpha/index.html")
	assert.Contains(t, got, "1 session<")
}
