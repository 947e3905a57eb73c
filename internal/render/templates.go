package render

import (
	"fmt"
	"strings"
)

// PageFileName returns the stable page file name for a 1-based page
// number, zero-padded to three digits.
func PageFileName(pageNum int) string {
	return fmt.Sprintf("page-%03d.html", pageNum)
}

const css = `:root { --text: #1e293b; --text-muted: #64748b; --bg: #ffffff; --bg-soft: #f8fafc; --border: #e2e8f0; --user-border: #0891b2; --accent: #0891b2; }
* { box-sizing: border-box; }
body { font-family: system-ui, -apple-system, sans-serif; color: var(--text); background: var(--bg); margin: 0; line-height: 1.6; }
.container { max-width: 900px; margin: 0 auto; padding: 16px; }
h1 { font-size: 1.4rem; }
pre { background: var(--bg-soft); border: 1px solid var(--border); border-radius: 6px; padding: 10px; overflow-x: auto; font-size: 0.85rem; white-space: pre-wrap; word-break: break-word; }
pre.json { background: #263238; color: #eceff1; border: none; }
code { background: rgba(0,0,0,0.06); padding: 2px 6px; border-radius: 4px; font-size: 0.875em; }
pre code { background: none; padding: 0; }
.message { border: 1px solid var(--border); border-radius: 10px; margin: 16px 0; background: var(--bg); overflow: hidden; }
.message.user { background: var(--bg-soft); border-left: 3px solid var(--user-border); }
.message.tool-reply { background: var(--bg-soft); border-left: 3px solid var(--border); }
.message-header { display: flex; justify-content: space-between; align-items: center; padding: 8px 14px; border-bottom: 1px solid var(--border); font-size: 0.8rem; }
.role-label { font-weight: 600; text-transform: uppercase; letter-spacing: 0.04em; color: var(--text-muted); }
.timestamp-link { color: var(--text-muted); text-decoration: none; }
.message-content { padding: 10px 14px; }
@keyframes highlight { 0% { background-color: rgba(8, 145, 178, 0.12); } 100% { background-color: transparent; } }
.message:target { animation: highlight 2s ease-out; }
.thinking { background: #fefce8; border: 1px dashed #eab308; border-radius: 8px; padding: 10px; margin: 8px 0; }
.thinking-label { font-size: 0.75rem; font-weight: 600; text-transform: uppercase; color: #a16207; margin-bottom: 4px; }
.tool-use, .tool-result, .file-tool { border: 1px solid var(--border); border-radius: 8px; margin: 8px 0; padding: 10px; background: var(--bg-soft); }
.tool-result { background: var(--bg); }
.tool-result.tool-error { border-color: #ef4444; background: #fef2f2; }
.tool-header, .file-tool-header { font-weight: 600; font-size: 0.85rem; margin-bottom: 4px; }
.tool-description { color: var(--text-muted); font-size: 0.85rem; margin-bottom: 4px; }
.file-tool-fullpath { color: var(--text-muted); font-size: 0.75rem; font-family: monospace; margin-bottom: 6px; }
.edit-section { display: flex; gap: 8px; margin: 4px 0; }
.edit-label { font-weight: 700; width: 14px; }
.edit-old pre { background: #fef2f2; flex: 1; }
.edit-new pre { background: #f0fdf4; flex: 1; }
.edit-replace-all { color: var(--text-muted); font-size: 0.8rem; }
.bash-command { font-family: monospace; }
.todo-list { border: 1px solid var(--border); border-radius: 8px; margin: 8px 0; padding: 10px; background: var(--bg-soft); }
.todo-header { font-weight: 600; font-size: 0.85rem; margin-bottom: 6px; }
.todo-items { list-style: none; margin: 0; padding: 0; }
.todo-item { display: flex; gap: 8px; padding: 2px 0; font-size: 0.9rem; }
.todo-completed .todo-content { text-decoration: line-through; color: var(--text-muted); }
.todo-in-progress .todo-content { font-weight: 600; }
.commit-card { border: 1px solid var(--accent); border-radius: 8px; padding: 8px 12px; margin: 8px 0; background: #ecfeff; }
.commit-card a { color: inherit; text-decoration: none; }
.commit-card-hash { font-family: monospace; font-weight: 700; color: var(--accent); }
.continuation { border: 1px dashed var(--border); border-radius: 10px; margin: 16px 0; padding: 8px 12px; color: var(--text-muted); }
.pagination { display: flex; flex-wrap: wrap; gap: 6px; margin: 16px 0; font-size: 0.9rem; }
.pagination a, .pagination span { padding: 4px 10px; border: 1px solid var(--border); border-radius: 6px; text-decoration: none; color: var(--text); }
.pagination .current { background: var(--accent); color: white; border-color: var(--accent); }
.pagination .disabled { color: var(--text-muted); }
.index-item, .index-commit { border: 1px solid var(--border); border-radius: 10px; margin: 12px 0; overflow: hidden; }
.index-item > a, .index-commit a { display: block; padding: 10px 14px; text-decoration: none; color: inherit; }
.index-item > a:hover, .index-commit a:hover { background: var(--bg-soft); }
.index-item-header, .index-commit-header { display: flex; justify-content: space-between; font-size: 0.8rem; color: var(--text-muted); margin-bottom: 4px; }
.index-item-number { font-weight: 700; color: var(--accent); }
.index-commit { background: #ecfeff; }
.index-commit-hash { font-family: monospace; font-weight: 700; color: var(--accent); }
.index-item-stats { padding: 8px 14px; border-top: 1px solid var(--border); font-size: 0.8rem; color: var(--text-muted); }
.index-item-long-text { margin-top: 8px; border-left: 2px solid var(--border); padding-left: 10px; }
.truncatable { position: relative; }
.truncatable.truncated .truncatable-content { max-height: 200px; overflow: hidden; }
.truncatable.truncated::after { content: ''; position: absolute; bottom: 32px; left: 0; right: 0; height: 60px; background: linear-gradient(to bottom, transparent, white); pointer-events: none; }
.expand-btn { display: none; border: 1px solid var(--border); border-radius: 6px; background: var(--bg); padding: 2px 10px; font-size: 0.8rem; cursor: pointer; }
.truncatable.truncated .expand-btn, .truncatable.expanded .expand-btn { display: block; }
#search-box { display: none; gap: 6px; }
#search-box input { padding: 6px 10px; border: 1px solid var(--border); border-radius: 6px; }
#search-modal::backdrop { background: rgba(0,0,0,0.5); }
#search-modal[open] { border: none; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.2); padding: 0; width: 90vw; max-width: 900px; height: 80vh; display: flex; flex-direction: column; }
.search-modal-header { display: flex; gap: 6px; padding: 12px; border-bottom: 1px solid var(--border); }
.search-modal-header input { flex: 1; padding: 6px 10px; border: 1px solid var(--border); border-radius: 6px; }
#search-status { padding: 6px 12px; color: var(--text-muted); font-size: 0.85rem; }
#search-results { overflow-y: auto; padding: 12px; }
.search-result mark { background: #a5f3fc; padding: 1px 2px; border-radius: 2px; }
.header-row { display: flex; justify-content: space-between; align-items: center; }
@media (max-width: 640px) { #search-modal[open] { width: 95vw; height: 90vh; } }`

const js = `document.querySelectorAll('time[data-timestamp]').forEach(function(el) {
    const timestamp = el.getAttribute('data-timestamp');
    const date = new Date(timestamp);
    if (isNaN(date)) return;
    const now = new Date();
    const isToday = date.toDateString() === now.toDateString();
    const timeStr = date.toLocaleTimeString(undefined, { hour: '2-digit', minute: '2-digit' });
    if (isToday) { el.textContent = timeStr; }
    else { el.textContent = date.toLocaleDateString(undefined, { month: 'short', day: 'numeric' }) + ' ' + timeStr; }
});
document.querySelectorAll('.truncatable').forEach(function(wrapper) {
    const content = wrapper.querySelector('.truncatable-content');
    const btn = wrapper.querySelector('.expand-btn');
    if (!content || !btn) return;
    if (content.scrollHeight > 250) {
        wrapper.classList.add('truncated');
        btn.addEventListener('click', function() {
            if (wrapper.classList.contains('truncated')) { wrapper.classList.remove('truncated'); wrapper.classList.add('expanded'); btn.textContent = 'Show less'; }
            else { wrapper.classList.remove('expanded'); wrapper.classList.add('truncated'); btn.textContent = 'Show more'; }
        });
    }
});`

// GistPreviewJS rewrites relative page links when the archive is
// served through gisthost.github.io / gistpreview.github.io, where
// every page lives behind a ?GIST_ID/filename query.
const GistPreviewJS = `(function() {
    var hostname = window.location.hostname;
    if (hostname !== 'gisthost.github.io' && hostname !== 'gistpreview.github.io') return;
    var match = window.location.search.match(/^\?([^/]+)/);
    if (!match) return;
    var gistId = match[1];

    function rewriteLinks(root) {
        (root || document).querySelectorAll('a[href]').forEach(function(link) {
            var href = link.getAttribute('href');
            if (href.startsWith('?')) return;
            if (href.startsWith('http') || href.startsWith('#') || href.startsWith('//')) return;
            var parts = href.split('#');
            var anchor = parts.length > 1 ? '#' + parts[1] : '';
            link.setAttribute('href', '?' + gistId + '/' + parts[0] + anchor);
        });
    }

    rewriteLinks();
    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', function() { rewriteLinks(); });
    }

    var observer = new MutationObserver(function(mutations) {
        mutations.forEach(function(mutation) {
            mutation.addedNodes.forEach(function(node) {
                if (node.nodeType === 1) { rewriteLinks(node); }
            });
        });
    });
    function startObserving() {
        if (document.body) { observer.observe(document.body, { childList: true, subtree: true }); }
        else { setTimeout(startObserving, 10); }
    }
    startObserving();

    function scrollToFragment() {
        var hash = window.location.hash;
        if (!hash) return false;
        var target = document.getElementById(hash.substring(1));
        if (target) { target.scrollIntoView({ behavior: 'smooth', block: 'start' }); return true; }
        return false;
    }
    if (!scrollToFragment()) {
        [100, 300, 500, 1000, 2000].forEach(function(delay) { setTimeout(scrollToFragment, delay); });
    }
})();`

// searchJS implements the cross-page client-side search: pages are
// fetched in small batches and their .message elements matched against
// the query. Depends on the page-NNN.html naming contract.
func searchJS(totalPages int) string {
	return fmt.Sprintf(`(function() {
    var totalPages = %d;
    var searchBox = document.getElementById('search-box');
    var searchInput = document.getElementById('search-input');
    var searchBtn = document.getElementById('search-btn');
    var modal = document.getElementById('search-modal');
    var modalInput = document.getElementById('modal-search-input');
    var modalSearchBtn = document.getElementById('modal-search-btn');
    var modalCloseBtn = document.getElementById('modal-close-btn');
    var searchStatus = document.getElementById('search-status');
    var searchResults = document.getElementById('search-results');

    if (!searchBox || !modal) return;
    if (window.location.protocol === 'file:') return;
    searchBox.style.display = 'flex';

    function escapeHtml(text) {
        var div = document.createElement('div');
        div.textContent = text;
        return div.innerHTML;
    }

    function openModal(query) {
        modalInput.value = query || '';
        searchResults.innerHTML = '';
        searchStatus.textContent = '';
        modal.showModal();
        modalInput.focus();
        if (query) { performSearch(query); }
    }

    function closeModal() { modal.close(); }

    function processPage(pageFile, html, query) {
        var parser = new DOMParser();
        var doc = parser.parseFromString(html, 'text/html');
        var found = 0;
        doc.querySelectorAll('.message').forEach(function(msg) {
            var text = msg.textContent || '';
            if (text.toLowerCase().indexOf(query.toLowerCase()) === -1) return;
            found++;
            var msgId = msg.id || '';
            var link = pageFile + (msgId ? '#' + msgId : '');
            var resultDiv = document.createElement('div');
            resultDiv.className = 'search-result';
            resultDiv.innerHTML = '<a href="' + link + '">' +
                '<div class="search-result-page">' + escapeHtml(pageFile) + '</div>' +
                '<div class="search-result-content">' + msg.innerHTML + '</div>' +
                '</a>';
            searchResults.appendChild(resultDiv);
        });
        return found;
    }

    async function performSearch(query) {
        if (!query.trim()) { searchStatus.textContent = 'Enter a search term'; return; }
        searchResults.innerHTML = '';
        searchStatus.textContent = 'Searching...';

        var resultsFound = 0;
        var pagesSearched = 0;
        var pagesToFetch = [];
        for (var i = 1; i <= totalPages; i++) {
            pagesToFetch.push('page-' + String(i).padStart(3, '0') + '.html');
        }

        var batchSize = 3;
        for (var i = 0; i < pagesToFetch.length; i += batchSize) {
            var batch = pagesToFetch.slice(i, i + batchSize);
            await Promise.all(batch.map(function(pageFile) {
                return fetch(pageFile)
                    .then(function(r) { if (!r.ok) throw new Error('fetch'); return r.text(); })
                    .then(function(html) { resultsFound += processPage(pageFile, html, query); })
                    .catch(function() {})
                    .finally(function() {
                        pagesSearched++;
                        searchStatus.textContent = 'Found ' + resultsFound + ' result(s) in ' + pagesSearched + '/' + totalPages + ' pages...';
                    });
            }));
        }
        searchStatus.textContent = 'Found ' + resultsFound + ' result(s) in ' + totalPages + ' pages';
    }

    searchBtn.addEventListener('click', function() { openModal(searchInput.value); });
    searchInput.addEventListener('keydown', function(e) { if (e.key === 'Enter') { openModal(searchInput.value); } });
    modalSearchBtn.addEventListener('click', function() { performSearch(modalInput.value); });
    modalInput.addEventListener('keydown', function(e) { if (e.key === 'Enter') { performSearch(modalInput.value); } });
    modalCloseBtn.addEventListener('click', closeModal);
    modal.addEventListener('click', function(e) { if (e.target === modal) { closeModal(); } });
})();`, totalPages)
}

func basePage(title, contentHTML, extraScript string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + Escape(title) + `</title>
    <style>` + css + `</style>
</head>
<body>
    <div class="container">
` + contentHTML + `
    </div>
    <script>` + js + `</script>` + extraScript + `
</body>
</html>`
}

// Pagination builds the nav bar for a transcript page.
func Pagination(currentPage, totalPages int) string {
	if totalPages <= 1 {
		return `<div class="pagination"><a href="index.html" class="index-link">Index</a></div>`
	}

	var parts []string
	parts = append(parts, `<div class="pagination">`)
	parts = append(parts, `<a href="index.html" class="index-link">Index</a>`)

	if currentPage > 1 {
		parts = append(parts, `<a href="`+PageFileName(currentPage-1)+`">&larr; Prev</a>`)
	} else {
		parts = append(parts, `<span class="disabled">&larr; Prev</span>`)
	}

	for page := 1; page <= totalPages; page++ {
		if page == currentPage {
			parts = append(parts, fmt.Sprintf(`<span class="current">%d</span>`, page))
		} else {
			parts = append(parts, fmt.Sprintf(`<a href="%s">%d</a>`, PageFileName(page), page))
		}
	}

	if currentPage < totalPages {
		parts = append(parts, `<a href="`+PageFileName(currentPage+1)+`">Next &rarr;</a>`)
	} else {
		parts = append(parts, `<span class="disabled">Next &rarr;</span>`)
	}

	parts = append(parts, `</div>`)
	return strings.Join(parts, "\n")
}

// IndexPagination builds the nav bar for the index page.
func IndexPagination(totalPages int) string {
	if totalPages < 1 {
		return `<div class="pagination"><span class="current">Index</span></div>`
	}

	var parts []string
	parts = append(parts, `<div class="pagination">`)
	parts = append(parts, `<span class="current">Index</span>`)
	parts = append(parts, `<span class="disabled">&larr; Prev</span>`)

	for page := 1; page <= totalPages; page++ {
		parts = append(parts, fmt.Sprintf(`<a href="%s">%d</a>`, PageFileName(page), page))
	}

	parts = append(parts, `<a href="page-001.html">Next &rarr;</a>`)
	parts = append(parts, `</div>`)
	return strings.Join(parts, "\n")
}

// PageTemplate assembles one page-NNN.html document.
func PageTemplate(pageNum, totalPages int, paginationHTML, messagesHTML string) string {
	content := fmt.Sprintf(`        <h1><a href="index.html" style="color: inherit; text-decoration: none;">Claude Code transcript</a> - page %d/%d</h1>
        %s
        %s
        %s`, pageNum, totalPages, paginationHTML, messagesHTML, paginationHTML)
	return basePage(fmt.Sprintf("Claude Code transcript - page %d", pageNum), content, "")
}

const searchIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><circle cx="11" cy="11" r="8"></circle><path d="m21 21-4.35-4.35"></path></svg>`
const closeIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M18 6 6 18"></path><path d="m6 6 12 12"></path></svg>`

// IndexTemplate assembles the index.html document with the session
// summary line and the merged timeline.
func IndexTemplate(paginationHTML string, promptCount, totalMessages, totalToolCalls, totalCommits, totalPages int, indexItemsHTML string) string {
	content := fmt.Sprintf(`        <div class="header-row">
            <h1>Claude Code transcript</h1>
            <div id="search-box">
                <input type="text" id="search-input" placeholder="Search..." aria-label="Search transcripts">
                <button id="search-btn" type="button" aria-label="Search">
                    %s
                </button>
            </div>
        </div>
        %s
        <p style="color: var(--text-muted); margin-bottom: 24px;">%d prompts &#183; %d messages &#183; %d tool calls &#183; %d commits &#183; %d pages</p>
        %s
        %s

        <dialog id="search-modal">
            <div class="search-modal-header">
                <input type="text" id="modal-search-input" placeholder="Search..." aria-label="Search transcripts">
                <button id="modal-search-btn" type="button" aria-label="Search">
                    %s
                </button>
                <button id="modal-close-btn" type="button" aria-label="Close">
                    %s
                </button>
            </div>
            <div id="search-status"></div>
            <div id="search-results"></div>
        </dialog>`,
		searchIconSVG, paginationHTML, promptCount, totalMessages, totalToolCalls,
		totalCommits, totalPages, indexItemsHTML, paginationHTML,
		searchIconSVG, closeIconSVG)

	extraScript := "\n    <script>\n" + searchJS(totalPages) + "\n        </script>"
	return basePage("Claude Code transcript - Index", content, extraScript)
}

// IndexItem renders one prompt entry of the timeline.
func IndexItem(promptNum int, link, timestamp, renderedContent, statsHTML string) string {
	return fmt.Sprintf(`<div class="index-item"><a href="%s"><div class="index-item-header"><span class="index-item-number">#%d</span><time datetime="%s" data-timestamp="%s">%s</time></div><div class="index-item-content">%s</div></a>%s</div>`,
		link, promptNum, Escape(timestamp), Escape(timestamp), Escape(timestamp), renderedContent, statsHTML)
}

// IndexCommit renders one commit entry of the timeline.
func IndexCommit(hash, msg, timestamp, githubRepo string) string {
	short := hash
	if len(short) > 7 {
		short = short[:7]
	}
	header := fmt.Sprintf(`<div class="index-commit-header"><span class="index-commit-hash">%s</span><time datetime="%s" data-timestamp="%s">%s</time></div><div class="index-commit-msg">%s</div>`,
		Escape(short), Escape(timestamp), Escape(timestamp), Escape(timestamp), Escape(msg))
	if githubRepo != "" {
		return fmt.Sprintf(`<div class="index-commit"><a href="https://github.com/%s/commit/%s">%s</a></div>`, githubRepo, hash, header)
	}
	return `<div class="index-commit">` + header + `</div>`
}

// IndexStats renders the tool-stats/long-texts footer of a timeline
// prompt, or "" when there is nothing to show.
func IndexStats(toolStatsStr, longTextsHTML string) string {
	if toolStatsStr == "" && longTextsHTML == "" {
		return ""
	}
	statsSpan := ""
	if toolStatsStr != "" {
		statsSpan = "<span>" + Escape(toolStatsStr) + "</span>"
	}
	return `<div class="index-item-stats">` + statsSpan + longTextsHTML + `</div>`
}

// IndexLongText renders one long text passage under a timeline prompt.
func IndexLongText(renderedContent string) string {
	return `<div class="index-item-long-text">` + truncatable(`<div class="index-item-long-text-content">`+renderedContent+`</div>`) + `</div>`
}

// ProjectIndexSession is one row of a project index page.
type ProjectIndexSession struct {
	Name    string
	Summary string
	Date    string
	Size    string
}

// ProjectIndexTemplate assembles a per-project session listing.
func ProjectIndexTemplate(projectName string, sessions []ProjectIndexSession) string {
	var items []string
	for _, s := range sessions {
		summary := s.Summary
		if len([]rune(summary)) > 100 {
			summary = string([]rune(summary)[:100]) + "..."
		}
		items = append(items, fmt.Sprintf(`        <div class="index-item">
            <a href="%s/index.html">
                <div class="index-item-header">
                    <span class="index-item-number">%s</span>
                    <span style="color: var(--text-muted);">%s</span>
                </div>
                <div class="index-item-content">
                    <p style="margin: 0;">%s</p>
                </div>
            </a>
        </div>`, Escape(s.Name), Escape(s.Date), s.Size, Escape(summary)))
	}

	plural := "s"
	if len(sessions) == 1 {
		plural = ""
	}
	content := fmt.Sprintf(`        <h1><a href="../index.html" style="color: inherit; text-decoration: none;">Claude Code Archive</a> / %s</h1>
        <p style="color: var(--text-muted); margin-bottom: 24px;">%d session%s</p>

%s

        <div style="margin-top: 24px;">
            <a href="../index.html" class="pagination" style="display: inline-block; padding: 8px 16px; background: var(--user-border); color: white; text-decoration: none; border-radius: 6px;">Back to Archive</a>
        </div>`, Escape(projectName), len(sessions), plural, strings.Join(items, "\n"))

	return basePage(projectName+" - Claude Code Archive", content, "")
}

// MasterIndexProject is one row of the master index page.
type MasterIndexProject struct {
	Name         string
	SessionCount int
	RecentDate   string
}

// MasterIndexTemplate assembles the cross-project archive index.
func MasterIndexTemplate(projects []MasterIndexProject, totalSessions int) string {
	var items []string
	for _, p := range projects {
		plural := "s"
		if p.SessionCount == 1 {
			plural = ""
		}
		items = append(items, fmt.Sprintf(`        <div class="index-item">
            <a href="%s/index.html">
                <div class="index-item-header">
                    <span class="index-item-number">%s</span>
                    <time>%s</time>
                </div>
                <div class="index-item-content">
                    <p style="margin: 0;">%d session%s</p>
                </div>
            </a>
        </div>`, Escape(p.Name), Escape(p.Name), Escape(p.RecentDate), p.SessionCount, plural))
	}

	content := fmt.Sprintf(`        <h1>Claude Code Archive</h1>
        <p style="color: var(--text-muted); margin-bottom: 24px;">%d projects &#183; %d sessions</p>

%s`, len(projects), totalSessions, strings.Join(items, "\n"))

	return basePage("Claude Code Archive", content, "")
}
