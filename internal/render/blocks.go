package render

import (
	"strings"

	"claude-transcripts/internal/core/conversation"
	"claude-transcripts/internal/core/github"
	"claude-transcripts/internal/core/model"
)

// Context carries the per-session rendering context. It is resolved
// once before any rendering begins and threaded through every call;
// there is no ambient state.
type Context struct {
	// GithubRepo is the owner/name slug used for commit links, or ""
	// when unknown (commit cards then render without links).
	GithubRepo string
}

// MsgID derives the page anchor id for a message from its timestamp.
// Colons and dots are substituted so the id is a legal fragment
// identifier; the scheme is a stable contract with cross-page links
// and the search feature.
func MsgID(timestamp string) string {
	return "msg-" + strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
}

// --- fragment builders ---

func imageBlock(mediaType, data string) string {
	if mediaType == "" {
		mediaType = "image/png"
	}
	return `<div class="image-block"><img src="data:` + mediaType + `;base64,` + data + `" style="max-width: 100%"></div>`
}

func thinkingBlock(contentHTML string) string {
	return `<div class="thinking"><div class="thinking-label">Thinking</div>` + contentHTML + `</div>`
}

func assistantText(contentHTML string) string {
	return `<div class="assistant-text">` + contentHTML + `</div>`
}

func userContent(contentHTML string) string {
	return `<div class="user-content">` + contentHTML + `</div>`
}

func truncatable(contentHTML string) string {
	return `<div class="truncatable"><div class="truncatable-content">` + contentHTML + `</div><button class="expand-btn">Show more</button></div>`
}

func todoList(todos []model.TodoItem, toolID string) string {
	var items strings.Builder
	for _, todo := range todos {
		var icon, statusClass string
		switch todo.Status {
		case model.TodoCompleted:
			icon, statusClass = "✓", "todo-completed"
		case model.TodoInProgress:
			icon, statusClass = "→", "todo-in-progress"
		default:
			icon, statusClass = "○", "todo-pending"
		}
		items.WriteString(`<li class="todo-item ` + statusClass + `"><span class="todo-icon">` + icon + `</span><span class="todo-content">` + Escape(todo.Content) + `</span></li>`)
	}
	return `<div class="todo-list" data-tool-id="` + Escape(toolID) + `"><div class="todo-header"><span class="todo-header-icon">☰</span> Task List</div><ul class="todo-items">` + items.String() + `</ul></div>`
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func writeTool(filePath, content, toolID string) string {
	return `<div class="file-tool write-tool" data-tool-id="` + Escape(toolID) + `">
<div class="file-tool-header write-header"><span class="file-tool-icon">📝</span> Write <span class="file-tool-path">` + Escape(baseName(filePath)) + `</span></div>
<div class="file-tool-fullpath">` + Escape(filePath) + `</div>
` + truncatable(`<pre class="file-content">`+Escape(content)+`</pre>`) + `
</div>`
}

func editTool(filePath, oldString, newString string, replaceAll bool, toolID string) string {
	replaceAllHTML := ""
	if replaceAll {
		replaceAllHTML = ` <span class="edit-replace-all">(replace all)</span>`
	}
	body := `
<div class="edit-section edit-old"><div class="edit-label">−</div><pre class="edit-content">` + Escape(oldString) + `</pre></div>
<div class="edit-section edit-new"><div class="edit-label">+</div><pre class="edit-content">` + Escape(newString) + `</pre></div>
`
	return `<div class="file-tool edit-tool" data-tool-id="` + Escape(toolID) + `">
<div class="file-tool-header edit-header"><span class="file-tool-icon">✏️</span> Edit <span class="file-tool-path">` + Escape(baseName(filePath)) + `</span>` + replaceAllHTML + `</div>
<div class="file-tool-fullpath">` + Escape(filePath) + `</div>
` + truncatable(body) + `
</div>`
}

func bashTool(command, description, toolID string) string {
	descHTML := ""
	if description != "" {
		descHTML = "\n" + `<div class="tool-description">` + Escape(description) + `</div>`
	}
	return `<div class="tool-use bash-tool" data-tool-id="` + Escape(toolID) + `">
<div class="tool-header"><span class="tool-icon">$</span> Bash</div>` + descHTML + `
` + truncatable(`<pre class="bash-command">`+Escape(command)+`</pre>`) + `
</div>`
}

func toolUse(toolName, description, inputJSON, toolID string) string {
	descHTML := ""
	if description != "" {
		descHTML = `<div class="tool-description">` + Escape(description) + `</div>`
	}
	return `<div class="tool-use" data-tool-id="` + Escape(toolID) + `"><div class="tool-header"><span class="tool-icon">⚙</span> ` + Escape(toolName) + `</div>` + descHTML + truncatable(`<pre class="json">`+Escape(inputJSON)+`</pre>`) + `</div>`
}

func toolResult(contentHTML string, isError, hasImages bool) string {
	errorClass := ""
	if isError {
		errorClass = " tool-error"
	}
	// Image results stay fully visible; everything else can collapse.
	if hasImages {
		return `<div class="tool-result` + errorClass + `">` + contentHTML + `</div>`
	}
	return `<div class="tool-result` + errorClass + `">` + truncatable(contentHTML) + `</div>`
}

// CommitCard renders one commit reference, linked when the repo slug
// is known.
func CommitCard(hash, msg, githubRepo string) string {
	short := hash
	if len(short) > 7 {
		short = short[:7]
	}
	inner := `<span class="commit-card-hash">` + Escape(short) + `</span> ` + Escape(msg)
	if githubRepo != "" {
		return `<div class="commit-card"><a href="` + github.CommitURL(githubRepo, hash) + `">` + inner + `</a></div>`
	}
	return `<div class="commit-card">` + inner + `</div>`
}

func messageDiv(roleClass, roleLabel, msgID, timestamp, contentHTML string) string {
	return `<div class="message ` + roleClass + `" id="` + msgID + `"><div class="message-header"><span class="role-label">` + Escape(roleLabel) + `</span><a href="#` + msgID + `" class="timestamp-link"><time datetime="` + Escape(timestamp) + `" data-timestamp="` + Escape(timestamp) + `">` + Escape(timestamp) + `</time></a></div><div class="message-content">` + contentHTML + `</div></div>`
}

// Continuation wraps a continuation conversation's first rendered
// message in a collapsible disclosure.
func Continuation(contentHTML string) string {
	return `<details class="continuation"><summary>Session continuation summary</summary>` + contentHTML + `</details>`
}

// --- block dispatch ---

// ContentBlock maps one content block to an HTML fragment. Unknown
// block types render as pretty JSON; the function never fails.
func ContentBlock(block model.ContentItem, ctx Context) string {
	switch block.Type {
	case model.BlockImage:
		mediaType, data := "", ""
		if block.Source != nil {
			mediaType, data = block.Source.MediaType, block.Source.Data
		}
		return imageBlock(mediaType, data)

	case model.BlockThinking:
		return thinkingBlock(Markdown(block.Thinking))

	case model.BlockText:
		return assistantText(Markdown(block.Text))

	case model.BlockToolUse:
		return renderToolUse(block)

	case model.BlockToolResult:
		return renderToolResult(block, ctx)
	}

	return rawFallback(block)
}

func renderToolUse(block model.ContentItem) string {
	toolName := block.Name
	if toolName == "" {
		toolName = "Unknown tool"
	}
	input := block.Input
	if input == nil {
		input = model.ToolInput{}
	}

	switch block.Name {
	case "TodoWrite":
		todos := input.Todos()
		if len(todos) == 0 {
			return ""
		}
		return todoList(todos, block.Id)
	case "Write":
		filePath := input.Str("file_path")
		if filePath == "" {
			filePath = "Unknown file"
		}
		return writeTool(filePath, input.Str("content"), block.Id)
	case "Edit":
		filePath := input.Str("file_path")
		if filePath == "" {
			filePath = "Unknown file"
		}
		return editTool(filePath, input.Str("old_string"), input.Str("new_string"), input.Bool("replace_all"), block.Id)
	case "Bash":
		return bashTool(input.Str("command"), input.Str("description"), block.Id)
	}

	inputJSON, err := jsonAPI.MarshalIndent(input.Without("description"), "", "  ")
	if err != nil {
		inputJSON = []byte("{}")
	}
	return toolUse(toolName, input.Str("description"), string(inputJSON), block.Id)
}

func renderToolResult(block model.ContentItem, ctx Context) string {
	if block.Content == nil {
		return toolResult(FormatJSON(nil), block.IsError, false)
	}
	content := block.Content

	if content.IsString {
		return toolResult(resultString(content.Text, ctx), block.IsError, false)
	}

	if content.IsBlocks() {
		var parts []string
		hasImages := false
		for _, item := range content.Blocks {
			switch item.Type {
			case model.BlockText:
				if item.Text != "" {
					parts = append(parts, "<pre>"+Escape(item.Text)+"</pre>")
				}
			case model.BlockImage:
				if item.Source != nil && item.Source.Data != "" {
					parts = append(parts, imageBlock(item.Source.MediaType, item.Source.Data))
					hasImages = true
				}
			default:
				parts = append(parts, resultItemFallback(item))
			}
		}
		contentHTML := strings.Join(parts, "")
		if contentHTML == "" {
			contentHTML = FormatJSONRaw(content.Raw())
		}
		return toolResult(contentHTML, block.IsError, hasImages)
	}

	return toolResult(FormatJSONRaw(content.Raw()), block.IsError, false)
}

// resultString renders a string tool result, splicing commit markers
// into commit cards between preformatted text spans.
func resultString(content string, ctx Context) string {
	matches := github.FindCommits(content)
	if len(matches) == 0 {
		return "<pre>" + Escape(content) + "</pre>"
	}

	var parts []string
	lastEnd := 0
	for _, m := range matches {
		if before := strings.TrimSpace(content[lastEnd:m.Start]); before != "" {
			parts = append(parts, "<pre>"+Escape(before)+"</pre>")
		}
		parts = append(parts, CommitCard(m.Hash, m.Message, ctx.GithubRepo))
		lastEnd = m.End
	}
	if after := strings.TrimSpace(content[lastEnd:]); after != "" {
		parts = append(parts, "<pre>"+Escape(after)+"</pre>")
	}
	return strings.Join(parts, "")
}

// rawFallback renders an unrecognized top-level block from its raw
// bytes: bare scalars become an escaped paragraph, objects and arrays
// pretty JSON.
func rawFallback(block model.ContentItem) string {
	raw := block.Raw()
	if len(raw) == 0 {
		return FormatJSON(map[string]any{})
	}
	if text, ok := scalarText(raw); ok {
		return "<p>" + Escape(text) + "</p>"
	}
	return FormatJSONRaw(raw)
}

// resultItemFallback renders an unrecognized tool_result list item:
// bare scalars render preformatted, objects and arrays as pretty JSON.
func resultItemFallback(item model.ContentItem) string {
	raw := item.Raw()
	if len(raw) == 0 {
		return FormatJSON(map[string]any{})
	}
	if text, ok := scalarText(raw); ok {
		return "<pre>" + Escape(text) + "</pre>"
	}
	return FormatJSONRaw(raw)
}

// scalarText extracts the display text of a raw JSON value that is not
// an object or array: the decoded string, or the literal token.
func scalarText(raw []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] == '{' || trimmed[0] == '[' {
		return "", false
	}
	if trimmed[0] == '"' {
		var s string
		if err := jsonAPI.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return trimmed, true
}

// --- message rendering ---

func renderUserMessageContent(msg *model.Message, ctx Context) string {
	content := msg.Content
	if content.IsString {
		if JSONLike(content.Text) {
			return userContent(FormatJSON(content.Text))
		}
		return userContent(Markdown(content.Text))
	}
	if content.IsBlocks() {
		var sb strings.Builder
		for _, block := range content.Blocks {
			sb.WriteString(ContentBlock(block, ctx))
		}
		return sb.String()
	}
	return "<p>" + Escape(string(content.Raw())) + "</p>"
}

func renderAssistantMessage(msg *model.Message, ctx Context) string {
	content := msg.Content
	if !content.IsBlocks() {
		if content.IsString {
			return "<p>" + Escape(content.Text) + "</p>"
		}
		return "<p>" + Escape(string(content.Raw())) + "</p>"
	}
	var sb strings.Builder
	for _, block := range content.Blocks {
		sb.WriteString(ContentBlock(block, ctx))
	}
	return sb.String()
}

// Message renders a full message, or "" when the rendered content is
// blank (such messages are dropped from the page). A user message made
// solely of tool_result blocks is labeled as a tool reply.
func Message(kind string, msg *model.Message, timestamp string, ctx Context) string {
	if msg == nil {
		return ""
	}

	var contentHTML, roleClass, roleLabel string
	switch kind {
	case model.EntryUser:
		contentHTML = renderUserMessageContent(msg, ctx)
		if conversation.IsToolResultMessage(msg) {
			roleClass, roleLabel = "tool-reply", "Tool reply"
		} else {
			roleClass, roleLabel = "user", "User"
		}
	case model.EntryAssistant:
		contentHTML = renderAssistantMessage(msg, ctx)
		roleClass, roleLabel = "assistant", "Assistant"
	default:
		return ""
	}

	if strings.TrimSpace(contentHTML) == "" {
		return ""
	}

	return messageDiv(roleClass, roleLabel, MsgID(timestamp), timestamp, contentHTML)
}
