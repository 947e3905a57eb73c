package model

import (
	"github.com/bytedance/sonic"
)

// Log entry types as they appear in session files.
const (
	EntryUser      = "user"
	EntryAssistant = "assistant"
	EntrySummary   = "summary"
)

// Content block types.
const (
	BlockText       = "text"
	BlockThinking   = "thinking"
	BlockImage      = "image"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Todo item statuses used by the TodoWrite tool.
const (
	TodoCompleted  = "completed"
	TodoInProgress = "in_progress"
	TodoPending    = "pending"
)

// SessionData is a fully parsed session: the normalized log entry
// sequence regardless of whether the source was JSON or JSONL.
type SessionData struct {
	LogEntries []LogEntry `json:"logEntries"`
}

// LogEntry is one normalized record from a session file. Immutable once
// parsed.
type LogEntry struct {
	Type             string   `json:"type"`
	Timestamp        string   `json:"timestamp,omitempty"`
	Message          *Message `json:"message,omitempty"`
	IsCompactSummary bool     `json:"isCompactSummary,omitempty"`
	IsMeta           bool     `json:"isMeta,omitempty"`
	Summary          string   `json:"summary,omitempty"`
}

// Message is the role + content pair stored on a log entry.
type Message struct {
	Role    string         `json:"role,omitempty"`
	Content MessageContent `json:"content"`
}

// MessageContent is either a plain string or an ordered list of content
// blocks. Session files use both shapes, so unmarshalling records which
// one was present; rendering and extraction treat them differently
// (e.g. a lone tool_result block list classifies as a tool reply, a
// plain string never does).
type MessageContent struct {
	Text     string
	Blocks   []ContentItem
	IsString bool

	raw []byte
}

func (mc *MessageContent) UnmarshalJSON(data []byte) error {
	mc.raw = append([]byte(nil), data...)

	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		mc.Text = s
		mc.IsString = true
		return nil
	}

	var blocks []ContentItem
	if err := sonic.Unmarshal(data, &blocks); err == nil {
		mc.Blocks = blocks
		return nil
	}

	// Unknown shape: keep the raw bytes for fallback rendering rather
	// than failing the whole entry.
	return nil
}

func (mc MessageContent) MarshalJSON() ([]byte, error) {
	if mc.IsString {
		return sonic.Marshal(mc.Text)
	}
	if mc.Blocks != nil {
		return sonic.Marshal(mc.Blocks)
	}
	if len(mc.raw) > 0 {
		return append([]byte(nil), mc.raw...), nil
	}
	return []byte("null"), nil
}

// Raw returns the original content bytes, for fallback rendering of
// shapes that are neither a string nor a block list.
func (mc MessageContent) Raw() []byte { return mc.raw }

// IsBlocks reports whether the content parsed as a block list.
func (mc MessageContent) IsBlocks() bool { return mc.Blocks != nil }

// ContentItem is one content block. The Type tag determines which
// fields are meaningful; anything unrecognized keeps its raw bytes and
// renders through the JSON fallback.
type ContentItem struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Thinking  string         `json:"thinking,omitempty"`
	Source    *ImageSource   `json:"source,omitempty"`
	Id        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     ToolInput      `json:"input,omitempty"`
	ToolUseId string         `json:"tool_use_id,omitempty"`
	Content   *ResultContent `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`

	raw []byte
}

func (ci *ContentItem) UnmarshalJSON(data []byte) error {
	type alias ContentItem
	var a alias
	if err := sonic.Unmarshal(data, &a); err == nil {
		*ci = ContentItem(a)
	}
	// Non-object blocks (bare strings, numbers) end up with an empty
	// Type and fall through to raw rendering.
	ci.raw = append([]byte(nil), data...)
	return nil
}

func (ci ContentItem) MarshalJSON() ([]byte, error) {
	type alias ContentItem
	return sonic.Marshal(alias(ci))
}

// Raw returns the original block bytes.
func (ci ContentItem) Raw() []byte { return ci.raw }

// ImageSource is the payload of an image block.
type ImageSource struct {
	Type      string `json:"type,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
}

// ToolInput is the opaque input mapping of a tool_use block. Kept as a
// map so the generic tool renderer can echo arbitrary keys back as
// JSON; typed accessors cover the fields the bespoke layouts need.
type ToolInput map[string]any

// Str returns the string value for key, or "" when absent or not a
// string.
func (ti ToolInput) Str(key string) string {
	s, _ := ti[key].(string)
	return s
}

// Bool returns the boolean value for key, defaulting to false.
func (ti ToolInput) Bool(key string) bool {
	b, _ := ti[key].(bool)
	return b
}

// Todos decodes the "todos" entry of a TodoWrite input. Malformed
// items are skipped.
func (ti ToolInput) Todos() []TodoItem {
	list, _ := ti["todos"].([]any)
	todos := make([]TodoItem, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content, _ := m["content"].(string)
		status, _ := m["status"].(string)
		todos = append(todos, TodoItem{Content: content, Status: status})
	}
	return todos
}

// Without returns a copy of the input with the given key removed.
func (ti ToolInput) Without(key string) map[string]any {
	out := make(map[string]any, len(ti))
	for k, v := range ti {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// TodoItem is one entry of a TodoWrite task list.
type TodoItem struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

// ResultContent is a tool_result payload: a string, a nested block
// list, or some other shape kept raw.
type ResultContent struct {
	Text     string
	Blocks   []ContentItem
	IsString bool

	raw []byte
}

func (rc *ResultContent) UnmarshalJSON(data []byte) error {
	rc.raw = append([]byte(nil), data...)

	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		rc.Text = s
		rc.IsString = true
		return nil
	}

	var blocks []ContentItem
	if err := sonic.Unmarshal(data, &blocks); err == nil {
		rc.Blocks = blocks
		return nil
	}

	return nil
}

func (rc ResultContent) MarshalJSON() ([]byte, error) {
	if rc.IsString {
		return sonic.Marshal(rc.Text)
	}
	if rc.Blocks != nil {
		return sonic.Marshal(rc.Blocks)
	}
	if len(rc.raw) > 0 {
		return append([]byte(nil), rc.raw...), nil
	}
	return []byte("null"), nil
}

// Raw returns the original payload bytes.
func (rc ResultContent) Raw() []byte { return rc.raw }

// IsBlocks reports whether the payload parsed as a block list.
func (rc ResultContent) IsBlocks() bool { return rc.Blocks != nil }

// MessageTuple is one message of a conversation: the entry kind, the
// parsed message and the entry timestamp.
type MessageTuple struct {
	Kind      string
	Message   *Message
	Timestamp string
}

// Conversation is a contiguous run of log entries anchored by one user
// prompt. Built once by the segmenter, read-only afterwards.
type Conversation struct {
	PromptText     string
	Timestamp      string
	Messages       []MessageTuple
	IsContinuation bool
}

// Commit is a git commit reference extracted from tool output.
type Commit struct {
	Hash      string
	Message   string
	Timestamp string
}

// ConversationStats is the derived aggregate of one conversation (or a
// merged continuation run). ToolCounts carries no ordering guarantee;
// LongTexts and Commits preserve encounter order.
type ConversationStats struct {
	ToolCounts map[string]int
	LongTexts  []string
	Commits    []Commit
}
