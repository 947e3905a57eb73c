// Package render maps content blocks and messages to HTML fragments.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML passes through, matching the upstream marked configuration;
// escaping of literal text happens before fragments are assembled.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// Deterministic key order keeps rendered JSON stable across runs.
var jsonAPI = sonic.Config{SortMapKeys: true}.Froze()

// Escape escapes HTML special characters.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Markdown renders markdown text to HTML. Empty input yields "".
func Markdown(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "<pre>" + Escape(text) + "</pre>"
	}
	return buf.String()
}

// FormatJSON pretty-prints a value inside a <pre class="json"> block.
// Strings are parsed as JSON first; anything unparseable falls back to
// an escaped plain <pre>.
func FormatJSON(v any) string {
	var value any = v
	if s, ok := v.(string); ok {
		var parsed any
		if err := sonic.Unmarshal([]byte(s), &parsed); err != nil {
			return "<pre>" + Escape(s) + "</pre>"
		}
		value = parsed
	}
	formatted, err := jsonAPI.MarshalIndent(value, "", "  ")
	if err != nil {
		return "<pre>" + Escape(fmt.Sprint(v)) + "</pre>"
	}
	return `<pre class="json">` + Escape(string(formatted)) + "</pre>"
}

// FormatJSONRaw pretty-prints raw JSON bytes; invalid bytes are shown
// escaped as-is.
func FormatJSONRaw(raw []byte) string {
	var parsed any
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return "<pre>" + Escape(string(raw)) + "</pre>"
	}
	return FormatJSON(parsed)
}

// JSONLike reports whether text looks like a JSON document.
func JSONLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}
