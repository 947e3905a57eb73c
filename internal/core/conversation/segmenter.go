// Package conversation partitions a normalized log entry sequence into
// prompt-anchored conversations and derives per-conversation statistics.
package conversation

import (
	"claude-transcripts/internal/core/model"
	"claude-transcripts/internal/data/parser"
)

// Segment walks the entries in order and groups them into
// conversations. A user entry with non-empty extracted text opens a new
// conversation; every other entry appends to the one in progress.
// Entries before the first qualifying prompt are dropped. A session
// with no qualifying prompt yields no conversations.
func Segment(data model.SessionData) []model.Conversation {
	var conversations []model.Conversation
	var current *model.Conversation

	for _, entry := range data.LogEntries {
		if entry.Message == nil {
			continue
		}

		userText := ""
		if entry.Type == model.EntryUser {
			userText = parser.ExtractText(entry.Message.Content)
		}

		tuple := model.MessageTuple{
			Kind:      entry.Type,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		}

		if userText != "" {
			if current != nil {
				conversations = append(conversations, *current)
			}
			current = &model.Conversation{
				PromptText:     userText,
				Timestamp:      entry.Timestamp,
				Messages:       []model.MessageTuple{tuple},
				IsContinuation: entry.IsCompactSummary,
			}
		} else if current != nil {
			current.Messages = append(current.Messages, tuple)
		}
	}

	if current != nil {
		conversations = append(conversations, *current)
	}

	return conversations
}
