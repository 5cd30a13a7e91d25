package agent

import (
	"encoding/json"
	"strings"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

// CategoryField names the category in an LLM reply. It is not stored.
const CategoryField = "category"

// Proposal is a parsed LLM reply.
type Proposal struct {
	Category string
	// Record is the reply as returned, category included, for display.
	Record store.Entry
	// Entry is Record without the category field, ready to store.
	Entry store.Entry
}

// ParseProposal reads the LLM reply. A surrounding code fence is tolerated.
// The reply must be a JSON object with a non-empty string category.
func ParseProposal(content string) (*Proposal, error) {
	text := StripFence(content)
	record, err := store.ParseEntry([]byte(text))
	if err != nil {
		return nil, errors.NewAgentError("LLM did not return valid JSON", errors.Join(errors.ErrLLMResponse, err)).
			WithStage("parse")
	}

	raw, ok := record.Get(CategoryField)
	var category string
	if ok {
		_ = json.Unmarshal(raw, &category)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.NewAgentError("LLM response did not include a 'category'", errors.ErrLLMResponse).
			WithStage("parse")
	}

	entry := store.Entry{Fields: append([]store.Field(nil), record.Fields...)}
	entry.Delete(CategoryField)
	return &Proposal{Category: category, Record: record, Entry: entry}, nil
}

// StripFence removes a Markdown code fence around text, with or without a
// language tag.
func StripFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		first := strings.TrimSpace(t[:nl])
		if first == "" || !strings.ContainsAny(first, "{[") {
			t = t[nl+1:]
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
