package payload

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/shortcuts/internal/util"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content any
}

// ChatHistory collects messages and prints them as a role-tagged log.
type ChatHistory struct {
	formatter *Formatter
	messages  []Message
}

// NewChatHistory creates an empty history rendered with f.
func NewChatHistory(f *Formatter) *ChatHistory {
	return &ChatHistory{formatter: f}
}

func (h *ChatHistory) add(role string, content any) {
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

// AddUser records a user message.
func (h *ChatHistory) AddUser(text string) { h.add(RoleUser, text) }

// AddAssistant records a model reply.
func (h *ChatHistory) AddAssistant(text string) { h.add(RoleAssistant, text) }

// AddSystem records a system prompt.
func (h *ChatHistory) AddSystem(text string) { h.add(RoleSystem, text) }

// AddToolCall records a structured payload; it is always rendered as JSON.
func (h *ChatHistory) AddToolCall(payload any) { h.add(RoleTool, payload) }

// Messages returns the recorded messages.
func (h *ChatHistory) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Write prints every message to w. Escape sequences are removed when w is
// not a terminal or when forceStrip is set.
func (h *ChatHistory) Write(w io.Writer, forceStrip bool) error {
	strip := forceStrip || !IsTerminal(w)

	for _, msg := range h.messages {
		color, ok := roleColors[msg.Role]
		if !ok {
			color = white
		}
		header := h.formatter.paint(color, "["+strings.ToUpper(msg.Role)+"]")

		var body string
		if s, isText := msg.Content.(string); isText && msg.Role != RoleTool {
			body = h.formatter.Render(s)
		} else {
			body = h.formatter.RenderJSON(msg.Content)
		}

		out := "\n" + header + "\n" + body + "\n"
		if strip {
			out = util.StripANSI(out)
		}
		if _, err := fmt.Fprint(w, out); err != nil {
			return err
		}
	}
	return nil
}
