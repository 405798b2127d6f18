package conversation

import (
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/sashabaranov/go-openai"
)

type Role string

const (
	RoleSystem    Role = openai.ChatMessageRoleSystem
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered turn list sent with every request. System turns
// are never stored here. A positive limit drops the oldest turns.
type History struct {
	limit int
	turns []Turn
}

func NewHistory(limit int, seed ...Turn) *History {
	h := &History{limit: limit}
	for _, turn := range seed {
		h.Add(turn)
	}
	return h
}

func (h *History) Add(turn Turn) {
	if turn.Role == RoleSystem {
		return
	}

	if h.limit > 0 && len(h.turns) >= h.limit {
		h.turns = append(h.turns[1:], turn)
	} else {
		h.turns = append(h.turns, turn)
	}
}

func (h *History) Turns() []Turn {
	return append([]Turn(nil), h.turns...)
}

func (h *History) Reset(seed ...Turn) {
	h.turns = nil
	for _, turn := range seed {
		h.Add(turn)
	}
}

func lastUserContent(turns []Turn) (string, bool) {
	users := pie.Filter(turns, func(t Turn) bool {
		return t.Role == RoleUser
	})
	if len(users) == 0 {
		return "", false
	}
	return pie.Last(users).Content, true
}

func nonBlank(turns []Turn) []Turn {
	return pie.Filter(turns, func(t Turn) bool {
		return strings.TrimSpace(t.Content) != ""
	})
}
