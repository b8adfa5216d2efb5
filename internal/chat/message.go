// Package chat reads the host's chat transcript and selects the recent
// messages a post is built from.
package chat

import (
	"strings"

	"github.com/samber/lo"
)

const (
	// MinRecent is the smallest window SelectRecent will use.
	MinRecent = 1
	// MaxRecent is the largest window SelectRecent will use.
	MaxRecent = 50
)

// Message is a read-only view of one chat turn.
type Message struct {
	Name   string `json:"name,omitempty"`
	IsUser bool   `json:"is_user"`
	Text   string `json:"message"`
}

// Eligible reports whether the message carries usable text.
func (m Message) Eligible() bool {
	return strings.TrimSpace(m.Text) != ""
}

// ClampLimit forces limit into [MinRecent, MaxRecent].
func ClampLimit(limit int) int {
	return lo.Clamp(limit, MinRecent, MaxRecent)
}

// SelectRecent returns up to limit eligible messages from the end of log,
// oldest first. limit is clamped rather than rejected.
func SelectRecent(log []Message, limit int) []Message {
	limit = ClampLimit(limit)
	picked := make([]Message, 0, min(limit, len(log)))
	for i := len(log) - 1; i >= 0 && len(picked) < limit; i-- {
		if log[i].Eligible() {
			picked = append(picked, log[i])
		}
	}
	return lo.Reverse(picked)
}

const (
	// DefaultCharacterName is used when no speaker name can be found.
	DefaultCharacterName = "ตัวละคร"
	// DefaultUserName is used when the user never named themselves.
	DefaultUserName = "User"
)

// CharacterName returns fallback when set, else the first named non-user
// speaker in log, else DefaultCharacterName.
func CharacterName(log []Message, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if m, ok := lo.Find(log, func(m Message) bool { return !m.IsUser && m.Name != "" }); ok {
		return m.Name
	}
	return DefaultCharacterName
}

// UserName returns fallback when set, else the first named user speaker,
// else DefaultUserName.
func UserName(log []Message, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if m, ok := lo.Find(log, func(m Message) bool { return m.IsUser && m.Name != "" }); ok {
		return m.Name
	}
	return DefaultUserName
}
