package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/samber/lo"
)

// Character budgets for context excerpts.
const (
	userBudget      = 60
	characterBudget = 80
	singleBudget    = 120
)

const ellipsis = "..."

// ExtractContext builds a one-line synopsis of the window. ok is false when
// no message carries usable text.
func ExtractContext(msgs []chat.Message, userName string) (string, bool) {
	userMsg, hasUser := lo.Find(msgs, func(m chat.Message) bool { return m.IsUser && m.Eligible() })
	charMsg, hasChar := lo.Find(msgs, func(m chat.Message) bool { return !m.IsUser && m.Eligible() })
	userName = lo.CoalesceOrEmpty(userName, chat.DefaultUserName)

	switch {
	case hasUser && hasChar:
		return fmt.Sprintf(`%s บอกว่า "%s" ซึ่งทำให้ฉันรู้สึกว่า "%s"`,
			userName, Clip(oneLine(userMsg.Text), userBudget), Clip(oneLine(charMsg.Text), characterBudget)), true
	case hasUser:
		return fmt.Sprintf(`%s บอกว่า "%s"`, userName, Clip(oneLine(userMsg.Text), singleBudget)), true
	case hasChar:
		return Clip(oneLine(charMsg.Text), singleBudget), true
	}
	return "", false
}

// Clip shortens s to at most n runes, replacing the tail with "..." when it
// has to cut.
func Clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	keep := max(n-utf8.RuneCountInString(ellipsis), 0)
	return string([]rune(s)[:keep]) + ellipsis
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
