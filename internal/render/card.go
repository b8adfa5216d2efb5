// Package render maps posts to terminal cards and HTML. Every function here
// is a pure mapping from the view-model to markup.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/kernel/socialpost/internal/post"
	"github.com/samber/lo"
)

const cardWidth = 60

// Handle is the @name shown under the character name.
func Handle(name string) string {
	return "@" + strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// MetricsLine summarises engagement the way the platform labels it.
func MetricsLine(p post.Post) string {
	m := p.Metrics
	switch p.Platform {
	case post.Twitter:
		return fmt.Sprintf("💬 %d   🔁 %d   ❤️ %d", m.Comments, m.Shares, m.Likes)
	case post.Instagram:
		return fmt.Sprintf("❤️ %d ถูกใจ   💬 %d ความคิดเห็น", m.Likes, m.Comments)
	default:
		return fmt.Sprintf("👍 %d   💬 %d ความคิดเห็น   ↗️ %d แชร์", m.Likes, m.Comments, m.Shares)
	}
}

// Card draws one post as a bordered terminal card.
func Card(p post.Post) string {
	info, _ := p.Platform.Info()
	accent := lipgloss.Color(lo.CoalesceOrEmpty(info.Color, "#888888"))

	header := lipgloss.NewStyle().Bold(true).Foreground(accent).
		Render(fmt.Sprintf("%s %s", lo.CoalesceOrEmpty(p.PlatformIcon, info.Icon), lo.CoalesceOrEmpty(p.PlatformName, info.Name)))
	author := lipgloss.NewStyle().Bold(true).Render(p.CharacterName) + " " +
		lipgloss.NewStyle().Faint(true).Render(Handle(p.CharacterName))
	when := lipgloss.NewStyle().Faint(true).Render(CardTime(p.Platform, p.CreatedAt))
	body := lipgloss.NewStyle().Width(cardWidth - 4).Render(p.Content)
	footer := lipgloss.NewStyle().Faint(true).Render(MetricsLine(p))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(cardWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, author, when, "", body, "", footer))
}

// Cards draws every post, newest first, separated by blank lines.
func Cards(posts []post.Post) string {
	return strings.Join(lo.Map(posts, func(p post.Post, _ int) string { return Card(p) }), "\n\n")
}
