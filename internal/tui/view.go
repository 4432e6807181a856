package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/socket"
	"github.com/careerhub/pulse/internal/core/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.state == viewDetail {
		b.WriteString(m.detail)
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("esc to go back"))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.rows) == 0 {
		b.WriteString(styles.Muted.Render("No notifications yet."))
		b.WriteString("\n")
	} else {
		for i, n := range m.rows {
			b.WriteString(m.rowView(i, n))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m *Model) headerView() string {
	title := styles.Title.Render("Pulse")

	status := styles.Disconnected.Render("○ disconnected")
	if m.status == socket.StatusConnected {
		status = styles.Connected.Render("● connected")
	}

	unread := ""
	if c := m.app.Feed.Unread(); c > 0 {
		unread = styles.UnreadBadge.Render(fmt.Sprintf(" %d unread", c))
	}

	return fmt.Sprintf("%s  %s%s", title, status, unread)
}

func (m *Model) rowView(i int, n feed.Notification) string {
	marker := " "
	if !n.Read {
		marker = styles.UnreadBadge.Render("•")
	}

	age := styles.Muted.Render(humanize.Time(n.CreatedAt))
	line := fmt.Sprintf("%s %s  %s", marker, n.Title, age)

	if i == m.cursor {
		return styles.Selected.Render(line)
	}
	return line
}

func (m *Model) footerView() string {
	var parts []string
	if m.flash != "" {
		parts = append(parts, styles.Title.Render("new: "+m.flash))
	}
	if m.lastErr != nil {
		parts = append(parts, styles.Disconnected.Render(m.lastErr.Error()))
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

// renderDetail renders a notification body as markdown. Rendering failure
// falls back to the raw content.
func (m *Model) renderDetail(n feed.Notification) string {
	width := m.width
	if width <= 0 || width > 100 {
		width = 80
	}

	md := fmt.Sprintf("# %s\n\n%s\n", n.Title, n.Content)
	if n.User != "" {
		md += fmt.Sprintf("\n_from %s, %s_\n", n.User, humanize.Time(n.CreatedAt))
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
