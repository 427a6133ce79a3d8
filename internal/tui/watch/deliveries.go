package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hubgate/hubgate/internal/delivery"
)

func renderDeliveries(items []*delivery.Delivery, theme Theme, width int) string {
	innerWidth := width - 4

	if len(items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("RECENT"),
			theme.Dim.Render("  Waiting for deliveries..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	var lines []string
	for _, d := range items {
		lines = append(lines, formatDelivery(d, theme))
	}

	body := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("RECENT"),
		body,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func formatDelivery(d *delivery.Delivery, theme Theme) string {
	ts := theme.Dim.Render(d.ReceivedAt.Local().Format("15:04:05"))

	id := d.ID
	if len(id) > 8 {
		id = id[:8]
	}

	receiver := theme.Highlight.Render(fmt.Sprintf("%-12s", d.Receiver))

	sub := d.SubscriptionID
	if sub == "" {
		sub = "-"
	}

	size := theme.Dim.Render(fmt.Sprintf("%5dB", len(d.Payload)))

	return fmt.Sprintf("%s [%s] %s %-16s %s", ts, id, receiver, sub, size)
}
