package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubgate/hubgate/internal/delivery"
)

const (
	pollInterval = 2 * time.Second
	maxRows      = 15
)

type deliveriesMsg struct {
	items []*delivery.Delivery
	count int
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type pollMsg time.Time

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	store *delivery.Store

	width  int
	height int

	deliveries []*delivery.Delivery
	count      int
	lastPoll   time.Time

	spinner spinner.Model
	theme   Theme

	lastError string
}

// New creates a new watch TUI model over the given delivery store.
func New(store *delivery.Store) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))

	return &Model{
		store:   store,
		spinner: sp,
		theme:   NewDefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchDeliveries(),
		tea.EnterAltScreen,
	)
}

func (m Model) fetchDeliveries() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollInterval)
		defer cancel()

		items, err := m.store.Recent(ctx, maxRows)
		if err != nil {
			return errMsg{err}
		}
		count, err := m.store.Count(ctx)
		if err != nil {
			return errMsg{err}
		}
		return deliveriesMsg{items: items, count: count}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchDeliveries()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case deliveriesMsg:
		m.deliveries = msg.items
		m.count = msg.count
		m.lastPoll = time.Now()
		m.lastError = ""
		return m, tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })

	case pollMsg:
		return m, m.fetchDeliveries()

	case errMsg:
		m.lastError = msg.Error()
		return m, tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing watch..."
	}

	header := m.renderHeader()
	table := renderDeliveries(m.deliveries, m.theme, m.width)

	var errBar string
	if m.lastError != "" {
		errBar = m.theme.StatusFailed.Render(fmt.Sprintf(" ⚠ %s", m.lastError))
	}

	help := m.theme.Dim.Render(" [q] Quit • [r] Refresh")

	parts := []string{header, table}
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("HUBGATE DELIVERIES")
	status := m.theme.Header.Render(fmt.Sprintf("%s %d stored", m.spinner.View(), m.count))

	var polled string
	if !m.lastPoll.IsZero() {
		polled = m.theme.Dim.Render("updated " + m.lastPoll.Format("15:04:05"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status, "  ", polled)
}
