package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/core/styles"
	tuinotify "github.com/colonyops/scribe/internal/tui/notify"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 24
	notifyModalMargin    = 4
	notifyModalChrome    = 6 // title + divider + help + spacing
)

// NotificationModal shows the notification history in a scrollable list.
type NotificationModal struct {
	bus      *tuinotify.Bus
	viewport viewport.Model
}

// NewNotificationModal creates a modal sized for a width x height screen.
func NewNotificationModal(bus *tuinotify.Bus, width, height int) *NotificationModal {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := min(height-notifyModalMargin, notifyModalMaxHeight)

	vp := viewport.New(
		viewport.WithWidth(max(modalWidth-4, 1)),
		viewport.WithHeight(max(modalHeight-notifyModalChrome, 1)),
	)

	m := &NotificationModal{bus: bus, viewport: vp}
	m.refreshContent()
	return m
}

func (m *NotificationModal) refreshContent() {
	history, err := m.bus.History()
	if err != nil {
		m.viewport.SetContent(styles.TextErrorStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	}
	if len(history) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	lines := make([]string, len(history))
	for i, n := range history {
		lines[i] = formatNotification(n)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatNotification(n notify.Notification) string {
	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))
	icon, _ := levelLook(n.Level)

	msgStyle := styles.TextPrimaryStyle
	switch n.Level {
	case notify.LevelError:
		msgStyle = styles.TextErrorStyle
	case notify.LevelWarning:
		msgStyle = styles.TextWarningStyle
	}

	src := ""
	if n.Source != "" {
		src = styles.TextMutedStyle.Render("["+n.Source+"] ")
	}
	return fmt.Sprintf("%s %s %s%s", ts, icon, src, msgStyle.Render(n.Message))
}

// ScrollUp scrolls the history up one line.
func (m *NotificationModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the history down one line.
func (m *NotificationModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Clear deletes the stored history and refreshes the view.
func (m *NotificationModal) Clear() error {
	if err := m.bus.Clear(); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// Overlay renders the modal centered over background.
func (m *NotificationModal) Overlay(background string, width, height int) string {
	modalWidth := calcNotificationModalWidth(width)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			styles.ModalTitleStyle.Render("Notifications"+scrollInfo),
			divider,
			m.viewport.View(),
			styles.ModalHelpStyle.Render("[j/k] scroll  [D] clear all  [esc] close"),
		))

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := max((width-lipgloss.Width(modal))/2, 0)
	centerY := max((height-lipgloss.Height(modal))/2, 0)
	modalLayer.X(centerX).Y(centerY).Z(2)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}
