package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack, oldest at the top, each at most width
// cells wide.
func (v *ToastView) View(width int) string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	w := min(toastWidth, max(width-2, 10))
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t, w))
	}
	return strings.Join(rendered, "\n")
}

func levelLook(l notify.Level) (string, lipgloss.Style) {
	switch l {
	case notify.LevelError:
		return styles.IconError, styles.ToastErrorStyle
	case notify.LevelWarning:
		return styles.IconWarning, styles.ToastWarningStyle
	default:
		return styles.IconInfo, styles.ToastInfoStyle
	}
}

func renderToast(t toast, width int) string {
	icon, style := levelLook(t.notification.Level)

	content := icon + " " + t.notification.Message
	if t.repeats > 0 {
		content += styles.TextMutedStyle.Render(fmt.Sprintf(" ×%d", t.repeats+1))
	}
	return style.Width(width).Render(content)
}

// Overlay composites the toast stack over background in the lower-right
// corner, just above the status bar.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View(width)
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	rightX := max(width-lipgloss.Width(toastContent)-1, 0)
	bottomY := max(height-lipgloss.Height(toastContent)-statusBarHeight, 0)
	toastLayer.X(rightX).Y(bottomY).Z(4)

	return lipgloss.NewCompositor(bgLayer, toastLayer).Render()
}
