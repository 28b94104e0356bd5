package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chaimleib/antares/types"
)

// panelWidth is the outer width of the mini-computer panel.
const panelWidth = 30

// showPanel reports whether the terminal is wide enough for the panel.
func (m Model) showPanel() bool {
	return m.width >= panelWidth+40
}

// renderStatusBar produces a full-width inverted status line showing the
// level title, clock, object count and deferred queue depth.
func (m Model) renderStatusBar() string {
	e := m.engine
	title := e.Scenario.Level.Title
	if title == "" {
		title = e.Scenario.Info.Title
	}

	left := fmt.Sprintf(" %s | %s | Obj: %d/%d | Queue: %d",
		title, clock(e.Now), e.Ctx.Pool.Len(), e.Ctx.Pool.Cap(), e.Ctx.Queue.Len())

	var right string
	switch {
	case e.Over():
		right = "OVER "
	case m.paused:
		right = fmt.Sprintf("PAUSED x%d ", m.speed)
	default:
		right = fmt.Sprintf("x%d ", m.speed)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPanel draws the mini-computer: admiral standings, the build list
// of the local admiral and the current message.
func (m Model) renderPanel(height int) string {
	ctx := m.engine.Ctx
	inner := panelWidth - 4 // border and padding

	var b strings.Builder
	b.WriteString(stylePanelTitle.Render("ADMIRALS"))
	b.WriteString("\n")
	for i := 0; i < ctx.Admirals.Len(); i++ {
		a := ctx.Admirals.Get(types.AdmiralID(i))
		b.WriteString(truncate(a.Name, inner))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  $%s  pts %d\n", a.Cash, a.Score[0])
	}

	b.WriteString("\n")
	b.WriteString(stylePanelTitle.Render("BUILD"))
	b.WriteString("\n")
	if local := ctx.Admirals.Get(0); local == nil || len(local.CanBuild) == 0 {
		b.WriteString("  -\n")
	} else {
		for _, id := range local.CanBuild {
			name := "?"
			if base := ctx.Base(id); base != nil {
				name = base.Name
			}
			b.WriteString("  " + truncate(name, inner-2) + "\n")
		}
	}

	g := &ctx.Globals
	if g.MessageID != 0 {
		b.WriteString("\n")
		b.WriteString(stylePanelTitle.Render("MESSAGE"))
		fmt.Fprintf(&b, "\n  #%d page %d\n", g.MessageID, g.MessagePage)
	}
	if g.Status != "" {
		b.WriteString("\n")
		b.WriteString(stylePanelTitle.Render("STATUS"))
		b.WriteString("\n" + wordWrap(g.Status, inner))
	}

	h := height - 2
	if h < 1 {
		h = 1
	}
	return stylePanel.Width(panelWidth - 2).Height(h).Render(strings.TrimRight(b.String(), "\n"))
}

// clock renders t as minutes and seconds of level time.
func clock(t types.Ticks) string {
	secs := int64(t) / types.TicksPerSecond
	return fmt.Sprintf("T+%d:%02d", secs/60, secs%60)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n == 1 {
		return s[:1]
	}
	return s[:n-1] + "…"
}
