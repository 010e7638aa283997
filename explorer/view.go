package explorer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	contentWidth := m.width
	if contentWidth < 10 {
		contentWidth = 10
	}

	header := titleStyle.Render(" " + m.title() + " ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var mapView string
	if m.showAttrs {
		box := boxStyle.Render(m.tbl.View())
		mapView = lipgloss.Place(m.mapW, m.mapH, lipgloss.Center, lipgloss.Center, box)
	} else {
		mapView = lipgloss.NewStyle().Width(m.mapW).Height(m.mapH).Render(m.renderMap(m.mapW, m.mapH))
	}

	status := dimStyle.Render(" " + m.status + " ")
	help := m.renderHelp()
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)

	info := dimStyle.Render(fmt.Sprintf(" %.2fx  %d/%d layers ", m.zoomFactor(), m.visibleLayerCount(), len(m.layers)))
	spacerW := contentWidth - lipgloss.Width(left) - lipgloss.Width(info)
	if spacerW < 0 {
		spacerW = 0
	}
	right := lipgloss.Place(spacerW+lipgloss.Width(info), 1, lipgloss.Right, lipgloss.Center, info)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, mapView, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) title() string {
	if m.request.Title != "" {
		return m.request.Title
	}
	return "choropleth explorer"
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"r reset",
		"1-9 layers",
		"Enter select",
		"c centre",
		"a attrs",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
