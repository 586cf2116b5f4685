package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wheelibin/ambience/internal/models"
)

const barWidth = 10

func (m Model) View() string {
	panelWidth := 48
	if m.width > 0 {
		panelWidth = (m.width - 4) / 2
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panel(paneLights, "Lights", m.renderLights(), panelWidth),
		m.panel(paneScenes, "Scenes", m.renderScenes(), panelWidth),
	)

	status := statusStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("ambience"),
		body,
		status,
		m.help.View(m.keys),
	)
}

func (m Model) panel(p pane, title string, content string, width int) string {
	style := panelStyle
	if m.focus == p {
		style = focusedPanelStyle
	}
	return style.Width(width).Render(titleStyle.Render(title) + "\n" + content)
}

func (m Model) renderLights() string {
	if len(m.lights) == 0 {
		return mutedStyle.Render("no lights found")
	}
	lines := make([]string, 0, len(m.lights))
	for i, row := range m.lights {
		line := renderLightRow(row)
		if m.focus == paneLights && i == m.lightCursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderLightRow(row lightRow) string {
	if row.control == nil {
		return mutedStyle.Render(row.name)
	}

	s := row.control.Shadow()
	name := "  " + row.name
	if row.room {
		name = roomStyle.Render(row.name)
	}

	power := offStyle.Render("○")
	if s.On {
		power = onStyle.Render("●")
	}

	var hints []string
	if s.Mixed {
		hints = append(hints, "mixed")
	}
	if s.Dragging || s.Suspended {
		hints = append(hints, "…")
	}
	if !row.reachable {
		hints = append(hints, "unreachable")
	}

	swatch := " "
	if row.color != "" {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(row.color)).Render("■")
	}

	line := fmt.Sprintf("%s %s %-20s %s %3d%%", power, swatch, name, brightnessBar(s.Percent(), s.On, barWidth), s.Percent())
	if len(hints) > 0 {
		line += " " + mutedStyle.Render(strings.Join(hints, " "))
	}
	return line
}

func swatchColor(light models.Light) string {
	if !light.Capabilities.Color && !light.Capabilities.ColorTemp {
		return ""
	}
	return models.ColorOf(light.State).Hex()
}

func brightnessBar(percent int, on bool, width int) string {
	filled := 0
	if on {
		filled = percent * width / 100
		if percent > 0 && filled == 0 {
			filled = 1
		}
	}
	return onStyle.Render(strings.Repeat("█", filled)) + offStyle.Render(strings.Repeat("─", width-filled))
}

func (m Model) renderScenes() string {
	if len(m.scenes) == 0 {
		return mutedStyle.Render("no scenes")
	}
	lines := make([]string, 0, len(m.scenes))
	for i, row := range m.scenes {
		line := m.renderSceneRow(row)
		if m.focus == paneScenes && i == m.sceneCursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSceneRow(row sceneRow) string {
	if row.entry == nil {
		marker := "  "
		if m.deps.Coordinator.IsPlaying(row.scene) {
			marker = playStyle.Render("▶ ")
		}
		line := marker + roomStyle.Render(row.scene.Name)
		if !row.hasSelection {
			line += mutedStyle.Render("  nothing selected")
		}
		return line
	}

	selected := offStyle.Render("○")
	if row.entry.IsSelected {
		selected = onStyle.Render("●")
	}
	icon := "♪"
	if row.entry.Kind == models.EntryKindLight {
		icon = "☼"
	}
	return fmt.Sprintf("    %s %s %s", selected, icon, row.label)
}
