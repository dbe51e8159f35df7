package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"acqos/internal/framework"
	acqprogress "acqos/internal/progress"
	"acqos/internal/state"
	"acqos/internal/unlock"
)

// DataMsg carries a fresh copy of the record into the dashboard.
type DataMsg struct {
	Data state.ClientData
}

// DashboardModel shows every phase with its progress and the detail of the
// selected phase.
type DashboardModel struct {
	width    int
	height   int
	viewport viewport.Model
	progress progress.Model

	catalog  *framework.Catalog
	data     state.ClientData
	selected int
	reload   func() state.ClientData

	styles Styles
}

// NewDashboardModel creates the dashboard. reload, when set, is called on
// the "r" key to fetch the record again.
func NewDashboardModel(catalog *framework.Catalog, data state.ClientData, reload func() state.ClientData) DashboardModel {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 30
	vp := viewport.New(80, 20)
	m := DashboardModel{
		viewport: vp,
		progress: p,
		catalog:  catalog,
		data:     data,
		reload:   reload,
		styles:   DefaultStyles(),
		width:    80,
		height:   24,
	}
	if active, ok := data.ActivePhase(); ok {
		for i, ph := range catalog.Phases() {
			if ph.ID == active {
				m.selected = i
			}
		}
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Selected returns the phase shown in the detail pane.
func (m DashboardModel) Selected() framework.Phase {
	return m.catalog.Phases()[m.selected]
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.selected = (m.selected + 1) % len(m.catalog.Phases())
			m.refresh()
			m.viewport.GotoTop()
		case "shift+tab", "left", "h":
			n := len(m.catalog.Phases())
			m.selected = (m.selected + n - 1) % n
			m.refresh()
			m.viewport.GotoTop()
		case "r":
			if m.reload != nil {
				reload := m.reload
				return m, func() tea.Msg { return DataMsg{Data: reload()} }
			}
		}

	case DataMsg:
		m.data = msg.Data
		m.refresh()

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize updates the size of the viewport.
func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	// header, phase list and footer
	m.viewport.Height = max(h-len(m.catalog.Phases())-6, 3)
	m.progress.Width = min(max(w/3, 10), 40)
	m.refresh()
}

// View renders the page.
func (m DashboardModel) View() string {
	title := m.styles.Header.Render(fmt.Sprintf(" %s ", m.data.ClientName))
	domain := m.styles.Muted.Render(m.data.ClientDomain)
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", domain)

	footer := m.styles.Footer.Render("[Tab] phase suivante  [↑/↓] défiler  [r] recharger  [q] quitter")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.phaseList(),
		m.styles.RenderDivider(m.width),
		m.viewport.View(),
		footer,
	)
}

func (m DashboardModel) phaseList() string {
	var lines []string
	for i, ps := range acqprogress.Overview(m.catalog, m.data) {
		cursor := "  "
		if i == m.selected {
			cursor = "▶ "
		}
		lock := " "
		if !ps.Unlocked {
			lock = "🔒"
		}
		name := fmt.Sprintf("%s%s %s %-28s", cursor, ps.Phase.Icon.Glyph(), lock, ps.Phase.Title)
		bar := m.progress.ViewAs(float64(ps.Percent) / 100)
		lines = append(lines, m.styles.ForStatus(ps.Status).Render(name)+" "+bar)
	}
	return strings.Join(lines, "\n")
}

// refresh rebuilds the detail pane for the selected phase.
func (m *DashboardModel) refresh() {
	phase := m.Selected()
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render(phase.Title) + "\n")
	if phase.Subtitle != "" {
		sb.WriteString(m.styles.Subtitle.Render(phase.Subtitle) + "\n")
	}
	if phase.Goal != "" {
		sb.WriteString(m.styles.Body.Render("Objectif : "+phase.Goal) + "\n")
	}
	sb.WriteString("\n")

	if !unlock.IsPhaseUnlocked(m.data, phase.ID) {
		sb.WriteString(m.styles.Warning.Render(fmt.Sprintf("Phase verrouillée. Débloquez-la avec : acq unlock %s <code>", phase.ID)) + "\n")
		m.viewport.SetContent(sb.String())
		return
	}

	if phase.ID == framework.IdentityPhaseID {
		sb.WriteString(m.identityDetail())
		m.viewport.SetContent(sb.String())
		return
	}

	if a, ok := unlock.NextAction(phase, m.data); ok {
		sb.WriteString(m.styles.Badge.Render(a.Label()) + " " + m.styles.Muted.Render(a.Key.String()) + "\n\n")
	} else if phase.TaskCount() > 0 {
		sb.WriteString(m.styles.Success.Render("Phase terminée") + "\n\n")
	}

	for i, sub := range phase.SubModules {
		done, total := acqprogress.Count(phase.ID, sub, m.data)
		style := m.styles.Bold
		marker := "○"
		switch {
		case !unlock.IsSubModuleUnlocked(phase, i, m.data):
			style = m.styles.Muted
			marker = "🔒"
		case done == total:
			style = m.styles.Success
			marker = "✓"
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s %s (%d/%d, %d%%)", marker, sub.Title, done, total, acqprogress.Percent(done, total))) + "\n")
		for _, t := range sub.Tasks {
			tick := "  •"
			tstyle := m.styles.Muted
			if m.data.IsCompleted(framework.TaskKey(phase.ID, sub.ID, t.ID)) {
				tick = "  ✓"
				tstyle = m.styles.Success
			}
			sb.WriteString(tstyle.Render(fmt.Sprintf("%s %s", tick, t.Title)) + "\n")
		}
	}

	for _, s := range phase.Strategies {
		sb.WriteString(m.styles.Muted.Render("  › "+s) + "\n")
	}

	m.viewport.SetContent(sb.String())
}

func (m DashboardModel) identityDetail() string {
	field := func(label, v string) string {
		if v == "" {
			return m.styles.Muted.Render(fmt.Sprintf("○ %s : à compléter", label))
		}
		return m.styles.Success.Render("✓ "+label+" : ") + m.styles.Body.Render(v)
	}
	return strings.Join([]string{
		field("Domaine", m.data.ClientDomain),
		field("Mission", m.data.Identity.Mission),
		field("Préfixe de domaine", m.data.Identity.SelectedDomainPrefix),
		fmt.Sprintf("\nProgression : %d%%", acqprogress.Identity(m.data)),
	}, "\n") + "\n"
}
