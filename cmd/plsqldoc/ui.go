// # cmd/plsqldoc/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	project    string
	list       list.Model
	warnings   []string
	unresolved int
	objects    int
	outputs    int
	lastUpdate time.Time
}

type updateMsg struct {
	warnings   []string
	unresolved int
	objects    int
	outputs    int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.warnings = msg.warnings
		m.unresolved = msg.unresolved
		m.objects = msg.objects
		m.outputs = msg.outputs
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, w := range m.warnings {
			title := "Build Warning"
			if strings.Contains(w, "duplicate object description") {
				title = "Duplicate Object"
			} else if strings.Contains(w, "malformed declaration signature") {
				title = "Malformed Signature"
			}
			items = append(items, item{title: title, desc: w})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last build: %v | %d objects | %d files written",
		m.lastUpdate.Format("15:04:05"), m.objects, m.outputs))

	var summary string
	if len(m.warnings) == 0 && m.unresolved == 0 {
		summary = successStyle.Render("✅ Documentation Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			warningStyle.Render(fmt.Sprintf("%d Warnings", len(m.warnings))),
			unresolvedStyle.Render(fmt.Sprintf("%d Unresolved", m.unresolved)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle(m.project+" Documentation Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel(project string) model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Build Warnings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		project:    project,
		list:       l,
		lastUpdate: time.Now(),
	}
}
