package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/graph"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// UserListModel - Interactive user selection
// =============================================================================

// UserListModel is the bubbletea model for picking a user from the graph.
type UserListModel struct {
	Users    []graph.Node
	Graph    *graph.Graph
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewUserListModel creates a new user list model over the graph's users.
func NewUserListModel(g *graph.Graph) UserListModel {
	return UserListModel{
		Users:  g.Nodes(),
		Graph:  g,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m UserListModel) Init() tea.Cmd {
	return nil
}

func (m UserListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Users)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Users[m.Cursor].ID
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m UserListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select User"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Users) {
		end = len(m.Users)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		u := m.Users[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := u.Name
		if name == "" {
			name = "—"
		}

		rows = append(rows, []string{
			cursor,
			u.ID,
			name,
			strconv.Itoa(m.Graph.InDegree(u.ID)),
			strconv.Itoa(m.Graph.OutDegree(u.ID)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "User", "Name", "Followers", "Following").
		Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Users) > m.Height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d users", m.Cursor+1, len(m.Users))))
		b.WriteString("\n")
	}
	return b.String()
}

// pickUser runs the interactive user picker and returns the chosen id.
func pickUser(g *graph.Graph) (string, error) {
	if g.NodeCount() == 0 {
		return "", errors.New(errors.ErrCodeQueryEmpty, "graph has no users")
	}

	final, err := tea.NewProgram(NewUserListModel(g)).Run()
	if err != nil {
		return "", fmt.Errorf("user picker: %w", err)
	}

	m, ok := final.(UserListModel)
	if !ok || m.Selected == "" {
		return "", errors.New(errors.ErrCodeUserNotFound, "no user selected")
	}
	return m.Selected, nil
}

// =============================================================================
// Ranked Output
// =============================================================================

// printRanked renders a ranked query result as a table.
func printRanked(title, scoreLabel string, ranked []graph.Ranked) {
	fmt.Println(StyleTitle.Render(title))

	rows := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		name := r.Name
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.UserID,
			name,
			strconv.Itoa(r.Score),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "User", "Name", scoreLabel).
		Rows(rows...)

	fmt.Println(t.Render())
}
