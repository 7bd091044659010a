package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listHeadStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listLightStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listStopStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// maxNeighborLines bounds the detail pane below the vertex table.
const maxNeighborLines = 8

// browserKeys are the key bindings of the vertex browser.
type browserKeys struct {
	Up     key.Binding
	Down   key.Binding
	PageUp key.Binding
	PageDn key.Binding
	First  key.Binding
	Last   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var defaultBrowserKeys = browserKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDn: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("pgdn", "page down"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Help, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.PageUp, k.PageDn},
		{k.First, k.Last},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// VertexBrowser - Interactive vertex list
// =============================================================================

// VertexBrowser is the bubbletea model behind "inspect --browse". It pages
// through the vertices of a graph and shows the outgoing edges of the one
// under the cursor.
type VertexBrowser struct {
	Vertices []*roadgraph.Vertex
	Cursor   int
	Offset   int
	Height   int

	keys browserKeys
	help help.Model
}

// NewVertexBrowser creates a browser over the vertices of g.
func NewVertexBrowser(g *roadgraph.Graph) VertexBrowser {
	return VertexBrowser{
		Vertices: g.Vertices(),
		Height:   15,
		keys:     defaultBrowserKeys,
		help:     help.New(),
	}
}

func (m VertexBrowser) Init() tea.Cmd {
	return nil
}

func (m VertexBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.PageUp):
			m.move(-m.Height)
		case key.Matches(msg, m.keys.PageDn):
			m.move(m.Height)
		case key.Matches(msg, m.keys.First):
			m.move(-len(m.Vertices))
		case key.Matches(msg, m.keys.Last):
			m.move(len(m.Vertices))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.Height = msg.Height - maxNeighborLines - 10
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the list, and scrolls the
// window to keep it visible.
func (m *VertexBrowser) move(delta int) {
	if len(m.Vertices) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Vertices)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m VertexBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Vertices"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	if len(m.Vertices) == 0 {
		b.WriteString(listDimStyle.Render("  graph is empty"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Vertices))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		v := m.Vertices[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			v.ID,
			formatCoord(v.Lat),
			formatCoord(v.Lon),
			controlLabel(v),
			strconv.Itoa(v.Neighbors.Len()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Lat", "Lon", "Control", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeadStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Vertices) {
				return lipgloss.NewStyle()
			}
			v := m.Vertices[idx]
			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			switch {
			case col == 4 && v.TrafficLight:
				return base.Inherit(listLightStyle)
			case col == 4 && v.StopSign:
				return base.Inherit(listStopStyle)
			case idx == m.Cursor:
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Vertices))))
	b.WriteString("\n\n")
	b.WriteString(neighborPane(m.Vertices[m.Cursor]))

	return b.String()
}

// neighborPane lists the outgoing edges of v.
func neighborPane(v *roadgraph.Vertex) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleTitle.Render("Edges from"), StyleValue.Render(v.ID))
	if v.Neighbors.Len() == 0 {
		b.WriteString(listDimStyle.Render("  none (dead end)"))
		b.WriteString("\n")
		return b.String()
	}

	shown := 0
	v.Neighbors.Each(func(id string, e roadgraph.Edge) {
		if shown == maxNeighborLines {
			return
		}
		shown++
		fmt.Fprintf(&b, "  %s %-20s %s  %s\n",
			listDimStyle.Render(iconArrow),
			id,
			StyleNumber.Render(strconv.FormatFloat(e.Distance, 'f', -1, 64)+" m"),
			StyleNumber.Render(formatSpeed(e.Speed)+" km/h"))
	})
	if rest := v.Neighbors.Len() - shown; rest > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … and %d more", rest)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatCoord(c *float64) string {
	if c == nil {
		return "—"
	}
	return strconv.FormatFloat(*c, 'f', 6, 64)
}

func controlLabel(v *roadgraph.Vertex) string {
	switch {
	case v.TrafficLight:
		return "signals"
	case v.StopSign:
		return "stop"
	}
	return ""
}
