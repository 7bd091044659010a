package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

func browserGraph(n int) *roadgraph.Graph {
	g := roadgraph.NewGraph()
	for i := 0; i < n; i++ {
		lat := float64(i)
		v := g.AddVertex(roadgraph.Vertex{
			ID:           fmt.Sprintf("v%d", i),
			Lat:          &lat,
			TrafficLight: i == 0,
			StopSign:     i == 1,
		})
		if i+1 < n {
			v.Neighbors.Set(fmt.Sprintf("v%d", i+1), roadgraph.Edge{Distance: 12.5, Speed: 50})
		}
	}
	return g
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m VertexBrowser, keys ...string) VertexBrowser {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(VertexBrowser)
	}
	return m
}

func TestVertexBrowserNavigation(t *testing.T) {
	m := NewVertexBrowser(browserGraph(30))

	tests := []struct {
		name       string
		keys       []string
		wantCursor int
		wantOffset int
	}{
		{"down", []string{"down", "j"}, 2, 0},
		{"up clamps", []string{"up", "k"}, 0, 0},
		{"page scrolls", []string{"pgdown"}, 15, 1},
		{"last", []string{"G"}, 29, 15},
		{"last then first", []string{"G", "g"}, 0, 0},
		{"past end clamps", []string{"G", "down"}, 29, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...)
			if got.Cursor != tt.wantCursor || got.Offset != tt.wantOffset {
				t.Errorf("cursor, offset = %d, %d, want %d, %d", got.Cursor, got.Offset, tt.wantCursor, tt.wantOffset)
			}
		})
	}
}

func TestVertexBrowserQuit(t *testing.T) {
	m := NewVertexBrowser(browserGraph(3))
	for _, k := range []string{"q"} {
		if _, cmd := m.Update(keyMsg(k)); cmd == nil {
			t.Errorf("%q should quit", k)
		}
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("esc should quit")
	}
	if _, cmd := m.Update(keyMsg("down")); cmd != nil {
		t.Error("navigation should not return a command")
	}
}

func TestVertexBrowserWindowSize(t *testing.T) {
	m := NewVertexBrowser(browserGraph(30))
	m = press(m, "G")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(VertexBrowser)
	if m.Height != 5 {
		t.Errorf("Height = %d, want minimum 5", m.Height)
	}
	if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
		t.Errorf("cursor %d outside window [%d, %d)", m.Cursor, m.Offset, m.Offset+m.Height)
	}
}

func TestVertexBrowserView(t *testing.T) {
	m := press(NewVertexBrowser(browserGraph(3)), "down")
	view := m.View()

	for _, want := range []string{"Vertices", "v0", "v1", "v2", "signals", "stop", "[2/3]", "Edges from", "12.5 m", "50.00 km/h"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}

	last := press(m, "G").View()
	if !strings.Contains(last, "dead end") {
		t.Errorf("last vertex has no edges:\n%s", last)
	}
}

func TestVertexBrowserEmpty(t *testing.T) {
	m := press(NewVertexBrowser(roadgraph.NewGraph()), "down", "G")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d on empty graph", m.Cursor)
	}
	if !strings.Contains(m.View(), "graph is empty") {
		t.Errorf("empty view:\n%s", m.View())
	}
}

func TestNeighborPaneTruncates(t *testing.T) {
	g := roadgraph.NewGraph()
	v := g.AddVertex(roadgraph.Vertex{ID: "hub"})
	for i := 0; i < maxNeighborLines+3; i++ {
		v.Neighbors.Set(fmt.Sprintf("n%d", i), roadgraph.Edge{Distance: 1, Speed: 30})
	}

	pane := neighborPane(v)
	if !strings.Contains(pane, "and 3 more") {
		t.Errorf("pane should note the hidden edges:\n%s", pane)
	}
	if strings.Contains(pane, fmt.Sprintf("n%d ", maxNeighborLines)) {
		t.Errorf("pane shows more than %d edges:\n%s", maxNeighborLines, pane)
	}
}

func TestVertexBrowserHelp(t *testing.T) {
	m := NewVertexBrowser(browserGraph(3))
	if view := m.View(); !strings.Contains(view, "quit") || strings.Contains(view, "page down") {
		t.Errorf("short help should list quit only:\n%s", view)
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "page down") {
		t.Errorf("? should expand the help:\n%s", m.View())
	}
	if m = press(m, "?"); strings.Contains(m.View(), "page down") {
		t.Error("second ? should collapse the help")
	}
}
