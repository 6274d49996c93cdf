package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lightning/pkg/geom"
	lio "github.com/matzehuels/lightning/pkg/io"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	lineCellStyle  = lipgloss.NewStyle().Foreground(colorRed)
	rootCellStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	wallCellStyle  = lipgloss.NewStyle().Foreground(colorGray)
	tableHeadStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	previewCols = 64
	previewRows = 28
)

// =============================================================================
// LayerListModel - Interactive layer browser
// =============================================================================

// LayerListModel is the bubbletea model of the inspect command. It lists
// the layers of a generated stack and previews the selected one.
type LayerListModel struct {
	Stack  *lio.Stack
	Layers []lio.LayerLines
	Cursor int
	Offset int
	Height int

	// Preview shows the selected layer instead of the list.
	Preview bool

	bounds geom.Box
}

// NewLayerListModel creates a layer browser. The cursor starts on the
// topmost layer that has infill.
func NewLayerListModel(stack *lio.Stack, layers []lio.LayerLines) LayerListModel {
	bounds := geom.EmptyBox()
	for _, outline := range stack.Layers {
		bounds = bounds.Union(outline.Bounds())
	}
	m := LayerListModel{Stack: stack, Layers: layers, Height: 15, bounds: bounds}
	for i := len(layers) - 1; i >= 0; i-- {
		if len(layers[i].Lines) > 0 {
			m.Cursor = i
			break
		}
	}
	m.scrollTo(m.Cursor)
	return m
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Preview {
				return m, tea.Quit
			}
			m.Preview = false
		case "enter", " ":
			m.Preview = !m.Preview
		case "up", "k":
			m.move(1)
		case "down", "j":
			m.move(-1)
		case "pgup":
			m.move(m.Height)
		case "pgdown":
			m.move(-m.Height)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scrollTo(m.Cursor)
	}
	return m, nil
}

// move changes the selected layer by delta; positive deltas move up the
// stack.
func (m *LayerListModel) move(delta int) {
	if len(m.Layers) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Layers)-1)
	m.scrollTo(m.Cursor)
}

// scrollTo keeps layer i visible. The list shows the top of the stack first,
// so row r holds layer len-1-r.
func (m *LayerListModel) scrollTo(i int) {
	row := len(m.Layers) - 1 - i
	if row < m.Offset {
		m.Offset = row
	}
	if row >= m.Offset+m.Height {
		m.Offset = row - m.Height + 1
	}
	m.Offset = max(m.Offset, 0)
}

func (m LayerListModel) View() string {
	if len(m.Layers) == 0 {
		return StyleTitle.Render("No layers") + "\n"
	}
	if m.Preview {
		return m.previewView()
	}
	return m.listView()
}

func (m LayerListModel) listView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Layers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ preview  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layers))
	rows := make([][]string, 0, end-m.Offset)
	for row := m.Offset; row < end; row++ {
		i := len(m.Layers) - 1 - row
		l := m.Layers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", l.Index),
			fmt.Sprintf("%d", len(l.Roots)),
			fmt.Sprintf("%d", l.Nodes),
			fmt.Sprintf("%d", len(l.Lines)),
			formatLength(l.Length),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Trees", "Nodes", "Lines", "Length").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeadStyle
			}
			i := len(m.Layers) - 1 - (m.Offset + row)
			switch {
			case i == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case i >= 0 && i < len(m.Layers) && len(m.Layers[i].Lines) == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [layer %d of %d]", m.Cursor, len(m.Layers)-1)))
	return b.String()
}

func (m LayerListModel) previewView() string {
	l := m.Layers[m.Cursor]
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d", l.Index)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d trees · %d lines · %s", len(l.Roots), len(l.Lines), formatLength(l.Length))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ layer  ⏎/esc back  q quit"))
	b.WriteString("\n\n")

	var outline geom.Polygons
	if m.Cursor < len(m.Stack.Layers) {
		outline = m.Stack.Layers[m.Cursor]
	}
	grid := rasterize(m.bounds, outline, l, previewCols, previewRows)
	for _, row := range grid {
		for _, cell := range row {
			switch cell {
			case cellWall:
				b.WriteString(wallCellStyle.Render("·"))
			case cellLine:
				b.WriteString(lineCellStyle.Render("█"))
			case cellRoot:
				b.WriteString(rootCellStyle.Render("o"))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Preview Raster
// =============================================================================

type cell uint8

const (
	cellEmpty cell = iota
	cellWall
	cellLine
	cellRoot
)

// rasterize draws a layer into a cols × rows character grid covering
// bounds. Row 0 is the top of the layer. Later kinds overwrite earlier
// ones: walls, then lines, then roots.
func rasterize(bounds geom.Box, outline geom.Polygons, l lio.LayerLines, cols, rows int) [][]cell {
	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
	}
	if bounds.Empty() {
		return grid
	}

	size := bounds.Size()
	toCell := func(p geom.Point) (int, int) {
		c, r := 0, 0
		if size.X > 0 {
			c = int((p.X - bounds.Min.X) * int64(cols-1) / size.X)
		}
		if size.Y > 0 {
			r = int((bounds.Max.Y - p.Y) * int64(rows-1) / size.Y)
		}
		return min(max(c, 0), cols-1), min(max(r, 0), rows-1)
	}
	plot := func(a, b geom.Point, kind cell) {
		c0, r0 := toCell(a)
		c1, r1 := toCell(b)
		steps := max(abs(c1-c0), abs(r1-r0), 1)
		for s := 0; s <= steps; s++ {
			c := c0 + (c1-c0)*s/steps
			r := r0 + (r1-r0)*s/steps
			if grid[r][c] < kind {
				grid[r][c] = kind
			}
		}
	}

	for _, poly := range outline {
		poly.Edges(func(a, b geom.Point) { plot(a, b, cellWall) })
	}
	for _, s := range l.Lines {
		plot(s.A, s.B, cellLine)
	}
	for _, p := range l.Roots {
		c, r := toCell(p)
		grid[r][c] = cellRoot
	}
	return grid
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
