package suggestlist

import (
	"strings"

	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

// Styles controls how rows are drawn.
type Styles struct {
	Item        lipgloss.Style
	Highlighted lipgloss.Style
	Emphasis    lipgloss.Style
	Status      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Highlighted: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Emphasis:    lipgloss.NewStyle().Bold(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}
}

// Renderer turns candidates into suggestion nodes inside a Container and
// remembers exactly which nodes it appended.
type Renderer struct {
	Styles Styles

	container *Container
	items     []*Node
}

func NewRenderer(container *Container) *Renderer {
	return &Renderer{
		Styles:    DefaultStyles(),
		container: container,
	}
}

// Container returns the container the renderer appends to.
func (r *Renderer) Container() *Container {
	return r.container
}

// Render replaces any items from a previous call with one node per candidate,
// in order, emphasizing matches of query.
func (r *Renderer) Render(query string, candidates []navigation.Candidate) []*Node {
	r.Clear()
	r.items = lo.Map(candidates, func(c navigation.Candidate, _ int) *Node {
		return r.container.Append(KindSuggestion, c.Text, Emphasize(c.Text, query))
	})
	return r.Items()
}

// Clear removes the nodes appended by the last Render and nothing else.
func (r *Renderer) Clear() {
	for _, item := range r.items {
		r.container.Remove(item.ID)
	}
	r.items = nil
}

// Highlight marks the item at index as highlighted and unmarks every other
// item. An out of range index (including navigation.None) leaves no item
// highlighted.
func (r *Renderer) Highlight(index int) {
	for i, item := range r.items {
		item.Highlighted = i == index
	}
}

// Items returns the rendered suggestion nodes in order.
func (r *Renderer) Items() []*Node {
	return append([]*Node(nil), r.items...)
}

// Len returns the number of rendered items.
func (r *Renderer) Len() int {
	return len(r.items)
}

// IndexOf returns the position of the item with the given node id.
func (r *Renderer) IndexOf(id int) (int, bool) {
	_, index, found := lo.FindIndexOf(r.items, func(item *Node) bool {
		return item.ID == id
	})
	return index, found
}

// HighlightedCount returns how many items carry the highlighted marker.
func (r *Renderer) HighlightedCount() int {
	return lo.CountBy(r.items, func(item *Node) bool {
		return item.Highlighted
	})
}

// Window returns the [start, end) range of items visible in maxRows rows,
// keeping the active item in view. maxRows <= 0 shows everything.
func Window(active, total, maxRows int) (int, int) {
	if maxRows <= 0 || total <= maxRows {
		return 0, total
	}
	start := 0
	if active >= maxRows {
		start = active - maxRows + 1
	}
	end := start + maxRows
	if end > total {
		end = total
		start = end - maxRows
	}
	return start, end
}

// VisibleRows returns the nodes in display order for the given active index,
// with suggestion items limited to the window.
func (r *Renderer) VisibleRows(active, maxRows int) []*Node {
	start, end := Window(active, len(r.items), maxRows)
	var rows []*Node
	itemIndex := 0
	for _, node := range r.container.Nodes() {
		if node.Kind == KindSuggestion {
			if itemIndex >= start && itemIndex < end {
				rows = append(rows, node)
			}
			itemIndex++
			continue
		}
		rows = append(rows, node)
	}
	return rows
}

// View draws the visible rows, one per line, truncated to width.
func (r *Renderer) View(active, maxRows, width int) string {
	rows := r.VisibleRows(active, maxRows)
	lines := make([]string, 0, len(rows))
	for _, node := range rows {
		lines = append(lines, r.renderNode(node, width))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderNode(node *Node, width int) string {
	if node.Kind != KindSuggestion {
		return r.truncate(r.Styles.Status.Render("  "+node.Text), width)
	}

	base := r.Styles.Item
	prefix := "  "
	if node.Highlighted {
		base = r.Styles.Highlighted
		prefix = "> "
	}

	var b strings.Builder
	b.WriteString(base.Render(prefix))
	for _, segment := range node.Segments {
		style := base
		if segment.Emphasized {
			style = style.Inherit(r.Styles.Emphasis)
		}
		b.WriteString(style.Render(segment.Text))
	}
	return r.truncate(b.String(), width)
}

func (r *Renderer) truncate(line string, width int) string {
	if width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(width), "…")
}
