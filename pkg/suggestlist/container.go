package suggestlist

// Kind tags a node so the owner of the container can tell suggestion rows
// apart from anything else living in it.
type Kind int

const (
	// KindSuggestion marks a rendered suggestion item.
	KindSuggestion Kind = iota + 1
	// KindStatus marks an informational row such as the empty-result hint.
	KindStatus
)

// Segment is a run of text that is either emphasized (matched the query) or not.
type Segment struct {
	Text       string
	Emphasized bool
}

// Node is one row in the suggestion container.
type Node struct {
	ID          int
	Kind        Kind
	Text        string
	Segments    []Segment
	Highlighted bool
}

// IsSuggestion reports whether the node carries the suggestion item marker.
func (n *Node) IsSuggestion() bool {
	return n != nil && n.Kind == KindSuggestion
}

// Container is the ordered set of rows shown under the search field.
type Container struct {
	nodes  []*Node
	nextID int
}

func NewContainer() *Container {
	return &Container{nextID: 1}
}

// Append adds a node at the end and returns it.
func (c *Container) Append(kind Kind, text string, segments []Segment) *Node {
	node := &Node{
		ID:       c.nextID,
		Kind:     kind,
		Text:     text,
		Segments: segments,
	}
	c.nextID++
	c.nodes = append(c.nodes, node)
	return node
}

// Remove detaches the node with the given id. It reports whether a node was removed.
func (c *Container) Remove(id int) bool {
	for i, node := range c.nodes {
		if node.ID == id {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup finds a node by id.
func (c *Container) Lookup(id int) (*Node, bool) {
	for _, node := range c.nodes {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// Nodes returns the nodes in display order.
func (c *Container) Nodes() []*Node {
	return append([]*Node(nil), c.nodes...)
}

// Count returns how many nodes of the given kind are attached.
func (c *Container) Count(kind Kind) int {
	count := 0
	for _, node := range c.nodes {
		if node.Kind == kind {
			count++
		}
	}
	return count
}

// Len returns the total number of nodes.
func (c *Container) Len() int {
	return len(c.nodes)
}
