package graphic

import (
	"github.com/inamate/chartview/internal/typeid"
)

// Node types.
const (
	TypeGroup = "group"
	TypePath  = "path"
	TypeText  = "text"
)

// HoverState is the emphasis dimension of an element.
type HoverState int

const (
	HoverNormal HoverState = iota
	HoverBlur
	HoverEmphasis
)

// ElementData links a node back to the series item it represents.
type ElementData struct {
	SeriesIndex int
	DataIndex   int // -1 when not bound to an item
	DataType    string
	Focus       string // none, self, series
	BlurScope   string // coordinateSystem, series, global
}

// TextConfig positions an attached label relative to its host.
type TextConfig struct {
	Position string
	Inside   bool
	Distance float64
}

// Node is an element of the retained scene graph. Groups hold children,
// paths hold a Shape, text nodes hold their string in Style.Text.
type Node struct {
	ID   string
	Type string
	Name string

	Shape  Shape
	Style  Style
	States map[string]*State

	Z  int
	Z2 int

	// Ignore removes the node from drawing and hit testing without detaching it.
	Ignore bool
	// Invisible hides the node; labels hidden by overlap use this.
	Invisible   bool
	Silent      bool
	Incremental bool

	// Local transform. Rotation is in radians, counterclockwise on screen.
	X, Y     float64
	Rotation float64

	Parent   *Node
	Children []*Node

	ClipPath    *Node
	TextContent *Node
	TextConfig  TextConfig
	host        *Node

	Data ElementData

	// Interaction state, owned by the emphasis controller.
	HoverState       HoverState
	HighByOuter      uint32
	HoverHighlighted bool
	Selected         bool
	HighDownEnabled  bool
	Temp             bool
}

func newNode(typ string) *Node {
	return &Node{
		ID:    typeid.NewElementID(),
		Type:  typ,
		Style: DefaultStyle(),
		Data:  ElementData{DataIndex: -1},
	}
}

// NewGroup creates an empty container.
func NewGroup() *Node {
	return newNode(TypeGroup)
}

// NewPath creates a path element with the given shape and style.
func NewPath(shape Shape, style Style) *Node {
	n := newNode(TypePath)
	n.Shape = shape
	n.Style = style
	return n
}

// NewText creates a text element anchored at (x, y).
func NewText(x, y float64, style Style) *Node {
	n := newNode(TypeText)
	n.X, n.Y = x, y
	n.Style = style
	if n.Style.FontSize == 0 {
		n.Style.FontSize = DefaultFontSize
	}
	return n
}

// IsGroup reports whether the node is a container.
func (n *Node) IsGroup() bool {
	return n.Type == TypeGroup
}

// Add appends child to the group. Adding a node that is already a child is a no-op.
func (n *Node) Add(child *Node) {
	if child == nil || child == n || child.Parent == n {
		return
	}
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	n.Children = append(n.Children, child)
	child.Parent = n
}

// Remove detaches child from the group. Unknown nodes are ignored.
func (n *Node) Remove(child *Node) {
	if child == nil || child.Parent != n {
		return
	}
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			break
		}
	}
	child.Parent = nil
}

// RemoveAll detaches every child.
func (n *Node) RemoveAll() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// ChildAt returns the i-th child or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Contains reports whether child is a direct child of n.
func (n *Node) Contains(child *Node) bool {
	return child != nil && child.Parent == n
}

// Traverse calls fn for every descendant, depth first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.Traverse(fn)
	}
}

// SetClipPath attaches a clip shape to the node.
func (n *Node) SetClipPath(clip *Node) {
	n.ClipPath = clip
}

// RemoveClipPath drops the clip shape.
func (n *Node) RemoveClipPath() {
	n.ClipPath = nil
}

// SetTextContent attaches a label to the node. The label is drawn right after
// its host and follows the host's parent transform.
func (n *Node) SetTextContent(text *Node) {
	if n.TextContent == text {
		return
	}
	if n.TextContent != nil {
		n.TextContent.host = nil
	}
	n.TextContent = text
	if text != nil {
		text.host = n
	}
}

// Host returns the element a label is attached to.
func (n *Node) Host() *Node {
	return n.host
}

// EnsureState returns the named state record, creating it if needed.
func (n *Node) EnsureState(name string) *State {
	if n.States == nil {
		n.States = make(map[string]*State)
	}
	s, ok := n.States[name]
	if !ok {
		s = &State{}
		n.States[name] = s
	}
	return s
}

// State returns the named state record or nil.
func (n *Node) State(name string) *State {
	if n.States == nil {
		return nil
	}
	return n.States[name]
}

// CurrentStates lists the active state names in application order.
func (n *Node) CurrentStates() []string {
	var states []string
	if n.Selected {
		states = append(states, "select")
	}
	switch n.HoverState {
	case HoverEmphasis:
		states = append(states, "emphasis")
	case HoverBlur:
		states = append(states, "blur")
	}
	return states
}

// LocalTransform returns the node's own transform.
func (n *Node) LocalTransform() Matrix2D {
	m := Translate(n.X, n.Y)
	if n.Rotation != 0 {
		m = m.Multiply(Rotate(-n.Rotation))
	}
	return m
}

// WorldTransform composes the transforms of all ancestors. Labels use their
// host's parent chain.
func (n *Node) WorldTransform() Matrix2D {
	m := n.LocalTransform()
	parent := n.Parent
	if parent == nil && n.host != nil {
		parent = n.host.Parent
		if n.host.X != 0 || n.host.Y != 0 || n.host.Rotation != 0 {
			m = n.host.LocalTransform().Multiply(m)
		}
	}
	for p := parent; p != nil; p = p.Parent {
		m = p.LocalTransform().Multiply(m)
	}
	return m
}

// IsDisplayed reports whether the node and every ancestor are drawable.
func (n *Node) IsDisplayed() bool {
	for p := n; p != nil; p = p.Parent {
		if p.Ignore || p.Invisible {
			return false
		}
		if p.Parent == nil && p.host != nil {
			p = p.host
			if p.Ignore || p.Invisible {
				return false
			}
		}
	}
	return true
}
