package series

import (
	"math"
	"strconv"

	"github.com/inamate/chartview/internal/model"
)

// TreeNode is one node of a hierarchical series.
type TreeNode struct {
	// ID is the explicit id or the slash-joined path of names from the root.
	ID        string
	Name      string
	Value     float64
	Depth     int
	DataIndex int

	Parent   *TreeNode
	Children []*TreeNode
}

// Height returns the number of levels below the node.
func (n *TreeNode) Height() int {
	h := 0
	for _, c := range n.Children {
		h = max(h, c.Height()+1)
	}
	return h
}

// IsAncestorOf reports whether n is a strict ancestor of o.
func (n *TreeNode) IsAncestorOf(o *TreeNode) bool {
	for p := o.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Traverse visits n and its descendants in preorder.
func (n *TreeNode) Traverse(fn func(*TreeNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Tree is a hierarchy with a virtual root that owns the top-level items.
type Tree struct {
	Root  *TreeNode
	nodes []*TreeNode
}

// NodeAt returns the node bound to a data index.
func (t *Tree) NodeAt(dataIndex int) *TreeNode {
	if t == nil || dataIndex < 0 || dataIndex >= len(t.nodes) {
		return nil
	}
	return t.nodes[dataIndex]
}

// Find returns the node with id, or nil.
func (t *Tree) Find(id string) *TreeNode {
	if t == nil {
		return nil
	}
	if id == "" || id == t.Root.ID {
		return t.Root
	}
	for _, n := range t.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NewTreeData parses nested {name, value, children} items. Items become data
// rows in preorder; a missing value is the sum of the children.
func NewTreeData(raw []any, parent *model.Model) *Data {
	d := &Data{layout: make(map[string]any)}
	t := &Tree{Root: &TreeNode{DataIndex: -1}}
	d.Tree = t

	var walk func(items []any, p *TreeNode)
	walk = func(items []any, p *TreeNode) {
		for i, item := range items {
			opt, ok := item.(map[string]any)
			if !ok {
				opt = map[string]any{"value": item}
			}
			name, _ := opt["name"].(string)
			n := &TreeNode{Name: name, Parent: p, Depth: p.Depth + 1}
			n.ID = nodeID(opt, p, name, i)
			n.Value = toValue(opt["value"])

			n.DataIndex = d.append([]float64{n.Value}, n.ID, name, model.New(opt, parent))
			t.nodes = append(t.nodes, n)
			p.Children = append(p.Children, n)

			if children, ok := opt["children"].([]any); ok {
				walk(children, n)
			}
			if math.IsNaN(n.Value) {
				sum := 0.0
				for _, c := range n.Children {
					if !math.IsNaN(c.Value) {
						sum += c.Value
					}
				}
				n.Value = sum
				d.values[n.DataIndex][0] = sum
			}
		}
	}
	walk(raw, t.Root)
	return d
}

func nodeID(opt map[string]any, p *TreeNode, name string, i int) string {
	if s, ok := opt["id"].(string); ok && s != "" {
		return s
	}
	if name == "" {
		name = "#" + strconv.Itoa(i)
	}
	if p.ID == "" {
		return name
	}
	return p.ID + "/" + name
}
