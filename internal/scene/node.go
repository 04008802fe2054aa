package scene

import "github.com/park285/chess3d/internal/picking"

// Node is a named scene element. Geometry nodes carry bounds; group nodes
// only organise children.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	bounds   *Box
}

func NewNode(name string) *Node { return &Node{name: name} }

func NewGeometry(name string, bounds Box) *Node {
	b := bounds
	return &Node{name: name, bounds: &b}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Parent() picking.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []*Node { return n.children }

func (n *Node) Bounds() (Box, bool) {
	if n.bounds == nil {
		return Box{}, false
	}
	return *n.bounds, true
}

func (n *Node) AddChild(c *Node) {
	if c == nil {
		return
	}
	c.RemoveFromParent()
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
