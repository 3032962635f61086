package entities

import "fmt"

// NodeKind tags a game node as a choice point or an ending.
type NodeKind int

const (
	NodeChoice NodeKind = iota
	NodeEnd
)

// GameNode is one step of a branching narrative.
// Each node is owned by exactly one parent, so the tree is finite and acyclic.
type GameNode struct {
	Kind        NodeKind
	Label       string      // short text shown when this node is offered as a choice
	Text        string      // long text shown when the node is reached
	Children    []*GameNode // ignored for NodeEnd
	Colour      int
	TextIsImage bool // NodeEnd only: Text is an image URL
}

// NewChoiceNode creates a node that offers its children as choices.
func NewChoiceNode(label, text string, colour int, children ...*GameNode) *GameNode {
	return &GameNode{
		Kind:     NodeChoice,
		Label:    label,
		Text:     text,
		Children: children,
		Colour:   colour,
	}
}

// NewEndNode creates a terminal node.
func NewEndNode(label, text string, colour int, textIsImage bool) *GameNode {
	return &GameNode{
		Kind:        NodeEnd,
		Label:       label,
		Text:        text,
		Colour:      colour,
		TextIsImage: textIsImage,
	}
}

// IsTerminal reports whether traversal stops at this node.
// A choice node without children behaves as an ending.
func (n *GameNode) IsTerminal() bool {
	return n.Kind == NodeEnd || len(n.Children) == 0
}

// Game is a titled narrative tree.
type Game struct {
	Title string
	Root  *GameNode
}

// NewGame creates a game rooted at root.
func NewGame(title string, root *GameNode) *Game {
	return &Game{Title: title, Root: root}
}

// Validate walks the tree and rejects nodes with more choices than option symbols.
func (g *Game) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("%w: game without title", ErrInvalidConfiguration)
	}
	if g.Root == nil {
		return fmt.Errorf("%w: game %q has no root node", ErrInvalidConfiguration, g.Title)
	}
	return validateNode(g.Title, g.Root, 0)
}

func validateNode(title string, n *GameNode, depth int) error {
	if n == nil {
		return fmt.Errorf("%w: game %q: nil node at depth %d", ErrInvalidConfiguration, title, depth)
	}
	if n.Kind == NodeEnd {
		return nil
	}
	if len(n.Children) > OptionsPerQuestion {
		return fmt.Errorf("%w: game %q: node %q has %d children, at most %d allowed",
			ErrInvalidConfiguration, title, n.Label, len(n.Children), OptionsPerQuestion)
	}
	for _, child := range n.Children {
		if err := validateNode(title, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
