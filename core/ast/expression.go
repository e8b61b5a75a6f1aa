package ast

import (
	"iter"
	"strings"

	"github.com/opal-lang/crux/core/invariant"
	"github.com/opal-lang/crux/core/pagebuf"
)

// Expression is a postfix-ordered node sequence stored in a paged buffer.
// The buffer is owned exclusively by the Expression; Prepend and Concat move
// nodes out of their argument and leave it empty.
type Expression struct {
	nodes *pagebuf.Buffer[Node]
}

// NewExpression returns an empty expression.
func NewExpression() *Expression {
	return &Expression{nodes: pagebuf.New[Node]()}
}

// ExpressionOf builds an expression from nodes already in postfix order.
func ExpressionOf(nodes ...Node) *Expression {
	e := NewExpression()
	for _, n := range nodes {
		e.Push(n)
	}
	return e
}

// Len returns the number of nodes.
func (e *Expression) Len() int {
	return e.nodes.Len()
}

// Push appends a node after every node already in the expression.
func (e *Expression) Push(n Node) {
	e.nodes.Push(n)
}

// Prepend moves every node of src in front of e, preserving src's order.
func (e *Expression) Prepend(src *Expression) {
	e.nodes.Prepend(src.nodes)
}

// Concat moves every node of src after e, preserving src's order.
func (e *Expression) Concat(src *Expression) {
	e.nodes.Concat(src.nodes)
}

// Get returns the node at relative index i in [0, Len()).
func (e *Expression) Get(i int) (Node, bool) {
	return e.nodes.Get(i)
}

// At returns the node at relative index i and panics when i is out of range.
func (e *Expression) At(i int) Node {
	return e.nodes.MustGet(i)
}

// Root returns the last node, which is the root of the outermost subtree.
func (e *Expression) Root() (Node, bool) {
	return e.nodes.Get(e.Len() - 1)
}

// All iterates nodes front to back.
func (e *Expression) All() iter.Seq2[int, Node] {
	return e.nodes.All()
}

// Backward iterates nodes back to front.
func (e *Expression) Backward() iter.Seq2[int, Node] {
	return e.nodes.Backward()
}

// Nodes copies the node sequence into a slice.
func (e *Expression) Nodes() []Node {
	out := make([]Node, 0, e.Len())
	for _, n := range e.All() {
		out = append(out, n)
	}
	return out
}

// Release drops the backing pages. The expression is empty afterwards.
func (e *Expression) Release() {
	e.nodes.Release()
}

// String renders the flat encoding: "[Literal 2][Literal 3][Binary +]".
func (e *Expression) String() string {
	var b strings.Builder
	for _, n := range e.All() {
		b.WriteByte('[')
		b.WriteString(n.String())
		b.WriteByte(']')
	}
	return b.String()
}

// SubtreeStart returns the index of the first node of the subtree rooted at i.
// The subtree occupies [SubtreeStart(i), i].
func (e *Expression) SubtreeStart(i int) int {
	invariant.InRange(i, 0, e.Len()-1, "subtree root")

	pending := 1
	for j := i; ; j-- {
		invariant.Invariant(j >= 0, "subtree at %d is missing %d operand(s)", i, pending)
		pending += e.At(j).Arity() - 1
		if pending == 0 {
			return j
		}
	}
}

// Children returns the roots of the operands of node i, nearest first.
// For a Binary node that is [right, left]; for a Ternary node it is
// [condition, then, else] because of the [R][M][L][T] layout.
func (e *Expression) Children(i int) []int {
	arity := e.At(i).Arity()
	out := make([]int, 0, arity)

	child := i - 1
	for range arity {
		invariant.Invariant(child >= 0, "node %d is missing operands", i)
		out = append(out, child)
		child = e.SubtreeStart(child) - 1
	}
	return out
}

// Operands returns the roots of the operands of node i in source order:
// [left, right] for Binary, [condition, then, else] for Ternary.
func (e *Expression) Operands(i int) []int {
	children := e.Children(i)
	if e.At(i).Kind == NodeBinary {
		children[0], children[1] = children[1], children[0]
	}
	return children
}
