// Package ast holds the flat expression encoding produced by the parser.
//
// An Expression is a sequence of Nodes in postfix order: every operator is
// stored after all of its operands. The number of operands of a node is fixed
// by its kind (see NodeKind.Arity), so structure is recovered by scanning the
// sequence backward and counting pending operands. No pointer tree and no
// per-node subtree size is ever stored.
//
//	2 + 3 * 4     [Literal 2][Literal 3][Literal 4][Binary *][Binary +]
//	c ? a : b     [Literal b][Literal a][Literal c][Ternary ?]
package ast

import (
	"fmt"

	"github.com/opal-lang/crux/core/token"
)

// NodeKind is the closed set of expression node kinds
type NodeKind uint8

const (
	NodeLiteral NodeKind = iota // [T]
	NodePrefix                  // [E][T]
	NodeBlock                   // [E][T]
	NodeBinary                  // [L][R][T]
	NodeTernary                 // [R][M][L][T]
)

// Arity returns the number of operand subexpressions stored before a node of this kind.
func (k NodeKind) Arity() int {
	switch k {
	case NodeLiteral:
		return 0
	case NodePrefix, NodeBlock:
		return 1
	case NodeBinary:
		return 2
	case NodeTernary:
		return 3
	}
	panic(fmt.Sprintf("ast: unknown node kind %d", k))
}

// Valid reports whether k is one of the defined kinds.
func (k NodeKind) Valid() bool {
	return k <= NodeTernary
}

func (k NodeKind) String() string {
	switch k {
	case NodeLiteral:
		return "Literal"
	case NodePrefix:
		return "Prefix"
	case NodeBlock:
		return "Block"
	case NodeBinary:
		return "Binary"
	case NodeTernary:
		return "Ternary"
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// Node is one element of an Expression. Offset is the byte offset of the
// node's token in the source, kept for diagnostics.
type Node struct {
	Offset uint32
	Token  token.Token
	Kind   NodeKind
}

// NewNode builds a node positioned at its token.
func NewNode(kind NodeKind, tok token.Token) Node {
	return Node{Offset: tok.Offset, Token: tok, Kind: kind}
}

// Arity is shorthand for n.Kind.Arity().
func (n Node) Arity() int {
	return n.Kind.Arity()
}

// String renders "Literal 2", "Binary +", "Ternary ?" or "Block".
func (n Node) String() string {
	if n.Kind == NodeBlock {
		return n.Kind.String()
	}
	return n.Kind.String() + " " + n.Token.Text
}
