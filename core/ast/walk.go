package ast

import (
	"errors"
	"fmt"
	"iter"

	"github.com/opal-lang/crux/core/invariant"
)

// ErrMalformed is returned by Check for a node sequence that does not decode
// into exactly the expected number of trees.
var ErrMalformed = errors.New("malformed expression")

// Step is one node visited by Walk.
type Step struct {
	Index int  // relative index of the node
	Node  Node // the node itself
	Depth int  // 0 for roots, parent depth + 1 otherwise

	// Last is true when the node is the final operand still expected by its
	// parent (or the final root). Walk visits operands nearest-first, so the
	// last one is the leftmost in the buffer.
	Last bool

	// Open has one entry per ancestor level above the node: true while that
	// ancestor still expects more operands after this subtree. The slice is
	// reused between steps.
	Open []bool
}

// Walk visits every node from the end of the expression to its start,
// tracking pending operand counts on an explicit stack. roots is the number
// of top-level trees the expression holds (1 for a bare expression, 2 for a
// variable's [value][symbol] pair). Nodes come out in pre-order, parent before
// operands, operands nearest-first.
//
// Walk panics if the expression is malformed; use Check on untrusted input.
func (e *Expression) Walk(roots int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		frames := make([]int, 1, 16)
		frames[0] = roots
		open := make([]bool, 0, 16)

		for i := e.Len() - 1; i >= 0; i-- {
			invariant.Invariant(len(frames) > 0, "node %d is outside every tree", i)

			top := len(frames) - 1
			open = open[:0]
			for _, pending := range frames[:top] {
				open = append(open, pending > 0)
			}

			node := e.At(i)
			step := Step{
				Index: i,
				Node:  node,
				Depth: top,
				Last:  frames[top] == 1,
				Open:  open,
			}

			frames[top]--
			if arity := node.Arity(); arity > 0 {
				frames = append(frames, arity)
			}
			for len(frames) > 0 && frames[len(frames)-1] == 0 {
				frames = frames[:len(frames)-1]
			}

			if !yield(step) {
				return
			}
		}

		invariant.Invariant(len(frames) == 0, "expression ended with %d open operand frame(s)", len(frames))
	}
}

// Check verifies that the expression decodes into exactly roots trees: the
// backward walk must consume every frame by index 0 and never run out of
// frames early.
func (e *Expression) Check(roots int) error {
	if roots <= 0 {
		return fmt.Errorf("%w: need at least one root, got %d", ErrMalformed, roots)
	}

	frames := []int{roots}
	for i := e.Len() - 1; i >= 0; i-- {
		if len(frames) == 0 {
			return fmt.Errorf("%w: node %d (%s) is not claimed by any operator", ErrMalformed, i, e.At(i))
		}

		node := e.At(i)
		if !node.Kind.Valid() {
			return fmt.Errorf("%w: node %d has unknown kind %d", ErrMalformed, i, node.Kind)
		}

		frames[len(frames)-1]--
		if arity := node.Arity(); arity > 0 {
			frames = append(frames, arity)
		}
		for len(frames) > 0 && frames[len(frames)-1] == 0 {
			frames = frames[:len(frames)-1]
		}
	}

	if len(frames) > 0 {
		missing := 0
		for _, pending := range frames {
			missing += pending
		}
		return fmt.Errorf("%w: %d operand(s) missing", ErrMalformed, missing)
	}
	return nil
}
