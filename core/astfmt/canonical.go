// Package astfmt serializes parsed statements to a canonical binary form.
//
// The encoding is deterministic CBOR: the same statements always produce the
// same bytes, so the BLAKE2b-256 digest of the encoding identifies a parse.
package astfmt

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
)

// Version is the canonical format version. Decode rejects anything else.
const Version uint8 = 1

// ErrInvalid is returned when decoded data does not describe valid statements.
var ErrInvalid = errors.New("invalid canonical program")

// Program is the canonical form of a statement list.
type Program struct {
	Version uint8                `cbor:"1,keyasint"`
	Body    []CanonicalStatement `cbor:"2,keyasint"`
}

// CanonicalStatement holds one statement's flat buffer, front to back.
type CanonicalStatement struct {
	Kind  uint8           `cbor:"1,keyasint"`
	Flags uint8           `cbor:"2,keyasint,omitempty"`
	Nodes []CanonicalNode `cbor:"3,keyasint"`
}

// CanonicalNode is one buffer element
type CanonicalNode struct {
	Kind   uint8  `cbor:"1,keyasint"`
	Token  uint8  `cbor:"2,keyasint"`
	Text   string `cbor:"3,keyasint,omitempty"`
	Offset uint32 `cbor:"4,keyasint"`
}

// Canonicalize copies statements into canonical form. The statements are not
// modified.
func Canonicalize(statements []ast.Statement) *Program {
	p := &Program{
		Version: Version,
		Body:    make([]CanonicalStatement, len(statements)),
	}

	for i, stmt := range statements {
		cs := CanonicalStatement{
			Kind:  uint8(stmt.Kind),
			Flags: uint8(stmt.Flags),
			Nodes: make([]CanonicalNode, 0, stmt.Expr.Len()),
		}
		for _, n := range stmt.Expr.All() {
			cs.Nodes = append(cs.Nodes, CanonicalNode{
				Kind:   uint8(n.Kind),
				Token:  uint8(n.Token.Kind),
				Text:   n.Token.Text,
				Offset: n.Offset,
			})
		}
		p.Body[i] = cs
	}
	return p
}

// MarshalBinary produces deterministic CBOR encoding of the program.
func (p *Program) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias avoids recursing into MarshalBinary
	type programAlias Program
	data, err := encMode.Marshal((*programAlias)(p))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (p *Program) UnmarshalBinary(data []byte) error {
	decMode, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxNestedLevels:   16,
	}.DecMode()
	if err != nil {
		return fmt.Errorf("failed to create CBOR decoder: %w", err)
	}

	type programAlias Program
	var alias programAlias
	if err := decMode.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}
	if alias.Version != Version {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalid, alias.Version, Version)
	}

	*p = Program(alias)
	return nil
}

// Decode parses canonical bytes back into a Program.
func Decode(data []byte) (*Program, error) {
	p := &Program{}
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Statements rebuilds parser statements, rejecting unknown kinds and buffers
// that do not decode into the trees their statement kind requires.
func (p *Program) Statements() ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(p.Body))

	for i, cs := range p.Body {
		kind := ast.StmtKind(cs.Kind)
		if kind != ast.StmtExpression && kind != ast.StmtVariable {
			return nil, fmt.Errorf("%w: statement %d has unknown kind %d", ErrInvalid, i, cs.Kind)
		}

		expr := ast.NewExpression()
		for j, cn := range cs.Nodes {
			nk := ast.NodeKind(cn.Kind)
			if !nk.Valid() {
				return nil, fmt.Errorf("%w: statement %d node %d has unknown kind %d", ErrInvalid, i, j, cn.Kind)
			}
			tk := token.Kind(cn.Token)
			if !tk.Valid() {
				return nil, fmt.Errorf("%w: statement %d node %d has unknown token kind %d", ErrInvalid, i, j, cn.Token)
			}
			expr.Push(ast.NewNode(nk, token.Token{Kind: tk, Offset: cn.Offset, Text: cn.Text}))
		}

		stmt := ast.Statement{Kind: kind, Expr: expr, Flags: ast.Flags(cs.Flags)}
		if err := stmt.Check(); err != nil {
			return nil, fmt.Errorf("%w: statement %d: %w", ErrInvalid, i, err)
		}
		out = append(out, stmt)
	}
	return out, nil
}
