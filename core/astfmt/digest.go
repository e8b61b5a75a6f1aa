package astfmt

import (
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/crux/core/ast"
)

// maxEncodedLen bounds Read so a hostile stream cannot exhaust memory.
const maxEncodedLen = 32 * 1024 * 1024

// Digest computes BLAKE2b-256 of the canonical encoding.
// Returns hex-encoded hash: "blake2b:a3f8b2c1d4e5f6a7..."
func (p *Program) Digest() (string, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize program for digest: %w", err)
	}
	return fmt.Sprintf("blake2b:%x", blake2b.Sum256(data)), nil
}

// Write encodes statements to w and returns the BLAKE2b-256 hash of the
// bytes written.
func Write(w io.Writer, statements []ast.Statement) ([32]byte, error) {
	data, err := Canonicalize(statements).MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("create hasher: %w", err)
	}

	if _, err := io.MultiWriter(w, hasher).Write(data); err != nil {
		return [32]byte{}, fmt.Errorf("write program: %w", err)
	}

	var hash [32]byte
	copy(hash[:], hasher.Sum(nil))
	return hash, nil
}

// Read decodes statements written by Write and returns them with the hash of
// the bytes read.
func Read(r io.Reader) ([]ast.Statement, [32]byte, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return nil, [32]byte{}, fmt.Errorf("create hasher: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(io.TeeReader(r, hasher), maxEncodedLen+1))
	if err != nil {
		return nil, [32]byte{}, fmt.Errorf("read program: %w", err)
	}
	if len(data) > maxEncodedLen {
		return nil, [32]byte{}, fmt.Errorf("program exceeds maximum size %d", maxEncodedLen)
	}

	p, err := Decode(data)
	if err != nil {
		return nil, [32]byte{}, err
	}
	statements, err := p.Statements()
	if err != nil {
		return nil, [32]byte{}, err
	}

	var hash [32]byte
	copy(hash[:], hasher.Sum(nil))
	return statements, hash, nil
}
