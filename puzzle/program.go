// Package puzzle is the commitment layer: programs as content-addressed
// sexp trees, curry/uncurry, the clvm wire encoding, and the evaluator
// contract consumed by the rest of the indexer.
package puzzle

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// Hash is a 32-byte tree hash. Program equality is tree-hash equality.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func HashFromSlice(b []byte) (h Hash, ok bool) {
	if len(b) != 32 {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

// Program is an immutable sexp: either an atom or a cons pair.
// The zero value is the nil atom.
type Program struct {
	atom  []byte
	left  *Program
	right *Program
}

func Nil() *Program {
	return &Program{}
}

func Atom(b []byte) *Program {
	return &Program{atom: b}
}

func HashAtom(h Hash) *Program {
	return &Program{atom: h[:]}
}

// Int encodes v as a minimal signed big-endian atom, the ledger's
// canonical integer form.
func Int(v int64) *Program {
	return &Program{atom: IntBytes(big.NewInt(v))}
}

func Uint(v uint64) *Program {
	return &Program{atom: IntBytes(new(big.Int).SetUint64(v))}
}

func Pair(left, right *Program) *Program {
	return &Program{left: left, right: right}
}

// List builds a nil-terminated proper list.
func List(items ...*Program) *Program {
	p := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		p = Pair(items[i], p)
	}
	return p
}

func (p *Program) IsPair() bool {
	return p.left != nil
}

// AtomBytes returns the atom's bytes, or false for a pair.
func (p *Program) AtomBytes() ([]byte, bool) {
	if p.IsPair() {
		return nil, false
	}
	return p.atom, true
}

func (p *Program) First() (*Program, bool) {
	if !p.IsPair() {
		return nil, false
	}
	return p.left, true
}

func (p *Program) Rest() (*Program, bool) {
	if !p.IsPair() {
		return nil, false
	}
	return p.right, true
}

// AsList flattens a proper list; false if p is not nil-terminated.
func (p *Program) AsList() ([]*Program, bool) {
	var items []*Program
	for p.IsPair() {
		items = append(items, p.left)
		p = p.right
	}
	if len(p.atom) != 0 {
		return nil, false
	}
	return items, true
}

// AsInt decodes a signed minimal big-endian atom; false for pairs or
// atoms wider than 8 bytes.
func (p *Program) AsInt() (int64, bool) {
	b, ok := p.AtomBytes()
	if !ok || len(b) > 8 {
		return 0, false
	}
	v := BytesToInt(b)
	if !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}

// TreeHash is the commitment: sha256(1 || atom) for atoms,
// sha256(2 || th(left) || th(right)) for pairs.
func (p *Program) TreeHash() Hash {
	if !p.IsPair() {
		return sha256.Sum256(append([]byte{0x01}, p.atom...))
	}
	l := p.left.TreeHash()
	r := p.right.TreeHash()
	buf := make([]byte, 0, 65)
	buf = append(buf, 0x02)
	buf = append(buf, l[:]...)
	buf = append(buf, r[:]...)
	return sha256.Sum256(buf)
}

func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.TreeHash() == o.TreeHash()
}

// IntBytes is the minimal signed big-endian encoding: empty for zero, a
// leading 0x00 only when needed to keep a positive value positive.
func IntBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	// two's complement, minimal width
	width := (v.BitLen() + 8) / 8
	tc := new(big.Int).Add(v, new(big.Int).Lsh(big.NewInt(1), uint(width*8)))
	b := tc.Bytes()
	for len(b) < width {
		b = append([]byte{0x00}, b...)
	}
	for len(b) > 1 && b[0] == 0xff && b[1]&0x80 != 0 {
		b = b[1:]
	}
	return b
}

func BytesToInt(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return v
}
