package puzzle

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrTruncated = errors.New("truncated program")

// Bytes serializes in the standard clvm wire form: 0xff introduces a
// pair, atoms carry a variable-width size prefix, 0x80 is nil.
func (p *Program) Bytes() []byte {
	return appendProgram(nil, p)
}

func (p *Program) Hex() string {
	return hex.EncodeToString(p.Bytes())
}

func appendProgram(buf []byte, p *Program) []byte {
	if p.IsPair() {
		buf = append(buf, 0xff)
		buf = appendProgram(buf, p.left)
		return appendProgram(buf, p.right)
	}
	return appendAtom(buf, p.atom)
}

func appendAtom(buf, a []byte) []byte {
	size := uint64(len(a))
	switch {
	case size == 0:
		return append(buf, 0x80)
	case size == 1 && a[0] <= 0x7f:
		return append(buf, a[0])
	case size <= 0x3f:
		buf = append(buf, 0x80|byte(size))
	case size <= 0x1fff:
		buf = append(buf, 0xc0|byte(size>>8), byte(size))
	case size <= 0xfffff:
		buf = append(buf, 0xe0|byte(size>>16), byte(size>>8), byte(size))
	case size <= 0x7ffffff:
		buf = append(buf, 0xf0|byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	default:
		buf = append(buf, 0xf8|byte(size>>32), byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	}
	return append(buf, a...)
}

// FromBytes parses one serialized program and requires all input be
// consumed.
func FromBytes(b []byte) (*Program, error) {
	p, rest, err := parseProgram(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after program", len(rest))
	}
	return p, nil
}

func FromHex(s string) (*Program, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return FromBytes(b)
}

func parseProgram(b []byte) (*Program, []byte, error) {
	if len(b) == 0 {
		return nil, nil, ErrTruncated
	}
	op := b[0]
	if op == 0xff {
		left, rest, err := parseProgram(b[1:])
		if err != nil {
			return nil, nil, err
		}
		right, rest, err := parseProgram(rest)
		if err != nil {
			return nil, nil, err
		}
		return Pair(left, right), rest, nil
	}
	if op == 0x80 {
		return Nil(), b[1:], nil
	}
	if op <= 0x7f {
		return Atom([]byte{op}), b[1:], nil
	}
	var size uint64
	var header int
	switch {
	case op&0xc0 == 0x80:
		size = uint64(op & 0x3f)
		header = 1
	case op&0xe0 == 0xc0:
		size = uint64(op & 0x1f)
		header = 2
	case op&0xf0 == 0xe0:
		size = uint64(op & 0x0f)
		header = 3
	case op&0xf8 == 0xf0:
		size = uint64(op & 0x07)
		header = 4
	case op&0xfc == 0xf8:
		size = uint64(op & 0x03)
		header = 5
	default:
		return nil, nil, fmt.Errorf("invalid atom prefix 0x%02x", op)
	}
	if len(b) < header {
		return nil, nil, ErrTruncated
	}
	for _, c := range b[1:header] {
		size = size<<8 | uint64(c)
	}
	b = b[header:]
	if uint64(len(b)) < size {
		return nil, nil, ErrTruncated
	}
	atom := make([]byte, size)
	copy(atom, b[:size])
	return Atom(atom), b[size:], nil
}
