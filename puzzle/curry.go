package puzzle

import "bytes"

// clvm operators used by the curry wrapper.
var (
	opQuote = []byte{0x01}
	opApply = []byte{0x02}
	opCons  = []byte{0x04}
	argsRef = []byte{0x01} // environment path 1: the whole solution
)

// Curry fixes args as the leading arguments of p, producing the
// committed program (a (q . p) (c (q . a1) (c (q . a2) ... 1))).
func Curry(p *Program, args ...*Program) *Program {
	tail := Atom(argsRef)
	for i := len(args) - 1; i >= 0; i-- {
		tail = List(Atom(opCons), Pair(Atom(opQuote), args[i]), tail)
	}
	return List(Atom(opApply), Pair(Atom(opQuote), p), tail)
}

// Uncurry inverts Curry. ok is false when p is not in curry form;
// Uncurry(Curry(p, args...)) always returns p and args exactly.
func Uncurry(p *Program) (mod *Program, args []*Program, ok bool) {
	items, ok := p.AsList()
	if !ok || len(items) != 3 {
		return nil, nil, false
	}
	if !atomEquals(items[0], opApply) {
		return nil, nil, false
	}
	mod, ok = quoted(items[1])
	if !ok {
		return nil, nil, false
	}
	tail := items[2]
	for {
		if b, isAtom := tail.AtomBytes(); isAtom {
			if !bytes.Equal(b, argsRef) {
				return nil, nil, false
			}
			return mod, args, true
		}
		link, ok := tail.AsList()
		if !ok || len(link) != 3 || !atomEquals(link[0], opCons) {
			return nil, nil, false
		}
		arg, ok := quoted(link[1])
		if !ok {
			return nil, nil, false
		}
		args = append(args, arg)
		tail = link[2]
	}
}

func quoted(p *Program) (*Program, bool) {
	if !p.IsPair() || !atomEquals(p.left, opQuote) {
		return nil, false
	}
	return p.right, true
}

func atomEquals(p *Program, b []byte) bool {
	a, ok := p.AtomBytes()
	return ok && bytes.Equal(a, b)
}
