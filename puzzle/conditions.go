package puzzle

import (
	"bytes"
	"fmt"
)

// Condition opcodes this core inspects. Everything else passes through
// untouched.
const (
	CreateCoin             = 51
	CreateCoinAnnouncement = 60
	AssertCoinAnnouncement = 61
)

// meltMarker is -113: a CREATE_COIN whose amount atom is this byte
// retires value instead of paying it out.
var meltMarker = []byte{0x8f}

type Condition struct {
	Opcode int64
	Args   []*Program
}

// IsMelt reports the -113 melt convention on a CREATE_COIN condition.
func (c Condition) IsMelt() bool {
	if c.Opcode != CreateCoin || len(c.Args) < 2 {
		return false
	}
	a, ok := c.Args[1].AtomBytes()
	return ok && bytes.Equal(a, meltMarker)
}

// Conditions parses an evaluation result as a condition list:
// ((opcode arg...) ...).
func Conditions(result *Program) ([]Condition, error) {
	items, ok := result.AsList()
	if !ok {
		return nil, fmt.Errorf("conditions are not a proper list")
	}
	conds := make([]Condition, 0, len(items))
	for i, item := range items {
		fields, ok := item.AsList()
		if !ok || len(fields) == 0 {
			return nil, fmt.Errorf("condition %d is not a list", i)
		}
		op, ok := fields[0].AsInt()
		if !ok {
			return nil, fmt.Errorf("condition %d has a non-integer opcode", i)
		}
		conds = append(conds, Condition{Opcode: op, Args: fields[1:]})
	}
	return conds, nil
}
