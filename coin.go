// Package singletonindexer reconstructs the identity of logical
// on-ledger objects (singletons, token rings) from the spends that
// destroy and recreate their coins.
package singletonindexer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shruggr/singleton-indexer/puzzle"
)

// Coin is the ledger's unit: content-addressed, immutable, destroyed by
// the one spend that consumes it.
type Coin struct {
	ParentID   puzzle.Hash `json:"parent_id"`
	PuzzleHash puzzle.Hash `json:"puzzle_hash"`
	Amount     uint64      `json:"amount"`
}

// ID hashes the coin's own fields; the amount uses the canonical
// minimal integer encoding.
func (c Coin) ID() puzzle.Hash {
	amount, _ := puzzle.Uint(c.Amount).AtomBytes()
	buf := make([]byte, 0, 72)
	buf = append(buf, c.ParentID[:]...)
	buf = append(buf, c.PuzzleHash[:]...)
	buf = append(buf, amount...)
	return sha256.Sum256(buf)
}

// ToProgram renders the coin as the (parent_id puzzle_hash amount)
// triple used inside solutions.
func (c Coin) ToProgram() *puzzle.Program {
	return puzzle.List(
		puzzle.HashAtom(c.ParentID),
		puzzle.HashAtom(c.PuzzleHash),
		puzzle.Uint(c.Amount),
	)
}

// Spend consumes a coin, revealing the committed program behind its
// puzzle hash and the solution it was run with.
type Spend struct {
	Coin         Coin
	PuzzleReveal *puzzle.Program
	Solution     *puzzle.Program
}

// Additions evaluates a spend and returns the coins its CREATE_COIN
// conditions bring into existence. Melt-marked outputs create nothing.
func Additions(ev puzzle.Evaluator, s *Spend) ([]Coin, error) {
	_, result, err := ev.Evaluate(s.PuzzleReveal, s.Solution, 0)
	if err != nil {
		return nil, err
	}
	conds, err := puzzle.Conditions(result)
	if err != nil {
		return nil, fmt.Errorf("spend of %s: %w", s.Coin.ID(), err)
	}
	parent := s.Coin.ID()
	var children []Coin
	for _, cond := range conds {
		if cond.Opcode != puzzle.CreateCoin || cond.IsMelt() {
			continue
		}
		if len(cond.Args) < 2 {
			return nil, fmt.Errorf("spend of %s: malformed CREATE_COIN", parent)
		}
		phBytes, ok := cond.Args[0].AtomBytes()
		if !ok {
			return nil, fmt.Errorf("spend of %s: CREATE_COIN puzzle hash is not an atom", parent)
		}
		ph, ok := puzzle.HashFromSlice(phBytes)
		if !ok {
			return nil, fmt.Errorf("spend of %s: CREATE_COIN puzzle hash is %d bytes", parent, len(phBytes))
		}
		amount, ok := cond.Args[1].AsInt()
		if !ok || amount < 0 {
			return nil, fmt.Errorf("spend of %s: bad CREATE_COIN amount", parent)
		}
		children = append(children, Coin{ParentID: parent, PuzzleHash: ph, Amount: uint64(amount)})
	}
	return children, nil
}

// ByteString is a byte array that serializes to hex
type ByteString []byte

// MarshalJSON serializes ByteArray to hex
func (s ByteString) MarshalJSON() ([]byte, error) {
	bytes, err := json.Marshal(fmt.Sprintf("%x", string(s)))
	return bytes, err
}

// UnmarshalJSON deserializes ByteArray to hex
func (s *ByteString) UnmarshalJSON(data []byte) error {
	var x string
	err := json.Unmarshal(data, &x)
	if err == nil {
		str, e := hex.DecodeString(x)
		*s = ByteString([]byte(str))
		err = e
	}

	return err
}
