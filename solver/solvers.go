package solver

import (
	"fmt"

	"github.com/shruggr/singleton-indexer/puzzle"
)

// Standard builders for the known puzzle stack. Each mirrors the
// solution shape its on-chain template expects.

// SolveLauncher builds (destination_puzzle_hash launcher_amount metadata).
func SolveLauncher(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	amount, err := params.Uint64("launcher_amount")
	if err != nil {
		return nil, err
	}
	dest, err := params.Hash32("destination_puzzle_hash")
	if err != nil {
		return nil, err
	}
	metadata, err := params.Prog("metadata")
	if err != nil {
		return nil, err
	}
	return puzzle.List(puzzle.HashAtom(dest), puzzle.Uint(amount), metadata), nil
}

// SolveSingleton recurses into the curried inner puzzle and wraps its
// solution as (lineage_proof my_amount inner_solution). The inner
// solution's first element is dropped: the singleton layer replaces it
// with the truths it injects.
func SolveSingleton(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("singleton puzzle has %d curry args, want 2", len(args))
	}
	innerSolution, err := c.Solve(args[1], params)
	if err != nil {
		return nil, err
	}
	lineageProof, err := params.Prog("lineage_proof")
	if err != nil {
		return nil, err
	}
	amount, err := params.Uint64("coin_amount")
	if err != nil {
		return nil, err
	}
	rest, ok := innerSolution.Rest()
	if !ok {
		return nil, fmt.Errorf("inner solution for singleton is an atom")
	}
	return puzzle.List(lineageProof, puzzle.Uint(amount), rest), nil
}

// SolveAnyoneCanSpend solves the bare puzzle `1`: the solution is the
// condition list itself.
func SolveAnyoneCanSpend(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	conditions, err := params.Progs("conditions")
	if err != nil {
		return nil, err
	}
	return puzzle.List(conditions...), nil
}

// SolvePaddedAnyoneCanSpend solves `(a (q . 1) 3)`, which ignores the
// first solution element; a throwaway slot is prepended so the
// conditions land at path 3.
func SolvePaddedAnyoneCanSpend(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	conditions, err := params.Progs("conditions")
	if err != nil {
		return nil, err
	}
	return puzzle.Pair(puzzle.Nil(), puzzle.List(conditions...)), nil
}

func SolvePoolMember(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	spendType, err := params.Str("pool_member_spend_type")
	if err != nil {
		return nil, err
	}
	switch spendType {
	case "to-waiting-room":
		keyValueList, err := params.Prog("key_value_list")
		if err != nil {
			return nil, err
		}
		return puzzle.List(puzzle.Nil(), puzzle.Int(1), puzzle.Nil(), puzzle.Nil(), keyValueList), nil
	case "claim-p2-nft":
		amount, err := params.Uint64("pool_reward_amount")
		if err != nil {
			return nil, err
		}
		height, err := params.Int64("pool_reward_height")
		if err != nil {
			return nil, err
		}
		return puzzle.List(puzzle.Nil(), puzzle.Uint(amount), puzzle.Int(height)), nil
	default:
		return nil, fmt.Errorf("%w: pool_member_spend_type %q", ErrWrongParameterType, spendType)
	}
}

func SolvePoolWaitingRoom(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	spendType, err := params.Str("pool_leaving_spend_type")
	if err != nil {
		return nil, err
	}
	switch spendType {
	case "exit-waiting-room":
		keyValueList, err := params.Prog("key_value_list")
		if err != nil {
			return nil, err
		}
		dest, err := params.Hash32("destination_puzzle_hash")
		if err != nil {
			return nil, err
		}
		return puzzle.List(puzzle.Nil(), puzzle.Int(1), keyValueList, puzzle.HashAtom(dest)), nil
	case "claim-p2-nft":
		amount, err := params.Uint64("pool_reward_amount")
		if err != nil {
			return nil, err
		}
		height, err := params.Int64("pool_reward_height")
		if err != nil {
			return nil, err
		}
		return puzzle.List(puzzle.Nil(), puzzle.Nil(), puzzle.Uint(amount), puzzle.Int(height)), nil
	default:
		return nil, fmt.Errorf("%w: pool_leaving_spend_type %q", ErrWrongParameterType, spendType)
	}
}

func SolveP2Singleton(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error) {
	spendType, err := params.Str("p2_singleton_spend_type")
	if err != nil {
		return nil, err
	}
	switch spendType {
	case "claim-p2-nft":
		innerHash, err := params.Hash32("singleton_inner_puzzle_hash")
		if err != nil {
			return nil, err
		}
		coinName, err := params.Hash32("p2_singleton_coin_name")
		if err != nil {
			return nil, err
		}
		return puzzle.List(puzzle.HashAtom(innerHash), puzzle.HashAtom(coinName)), nil
	case "delayed-spend":
		return nil, fmt.Errorf("delayed-spend is not solvable yet")
	default:
		return nil, fmt.Errorf("%w: p2_singleton_spend_type %q", ErrWrongParameterType, spendType)
	}
}

// Templates names the committed programs of the known stack; nil fields
// are skipped.
type Templates struct {
	Launcher             *puzzle.Program
	Singleton            *puzzle.Program
	PoolMember           *puzzle.Program
	PoolWaitingRoom      *puzzle.Program
	P2Singleton          *puzzle.Program
	AnyoneCanSpend       *puzzle.Program
	PaddedAnyoneCanSpend *puzzle.Program
}

// Default wires every supplied template to its standard builder.
func Default(t Templates) (*Registry, error) {
	r := NewRegistry()
	pairs := []struct {
		prog    *puzzle.Program
		builder Builder
	}{
		{t.Launcher, SolveLauncher},
		{t.Singleton, SolveSingleton},
		{t.PoolMember, SolvePoolMember},
		{t.PoolWaitingRoom, SolvePoolWaitingRoom},
		{t.P2Singleton, SolveP2Singleton},
		{t.AnyoneCanSpend, SolveAnyoneCanSpend},
		{t.PaddedAnyoneCanSpend, SolvePaddedAnyoneCanSpend},
	}
	for _, p := range pairs {
		if p.prog == nil {
			continue
		}
		if err := r.Register(p.prog.TreeHash(), p.builder); err != nil {
			return nil, err
		}
	}
	return r, nil
}
