// Package solver dispatches solution builders by puzzle template hash,
// composing per-layer solutions over arbitrary inner puzzles.
package solver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shruggr/singleton-indexer/puzzle"
)

var (
	ErrDuplicateSolver    = errors.New("solver already registered")
	ErrNoSolver           = errors.New("no solver for puzzle")
	ErrMissingParameter   = errors.New("missing parameter")
	ErrWrongParameterType = errors.New("wrong parameter type")
	ErrSolveDepth         = errors.New("solver recursion too deep")
)

// maxDepth bounds solver recursion. Known stacks are launcher ->
// singleton -> pool layer -> leaf; anything deeper is a wiring bug.
const maxDepth = 16

// Builder produces a solution for one puzzle layer. args are the curry
// arguments recovered when dispatch happened on the template hash, and
// are empty when the puzzle's own hash matched.
type Builder func(c *Call, args []*puzzle.Program, params Params) (*puzzle.Program, error)

type Registry struct {
	mu     sync.RWMutex
	byHash map[puzzle.Hash]Builder
}

func NewRegistry() *Registry {
	return &Registry{byHash: make(map[puzzle.Hash]Builder)}
}

func (r *Registry) Register(templateHash puzzle.Hash, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[templateHash]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSolver, templateHash)
	}
	r.byHash[templateHash] = b
	return nil
}

// Solve resolves prog by its own tree hash first; failing that it
// uncurries prog and resolves the template's hash, handing the builder
// the recovered curry arguments.
func (r *Registry) Solve(db *puzzle.DB, prog *puzzle.Program, params Params) (*puzzle.Program, error) {
	c := &Call{reg: r, DB: db}
	return c.Solve(prog, params)
}

// Call threads the registry, the puzzle index and the recursion depth
// through nested builders.
type Call struct {
	reg   *Registry
	DB    *puzzle.DB
	depth int
}

func (c *Call) Solve(prog *puzzle.Program, params Params) (*puzzle.Program, error) {
	if c.depth >= maxDepth {
		return nil, ErrSolveDepth
	}
	h := prog.TreeHash()
	var args []*puzzle.Program
	c.reg.mu.RLock()
	builder, ok := c.reg.byHash[h]
	c.reg.mu.RUnlock()
	if !ok {
		template, curryArgs, isCurry := puzzle.Uncurry(prog)
		if isCurry {
			th := template.TreeHash()
			c.reg.mu.RLock()
			builder, ok = c.reg.byHash[th]
			c.reg.mu.RUnlock()
			args = curryArgs
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSolver, h)
	}
	inner := &Call{reg: c.reg, DB: c.DB, depth: c.depth + 1}
	return builder(inner, args, params)
}
