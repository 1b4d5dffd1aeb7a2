package solver

import (
	"fmt"

	"github.com/shruggr/singleton-indexer/puzzle"
)

// Params is the per-spend argument bag handed through every layer of a
// solve. Lookups are validated at use: absence and shape mismatches are
// caller errors, never recovered from.
type Params map[string]any

func (p Params) Hash32(key string) (puzzle.Hash, error) {
	v, ok := p[key]
	if !ok {
		return puzzle.Hash{}, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	h, ok := v.(puzzle.Hash)
	if !ok {
		return puzzle.Hash{}, fmt.Errorf("%w: %q must be a 32-byte hash, got %T", ErrWrongParameterType, key, v)
	}
	return h, nil
}

func (p Params) Uint64(key string) (uint64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	n, ok := v.(uint64)
	if !ok {
		return 0, fmt.Errorf("%w: %q must be a uint64, got %T", ErrWrongParameterType, key, v)
	}
	return n, nil
}

func (p Params) Int64(key string) (int64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: %q must be an int64, got %T", ErrWrongParameterType, key, v)
	}
	return n, nil
}

func (p Params) Str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrWrongParameterType, key, v)
	}
	return s, nil
}

func (p Params) Prog(key string) (*puzzle.Program, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	prog, ok := v.(*puzzle.Program)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a program, got %T", ErrWrongParameterType, key, v)
	}
	return prog, nil
}

func (p Params) Progs(key string) ([]*puzzle.Program, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	progs, ok := v.([]*puzzle.Program)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a program list, got %T", ErrWrongParameterType, key, v)
	}
	return progs, nil
}

// With copies p and adds overrides, leaving the caller's bag untouched.
func (p Params) With(overrides Params) Params {
	merged := make(Params, len(p)+len(overrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
