package puzzle

// Evaluator runs a committed program against a solution. It is owned by
// the script-interpreter collaborator; this package only defines the
// contract. maxCost 0 means unlimited.
type Evaluator interface {
	Evaluate(prog, solution *Program, maxCost uint64) (cost uint64, result *Program, err error)
}

// EvalError is the interpreter's catch-all failure: an opaque
// diagnostic the core passes through unchanged.
type EvalError struct {
	Diag string
}

func (e *EvalError) Error() string {
	return "evaluation failed: " + e.Diag
}

// QuoteEvaluator evaluates only quoted programs (q . result), the form
// used by constant-condition puzzles. Anything else fails.
type QuoteEvaluator struct{}

func (QuoteEvaluator) Evaluate(prog, solution *Program, maxCost uint64) (uint64, *Program, error) {
	if result, ok := quoted(prog); ok {
		return 1, result, nil
	}
	return 0, nil, &EvalError{Diag: "program is not quoted"}
}
