package qp

import "errors"

// Sentinel errors returned by the QP solver. Tests discriminate the three
// fatal conditions of the design — malformed input, singular subproblem,
// exhausted iteration budget — via errors.Is on these values.
var (
	// ErrNilGraph indicates a nil factor graph was passed to NewSolver.
	ErrNilGraph = errors.New("qp: graph is nil")

	// ErrMalformedConstraint indicates a constraint factor with zero rows or
	// with least-squares rows mixed into a hard-constraint factor.
	ErrMalformedConstraint = errors.New("qp: malformed constraint factor")

	// ErrUnknownKey indicates the initial point assigns a key no factor names.
	ErrUnknownKey = errors.New("qp: point references unknown variable key")

	// ErrIncompletePoint indicates the point does not assign every key in the graph.
	ErrIncompletePoint = errors.New("qp: point must assign every variable in the graph")

	// ErrSingularSubproblem indicates the equality-restricted subproblem or
	// the dual system has no unique solution for the current working set.
	ErrSingularSubproblem = errors.New("qp: singular or infeasible subproblem")

	// ErrIterationLimit indicates the active-set loop failed to converge
	// within its iteration budget.
	ErrIterationLimit = errors.New("qp: iteration limit exceeded")

	// ErrEqualityRowImmutable indicates an attempt to remove an equality row
	// from the working set.
	ErrEqualityRowImmutable = errors.New("qp: equality rows never leave the working set")

	// ErrRowOutOfRange indicates a (factor, row) pair outside the constraint
	// structure of the graph.
	ErrRowOutOfRange = errors.New("qp: constraint row out of range")
)

// Defaults — single source of truth for Options zero behavior.
const (
	// DefaultEpsilon is the absolute tolerance used to detect a zero step and
	// to guard line-search divisions.
	DefaultEpsilon = 1e-9

	// DefaultMaxIterations is the flat part of the iteration budget.
	DefaultMaxIterations = 100

	// DefaultIterationsPerInequality scales the iteration budget with the
	// total inequality row count, the safe default of the design.
	DefaultIterationsPerInequality = 10
)

// Options configures one Solver. Zero values are replaced by the defaults
// above; construct via DefaultOptions and the With* functional options.
type Options struct {
	// Epsilon is the zero-step and feasibility tolerance.
	Epsilon float64

	// MaxIterations is the flat part of the Optimize iteration budget.
	MaxIterations int

	// IterationsPerInequality extends the budget by this many iterations per
	// inequality row in the graph.
	IterationsPerInequality int
}

// Option mutates Options. Constructors panic on nonsensical values:
// misconfiguration is a programmer error, not a runtime condition.
type Option func(*Options)

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{
		Epsilon:                 DefaultEpsilon,
		MaxIterations:           DefaultMaxIterations,
		IterationsPerInequality: DefaultIterationsPerInequality,
	}
}

// WithEpsilon overrides the zero-step tolerance. Panics if eps ≤ 0.
func WithEpsilon(eps float64) Option {
	if eps <= 0 {
		panic("qp: WithEpsilon requires eps > 0")
	}

	return func(o *Options) { o.Epsilon = eps }
}

// WithMaxIterations overrides the flat iteration budget. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("qp: WithMaxIterations requires n >= 1")
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithIterationsPerInequality overrides the per-inequality-row budget
// extension. Panics if n < 0.
func WithIterationsPerInequality(n int) Option {
	if n < 0 {
		panic("qp: WithIterationsPerInequality requires n >= 0")
	}

	return func(o *Options) { o.IterationsPerInequality = n }
}
