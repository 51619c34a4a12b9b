// Package qp implements an active-set solver for convex Quadratic Programs
// encoded as constrained factor graphs (see package core).
//
// # Method
//
// The solver maintains a working set: the subset of inequality rows currently
// enforced as equalities (equality rows are permanent members). Each Iterate
// call performs one step of the standard active-set method:
//
//  1. Solve the equality-restricted subproblem — the full quadratic objective
//     plus every working-set row as a hard equality — via core's KKT solve.
//  2. If the minimizer coincides with the current point, compute Lagrange
//     multipliers from the dual graph. A positive multiplier on an active
//     inequality row means dropping that row improves the objective: remove
//     the worst one (most positive λ; ties to the lowest factor, then lowest
//     row index) and report not converged. No positive multiplier means the
//     point is a KKT point: report converged.
//  3. Otherwise move toward the minimizer with the longest step that keeps
//     every inactive inequality row feasible; if a row blocks before a full
//     step, it joins the working set. Report not converged.
//
// A call either moves the point or shrinks the working set, never both —
// the alternation the active-set convergence argument relies on.
//
// Optimize drives Iterate from an initial point until convergence, bounded by
// an iteration cap proportional to the total inequality row count.
//
// # Duals
//
// BuildDualGraph constructs an auxiliary factor graph over one multiplier
// vector per constraint factor (keyed DualKey(i), one scalar per active row)
// from the stationarity condition ∇f(x) = Aᵂᵀλ restricted to the working
// set. Solving it with the same core solve yields the multipliers.
//
// # Errors
//
//	ErrNilGraph             - NewSolver(nil).
//	ErrMalformedConstraint  - constraint factor with zero rows or mixed
//	                          soft/hard rows (construction, never recovered).
//	ErrUnknownKey           - the initial point assigns a key absent from the graph.
//	ErrIncompletePoint      - the initial point misses a graph key.
//	ErrSingularSubproblem   - the restricted subproblem or dual system has no
//	                          unique solution (structurally unsolvable working set).
//	ErrIterationLimit       - the active-set loop exceeded its budget
//	                          (cycling or degenerate constraints), reported
//	                          distinctly from singularity.
//	ErrEqualityRowImmutable - attempt to remove an equality row from the
//	                          working set.
//	ErrRowOutOfRange        - a (factor, row) pair outside the constraint
//	                          structure of the graph.
//
// # Concurrency
//
// A Solver is read-only after NewSolver. Concurrent Optimize calls are safe:
// each owns its working set and point clone. Iterate mutates its arguments
// in place and must be confined to one goroutine per (working set, point)
// pair.
package qp
