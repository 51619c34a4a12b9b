// Package gtsam is an in-process solver for convex Quadratic Programs
// expressed as sparse factor graphs — objective terms and linear constraints
// are factors over named vector variables, not rows of one dense matrix.
//
// 🚀 What does it solve?
//
//	minimize   Σ 0.5·xᵀGᵢx − gᵢᵀx + 0.5·fᵢ    (quadratic factors)
//	subject to  aᵣᵀx − bᵣ = 0                  (equality rows)
//	            aᵣᵀx − bᵣ ≤ 0                  (inequality rows)
//
// The solver runs the textbook active-set method: it repeatedly solves the
// equality-restricted subproblem for the current working set, takes the
// longest feasible step toward its minimizer, and grows or shrinks the
// working set using Lagrange multipliers until a KKT point is reached.
//
// Everything is organized under three subpackages:
//
//	core/    — Key, VectorValues, HessianFactor, JacobianFactor, FactorGraph
//	           and the elimination-style linear solve the QP core consumes
//	qp/      — constraint classification, dual-problem construction, the
//	           active-set iterator and the Optimize driver
//	builder/ — fluent construction of scalar-variable QPs for tests and demos
//
// All interaction is in-process function calls: no file format, no wire
// protocol, no CLI. Each solve is single-threaded and synchronous; a Solver
// is read-only after construction and may serve concurrent solves, each on
// its own working set and point.
package gtsam
