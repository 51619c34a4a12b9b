// Package core defines the constrained factor graph the QP solver operates
// on: variable keys, vector-valued assignments, quadratic (Hessian) factors,
// affine (Jacobian) factors with per-row constraint tags, and the FactorGraph
// container with its linear solve.
//
// # Data model
//
//   - Key:           opaque identifier of one vector-valued unknown.
//   - VectorValues:  total assignment Key → vector (the primal point).
//   - HessianFactor: objective term 0.5·xᵀGx − gᵀx + 0.5·f over its scope.
//   - JacobianFactor: rows aᵣᵀx − bᵣ, each row independently tagged
//     RowLeastSquares, RowEquality or RowInequality.
//   - FactorGraph:   append-only ordered factor list; read-only once built.
//
// Row tags are an explicit enum rather than a sign convention on a noise
// weight: a row's tag is fixed at construction and immutable for the life of
// the factor. Anything that changes which inequality rows are enforced lives
// outside the graph, in the solver's working set.
//
// # Linear solve
//
// FactorGraph.Solve treats every factor as an unconstrained quadratic or a
// hard equality and returns the exact minimizer: least-squares rows fold into
// the quadratic part via normal equations, tagged rows become the equality
// block of a KKT system
//
//	⎡ G  Aᵀ ⎤ ⎡x⎤   ⎡g⎤
//	⎣ A  0  ⎦ ⎣ν⎦ = ⎣b⎦
//
// assembled over a deterministic sorted key → column index map and solved
// densely with gonum/mat. A singular system yields ErrSingularSystem.
//
// Complexity:
//
//   - Assembly: O(F·d²) over factor blocks of total dimension d.
//   - Solve:    O((n+m)³) dense LU for n variables and m equality rows.
//
// # Errors
//
//	ErrEmptyKey            - a factor or assignment names the empty key.
//	ErrDuplicateKey        - Insert over an already-assigned key.
//	ErrUnknownKey          - evaluation references a key absent from the point.
//	ErrDimensionMismatch   - block shapes disagree with key dimensions.
//	ErrMalformedConstraint - constraint factor with zero rows or bad tag slice.
//	ErrFactorOutOfRange    - factor index outside the graph.
//	ErrNilFactor           - Add(nil).
//	ErrUnsupportedFactor   - a factor type the dense assembly does not know.
//	ErrSingularSystem      - the KKT system has no unique solution.
package core
