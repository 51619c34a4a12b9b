package core

import "errors"

// Sentinel errors for factor and graph construction and evaluation.
var (
	// ErrEmptyKey indicates that a factor scope or assignment used the empty key.
	ErrEmptyKey = errors.New("core: variable key is empty")

	// ErrDuplicateKey indicates an Insert over a key that is already assigned,
	// or a factor scope naming the same key twice.
	ErrDuplicateKey = errors.New("core: duplicate variable key")

	// ErrUnknownKey indicates an evaluation referenced a key the point does not assign.
	ErrUnknownKey = errors.New("core: unknown variable key")

	// ErrDimensionMismatch indicates block shapes disagree with key dimensions.
	ErrDimensionMismatch = errors.New("core: dimension mismatch")

	// ErrMalformedConstraint indicates a constraint factor with zero rows or an
	// inconsistent per-row tag slice.
	ErrMalformedConstraint = errors.New("core: malformed constraint factor")

	// ErrFactorOutOfRange indicates a factor index outside the graph.
	ErrFactorOutOfRange = errors.New("core: factor index out of range")

	// ErrNilFactor indicates a nil factor was added to a graph.
	ErrNilFactor = errors.New("core: nil factor")

	// ErrUnsupportedFactor indicates a factor payload the dense assembly
	// does not understand.
	ErrUnsupportedFactor = errors.New("core: unsupported factor type")

	// ErrSingularSystem indicates the assembled KKT system has no unique solution.
	ErrSingularSystem = errors.New("core: linear system is singular")
)

// Key uniquely identifies one vector-valued unknown within a graph.
// Keys are unordered as a set; the linear solve gives them a canonical
// evaluation order by sorting.
type Key string

// RowKind tags one row of a JacobianFactor. The tag is assigned at
// construction and immutable for the lifetime of the factor.
type RowKind uint8

const (
	// RowLeastSquares marks a soft row: 0.5·(aᵀx − b)² joins the objective.
	RowLeastSquares RowKind = iota

	// RowEquality marks a hard row: aᵀx − b = 0.
	RowEquality

	// RowInequality marks a hard row: aᵀx − b ≤ 0.
	RowInequality
)

// IsConstraint reports whether the row is a hard equality or inequality.
func (k RowKind) IsConstraint() bool { return k == RowEquality || k == RowInequality }

// String returns a human-readable tag name.
func (k RowKind) String() string {
	switch k {
	case RowLeastSquares:
		return "least-squares"
	case RowEquality:
		return "equality"
	case RowInequality:
		return "inequality"
	default:
		return "unknown"
	}
}
