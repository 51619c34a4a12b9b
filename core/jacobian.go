package core

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobianFactor is a batch of affine rows aᵣᵀx − bᵣ over an ordered scope of
// keys, stored as one coefficient block per key (rows × dim(key)) plus a
// right-hand-side vector. Every row carries its own RowKind tag:
// least-squares rows contribute 0.5·(aᵣᵀx − bᵣ)² to the objective, equality
// and inequality rows are hard constraints.
//
// Like HessianFactor, a JacobianFactor is immutable after construction.
type JacobianFactor struct {
	keys  []Key
	dims  []int
	a     []*mat.Dense
	b     *mat.VecDense
	kinds []RowKind
}

// NewJacobianFactor builds an affine factor over keys with one coefficient
// block per key, right-hand side b, and one RowKind per row. All blocks must
// share the row count len(b) == len(kinds) ≥ 1.
//
// Returns ErrMalformedConstraint on zero rows or a tag slice of the wrong
// length, ErrDimensionMismatch on inconsistent block shapes.
func NewJacobianFactor(keys []Key, a []*mat.Dense, b *mat.VecDense, kinds []RowKind) (*JacobianFactor, error) {
	if err := validateScope(keys); err != nil {
		return nil, err
	}
	if len(a) != len(keys) {
		return nil, ErrDimensionMismatch
	}
	if b == nil || b.Len() == 0 {
		return nil, ErrMalformedConstraint
	}
	rows := b.Len()
	if len(kinds) != rows {
		return nil, ErrMalformedConstraint
	}

	dims := make([]int, len(keys))
	aCp := make([]*mat.Dense, len(keys))
	for i, blk := range a {
		if blk == nil {
			return nil, ErrDimensionMismatch
		}
		r, c := blk.Dims()
		if r != rows || c == 0 {
			return nil, ErrDimensionMismatch
		}
		dims[i] = c
		aCp[i] = mat.DenseCopyOf(blk)
	}

	return &JacobianFactor{
		keys:  append([]Key(nil), keys...),
		dims:  dims,
		a:     aCp,
		b:     mat.VecDenseCopyOf(b),
		kinds: append([]RowKind(nil), kinds...),
	}, nil
}

// NewJacobianFactor2 builds a two-variable affine factor from per-key blocks
// A1, A2 and right-hand side b.
func NewJacobianFactor2(k1 Key, a1 *mat.Dense, k2 Key, a2 *mat.Dense, b *mat.VecDense, kinds []RowKind) (*JacobianFactor, error) {
	return NewJacobianFactor([]Key{k1, k2}, []*mat.Dense{a1, a2}, b, kinds)
}

// Keys returns a copy of the factor's ordered scope.
func (j *JacobianFactor) Keys() []Key { return append([]Key(nil), j.keys...) }

// Dim returns the dimension of the i-th key in the scope.
func (j *JacobianFactor) Dim(i int) int { return j.dims[i] }

// Rows returns the number of affine rows.
func (j *JacobianFactor) Rows() int { return j.b.Len() }

// Kind returns the tag of row r.
func (j *JacobianFactor) Kind(r int) RowKind { return j.kinds[r] }

// IsConstraint reports whether any row is a hard equality or inequality.
func (j *JacobianFactor) IsConstraint() bool {
	for _, k := range j.kinds {
		if k.IsConstraint() {
			return true
		}
	}

	return false
}

// Block returns the coefficient block for scope position i.
// The returned matrix is internal storage and must not be modified.
func (j *JacobianFactor) Block(i int) *mat.Dense { return j.a[i] }

// RHS returns the right-hand-side vector.
// The returned vector is internal storage and must not be modified.
func (j *JacobianFactor) RHS() *mat.VecDense { return j.b }

// RowDot evaluates row r at the point x: aᵣᵀx − bᵣ.
// Returns ErrFactorOutOfRange for a bad row index, ErrUnknownKey if x does
// not assign every key in scope.
func (j *JacobianFactor) RowDot(r int, x *VectorValues) (float64, error) {
	if r < 0 || r >= j.Rows() {
		return 0, ErrFactorOutOfRange
	}
	sum := -j.b.AtVec(r)
	for i, k := range j.keys {
		v, ok := x.At(k)
		if !ok {
			return 0, ErrUnknownKey
		}
		if v.Len() != j.dims[i] {
			return 0, ErrDimensionMismatch
		}
		for c := 0; c < j.dims[i]; c++ {
			sum += j.a[i].At(r, c) * v.AtVec(c)
		}
	}

	return sum, nil
}

// Error evaluates the residual energy 0.5·‖Ax − b‖² across all rows at x,
// regardless of row tags. Constraint rows therefore report their violation.
func (j *JacobianFactor) Error(x *VectorValues) (float64, error) {
	var e float64
	for r := 0; r < j.Rows(); r++ {
		d, err := j.RowDot(r, x)
		if err != nil {
			return 0, err
		}
		e += 0.5 * d * d
	}

	return e, nil
}

// Gradient evaluates the gradient of the least-squares rows at x,
// Σᵣ aᵣ·(aᵣᵀx − bᵣ) over rows tagged RowLeastSquares, one vector per key.
// Hard rows contribute nothing: their influence enters through multipliers.
func (j *JacobianFactor) Gradient(x *VectorValues) (*VectorValues, error) {
	resid := make([]float64, j.Rows())
	for r := range resid {
		if j.kinds[r] != RowLeastSquares {
			continue
		}
		d, err := j.RowDot(r, x)
		if err != nil {
			return nil, err
		}
		resid[r] = d
	}

	grad := NewVectorValues()
	for i, k := range j.keys {
		gi := mat.NewVecDense(j.dims[i], nil)
		for r := 0; r < j.Rows(); r++ {
			if j.kinds[r] != RowLeastSquares {
				continue
			}
			for c := 0; c < j.dims[i]; c++ {
				gi.SetVec(c, gi.AtVec(c)+j.a[i].At(r, c)*resid[r])
			}
		}
		if err := grad.Insert(k, gi); err != nil {
			return nil, err
		}
	}

	return grad, nil
}

// Equals reports whether o is a JacobianFactor with the same scope, tags and
// coefficients agreeing element-wise within the absolute tolerance tol.
func (j *JacobianFactor) Equals(o Factor, tol float64) bool {
	other, ok := o.(*JacobianFactor)
	if !ok || len(other.keys) != len(j.keys) || other.Rows() != j.Rows() {
		return false
	}
	for i, k := range j.keys {
		if other.keys[i] != k || other.dims[i] != j.dims[i] {
			return false
		}
	}
	for r, k := range j.kinds {
		if other.kinds[r] != k {
			return false
		}
	}
	for i := range j.a {
		if !mat.EqualApprox(j.a[i], other.a[i], tol) {
			return false
		}
	}
	for r := 0; r < j.Rows(); r++ {
		if math.Abs(j.b.AtVec(r)-other.b.AtVec(r)) > tol {
			return false
		}
	}

	return true
}
