package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// VectorValues is a total assignment from variable keys to vector values —
// the primal point of a factor-graph QP. The zero value is not usable;
// construct with NewVectorValues.
//
// A VectorValues is exclusively owned by one solve invocation: methods that
// mutate (Insert, MoveToward) are not safe for concurrent use.
type VectorValues struct {
	vals map[Key]*mat.VecDense
}

// NewVectorValues returns an empty assignment.
func NewVectorValues() *VectorValues {
	return &VectorValues{vals: make(map[Key]*mat.VecDense)}
}

// Vec is a convenience constructor for a dense vector literal.
func Vec(vals ...float64) *mat.VecDense {
	return mat.NewVecDense(len(vals), append([]float64(nil), vals...))
}

// Insert assigns value x to key k. The vector is stored by reference;
// callers must not alias it afterwards.
//
// Returns ErrEmptyKey for the empty key and ErrDuplicateKey if k is already
// assigned.
func (v *VectorValues) Insert(k Key, x *mat.VecDense) error {
	if k == "" {
		return ErrEmptyKey
	}
	if _, ok := v.vals[k]; ok {
		return ErrDuplicateKey
	}
	v.vals[k] = x

	return nil
}

// At returns the value assigned to k, or (nil, false) when k is unassigned.
func (v *VectorValues) At(k Key) (*mat.VecDense, bool) {
	x, ok := v.vals[k]

	return x, ok
}

// Has reports whether k is assigned.
func (v *VectorValues) Has(k Key) bool {
	_, ok := v.vals[k]

	return ok
}

// Len returns the number of assigned keys.
func (v *VectorValues) Len() int { return len(v.vals) }

// Keys returns all assigned keys in ascending order.
func (v *VectorValues) Keys() []Key {
	keys := make([]Key, 0, len(v.vals))
	for k := range v.vals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// Clone returns a deep copy of the assignment.
func (v *VectorValues) Clone() *VectorValues {
	out := NewVectorValues()
	for k, x := range v.vals {
		out.vals[k] = mat.VecDenseCopyOf(x)
	}

	return out
}

// MoveToward moves every value the fraction alpha of the way toward the
// corresponding value in target: vₖ ← vₖ + alpha·(tₖ − vₖ).
//
// Returns ErrUnknownKey when target does not assign exactly the same keys,
// ErrDimensionMismatch on differing vector lengths.
func (v *VectorValues) MoveToward(target *VectorValues, alpha float64) error {
	if len(target.vals) != len(v.vals) {
		return ErrUnknownKey
	}
	for k, x := range v.vals {
		t, ok := target.vals[k]
		if !ok {
			return ErrUnknownKey
		}
		if t.Len() != x.Len() {
			return ErrDimensionMismatch
		}
		// vₖ += α(tₖ − vₖ), element-wise.
		for i := 0; i < x.Len(); i++ {
			x.SetVec(i, x.AtVec(i)+alpha*(t.AtVec(i)-x.AtVec(i)))
		}
	}

	return nil
}

// Equals reports whether v and o assign the same keys to vectors that agree
// element-wise within the absolute tolerance tol.
func (v *VectorValues) Equals(o *VectorValues, tol float64) bool {
	if o == nil || len(v.vals) != len(o.vals) {
		return false
	}
	for k, x := range v.vals {
		y, ok := o.vals[k]
		if !ok || y.Len() != x.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if math.Abs(x.AtVec(i)-y.AtVec(i)) > tol {
				return false
			}
		}
	}

	return true
}
