package core

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Factor is the payload of one graph node: either a quadratic objective term
// (HessianFactor) or a batch of affine rows (JacobianFactor). The concrete
// kind is decided once, by the consumer's classification pass, not re-checked
// per access.
type Factor interface {
	// Keys returns the factor's ordered scope.
	Keys() []Key

	// Error evaluates the factor's energy at the point x.
	Error(x *VectorValues) (float64, error)

	// Gradient evaluates the factor's objective-gradient contribution at x.
	Gradient(x *VectorValues) (*VectorValues, error)

	// Equals compares against another factor within an absolute tolerance.
	Equals(o Factor, tol float64) bool
}

// FactorGraph is an append-only ordered collection of factors over shared
// variable keys. Once handed to a solver it is treated as read-only; all
// per-iteration mutation lives in solver-owned state.
type FactorGraph struct {
	factors []Factor
	dims    map[Key]int
}

// NewFactorGraph returns an empty graph.
func NewFactorGraph() *FactorGraph {
	return &FactorGraph{dims: make(map[Key]int)}
}

// Add appends a factor, preserving insertion order. A key seen by two factors
// must have the same dimension in both.
//
// Returns ErrNilFactor for nil, ErrDimensionMismatch on conflicting key
// dimensions.
func (g *FactorGraph) Add(f Factor) error {
	if f == nil {
		return ErrNilFactor
	}
	dimOf := func(i int) int {
		switch t := f.(type) {
		case *HessianFactor:
			return t.Dim(i)
		case *JacobianFactor:
			return t.Dim(i)
		}

		return -1
	}
	for i, k := range f.Keys() {
		d := dimOf(i)
		if prev, seen := g.dims[k]; seen && d >= 0 && prev != d {
			return ErrDimensionMismatch
		}
		if d >= 0 {
			g.dims[k] = d
		}
	}
	g.factors = append(g.factors, f)

	return nil
}

// Len returns the number of factors.
func (g *FactorGraph) Len() int { return len(g.factors) }

// At returns the factor at position i in insertion order.
func (g *FactorGraph) At(i int) (Factor, error) {
	if i < 0 || i >= len(g.factors) {
		return nil, ErrFactorOutOfRange
	}

	return g.factors[i], nil
}

// Keys returns the union of all factor scopes in ascending order.
func (g *FactorGraph) Keys() []Key {
	keys := make([]Key, 0, len(g.dims))
	for k := range g.dims {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// Dim returns the dimension of key k, or (0, false) when no factor names it.
func (g *FactorGraph) Dim(k Key) (int, bool) {
	d, ok := g.dims[k]

	return d, ok
}

// Error evaluates the summed energy of all factors at x.
func (g *FactorGraph) Error(x *VectorValues) (float64, error) {
	var total float64
	for _, f := range g.factors {
		e, err := f.Error(x)
		if err != nil {
			return 0, err
		}
		total += e
	}

	return total, nil
}

// Gradient evaluates the summed objective gradient of all factors at x,
// one vector per key in the graph.
func (g *FactorGraph) Gradient(x *VectorValues) (*VectorValues, error) {
	grad := NewVectorValues()
	for k, d := range g.dims {
		if err := grad.Insert(k, mat.NewVecDense(d, nil)); err != nil {
			return nil, err
		}
	}
	for _, f := range g.factors {
		part, err := f.Gradient(x)
		if err != nil {
			return nil, err
		}
		for _, k := range part.Keys() {
			pv, _ := part.At(k)
			gv, _ := grad.At(k)
			gv.AddVec(gv, pv)
		}
	}

	return grad, nil
}

// Equals reports whether o holds pairwise-equal factors in the same order,
// within the absolute tolerance tol.
func (g *FactorGraph) Equals(o *FactorGraph, tol float64) bool {
	if o == nil || len(o.factors) != len(g.factors) {
		return false
	}
	for i, f := range g.factors {
		if !f.Equals(o.factors[i], tol) {
			return false
		}
	}

	return true
}
