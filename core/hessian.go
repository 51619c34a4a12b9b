package core

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// HessianFactor is one quadratic term of the objective,
//
//	E(x) = 0.5·xᵀGx − gᵀx + 0.5·f
//
// over an ordered scope of keys. G is stored as its packed upper triangle of
// per-pair blocks; g as one linear-term vector per key; f is a scalar offset.
// Multiple HessianFactors over shared keys sum to the full objective.
//
// A HessianFactor is immutable after construction: constructors deep-copy
// every block, and accessors return internal storage that must be treated as
// read-only.
type HessianFactor struct {
	keys     []Key
	dims     []int
	blocks   []*mat.Dense // packed upper triangle: (0,0),(0,1)…(0,n−1),(1,1)…
	lin      []*mat.VecDense
	constant float64
}

// blockIndex maps an upper-triangular pair (i ≤ j) into packed storage.
func blockIndex(n, i, j int) int { return i*n - i*(i-1)/2 + (j - i) }

// NewHessianFactor builds a quadratic factor over keys with the packed upper
// triangle of curvature blocks, one linear-term vector per key, and scalar
// offset f. Key dimensions are taken from the linear terms; block (i,j) must
// be dims[i]×dims[j].
//
// Returns ErrEmptyKey, ErrDuplicateKey or ErrDimensionMismatch on malformed
// input.
func NewHessianFactor(keys []Key, upper []*mat.Dense, lin []*mat.VecDense, f float64) (*HessianFactor, error) {
	n := len(keys)
	if err := validateScope(keys); err != nil {
		return nil, err
	}
	if len(lin) != n || len(upper) != n*(n+1)/2 {
		return nil, ErrDimensionMismatch
	}

	dims := make([]int, n)
	linCp := make([]*mat.VecDense, n)
	for i, g := range lin {
		if g == nil || g.Len() == 0 {
			return nil, ErrDimensionMismatch
		}
		dims[i] = g.Len()
		linCp[i] = mat.VecDenseCopyOf(g)
	}

	blocks := make([]*mat.Dense, len(upper))
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			b := upper[blockIndex(n, i, j)]
			if b == nil {
				return nil, ErrDimensionMismatch
			}
			r, c := b.Dims()
			if r != dims[i] || c != dims[j] {
				return nil, ErrDimensionMismatch
			}
			blocks[blockIndex(n, i, j)] = mat.DenseCopyOf(b)
		}
	}

	return &HessianFactor{keys: append([]Key(nil), keys...), dims: dims, blocks: blocks, lin: linCp, constant: f}, nil
}

// NewHessianFactor1 builds a single-variable quadratic factor
// 0.5·xᵀGx − gᵀx + 0.5·f.
func NewHessianFactor1(k Key, G *mat.Dense, g *mat.VecDense, f float64) (*HessianFactor, error) {
	return NewHessianFactor([]Key{k}, []*mat.Dense{G}, []*mat.VecDense{g}, f)
}

// NewHessianFactor2 builds a two-variable quadratic factor
// 0.5·x1ᵀG11x1 + x1ᵀG12x2 + 0.5·x2ᵀG22x2 − g1ᵀx1 − g2ᵀx2 + 0.5·f.
func NewHessianFactor2(k1, k2 Key, G11, G12 *mat.Dense, g1 *mat.VecDense, G22 *mat.Dense, g2 *mat.VecDense, f float64) (*HessianFactor, error) {
	return NewHessianFactor([]Key{k1, k2}, []*mat.Dense{G11, G12, G22}, []*mat.VecDense{g1, g2}, f)
}

// Keys returns a copy of the factor's ordered scope.
func (h *HessianFactor) Keys() []Key { return append([]Key(nil), h.keys...) }

// Dim returns the dimension of the i-th key in the scope.
func (h *HessianFactor) Dim(i int) int { return h.dims[i] }

// Block returns the curvature block G(i,j) for scope positions i ≤ j.
// The returned matrix is internal storage and must not be modified.
func (h *HessianFactor) Block(i, j int) *mat.Dense {
	return h.blocks[blockIndex(len(h.keys), i, j)]
}

// Linear returns the linear-term vector g(i) for scope position i.
// The returned vector is internal storage and must not be modified.
func (h *HessianFactor) Linear(i int) *mat.VecDense { return h.lin[i] }

// Constant returns the scalar offset f.
func (h *HessianFactor) Constant() float64 { return h.constant }

// Error evaluates 0.5·xᵀGx − gᵀx + 0.5·f at the point x.
// Returns ErrUnknownKey if x does not assign every key in scope.
func (h *HessianFactor) Error(x *VectorValues) (float64, error) {
	vecs, err := h.scopeValues(x)
	if err != nil {
		return 0, err
	}

	e := 0.5 * h.constant
	for i := range h.keys {
		e -= mat.Dot(h.lin[i], vecs[i])
		for j := i; j < len(h.keys); j++ {
			var gx mat.VecDense
			gx.MulVec(h.Block(i, j), vecs[j])
			q := mat.Dot(vecs[i], &gx)
			if i == j {
				e += 0.5 * q
			} else {
				// off-diagonal blocks appear twice in the symmetric G
				e += q
			}
		}
	}

	return e, nil
}

// Gradient evaluates ∇E(x) = Gx − g at the point x, one vector per key in
// scope. Returns ErrUnknownKey if x does not assign every key in scope.
func (h *HessianFactor) Gradient(x *VectorValues) (*VectorValues, error) {
	vecs, err := h.scopeValues(x)
	if err != nil {
		return nil, err
	}

	grad := NewVectorValues()
	for i, k := range h.keys {
		gi := mat.NewVecDense(h.dims[i], nil)
		for j := range h.keys {
			var part mat.VecDense
			if j >= i {
				part.MulVec(h.Block(i, j), vecs[j])
			} else {
				part.MulVec(h.Block(j, i).T(), vecs[j])
			}
			gi.AddVec(gi, &part)
		}
		gi.SubVec(gi, h.lin[i])
		if err := grad.Insert(k, gi); err != nil {
			return nil, err
		}
	}

	return grad, nil
}

// Equals reports whether o is a HessianFactor with the same scope and blocks
// agreeing element-wise within the absolute tolerance tol.
func (h *HessianFactor) Equals(o Factor, tol float64) bool {
	other, ok := o.(*HessianFactor)
	if !ok || len(other.keys) != len(h.keys) {
		return false
	}
	for i, k := range h.keys {
		if other.keys[i] != k || other.dims[i] != h.dims[i] {
			return false
		}
	}
	if math.Abs(other.constant-h.constant) > tol {
		return false
	}
	for i := range h.lin {
		if !mat.EqualApprox(h.lin[i], other.lin[i], tol) {
			return false
		}
	}
	for i := range h.blocks {
		if !mat.EqualApprox(h.blocks[i], other.blocks[i], tol) {
			return false
		}
	}

	return true
}

// scopeValues gathers the assignments of the factor's keys from x.
func (h *HessianFactor) scopeValues(x *VectorValues) ([]*mat.VecDense, error) {
	vecs := make([]*mat.VecDense, len(h.keys))
	for i, k := range h.keys {
		v, ok := x.At(k)
		if !ok {
			return nil, ErrUnknownKey
		}
		if v.Len() != h.dims[i] {
			return nil, ErrDimensionMismatch
		}
		vecs[i] = v
	}

	return vecs, nil
}

// validateScope rejects empty and duplicate keys in a factor scope.
func validateScope(keys []Key) error {
	if len(keys) == 0 {
		return ErrEmptyKey
	}
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			return ErrEmptyKey
		}
		if _, dup := seen[k]; dup {
			return ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	return nil
}
