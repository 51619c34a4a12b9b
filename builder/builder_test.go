package builder_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/MichaelWang1028/gtsam/builder"
	"github.com/MichaelWang1028/gtsam/core"
)

// TestBuilder_RoundTrip verifies the chained build produces the same graph as
// direct core construction.
func TestBuilder_RoundTrip(t *testing.T) {
	got, err := builder.New().
		Quadratic([]core.Key{"x1", "x2"},
			[][]float64{{2, -1}, {-1, 2}}, []float64{3, 0}, 10).
		Constraints([]core.Key{"x1", "x2"},
			[][]float64{{1, 1}}, []float64{2},
			[]core.RowKind{core.RowInequality}).
		Graph()
	if err != nil {
		t.Fatalf("Graph error: %v", err)
	}

	want := core.NewFactorGraph()
	h, err := core.NewHessianFactor2("x1", "x2",
		mat.NewDense(1, 1, []float64{2}),
		mat.NewDense(1, 1, []float64{-1}),
		core.Vec(3),
		mat.NewDense(1, 1, []float64{2}),
		core.Vec(0),
		10)
	if err != nil {
		t.Fatalf("NewHessianFactor2 error: %v", err)
	}
	j, err := core.NewJacobianFactor2(
		"x1", mat.NewDense(1, 1, []float64{1}),
		"x2", mat.NewDense(1, 1, []float64{1}),
		core.Vec(2),
		[]core.RowKind{core.RowInequality})
	if err != nil {
		t.Fatalf("NewJacobianFactor2 error: %v", err)
	}
	_ = want.Add(h)
	_ = want.Add(j)

	if !got.Equals(want, 1e-12) {
		t.Errorf("built graph differs from direct construction")
	}
}

// TestBuilder_ShapeErrors verifies first-error-wins reporting.
func TestBuilder_ShapeErrors(t *testing.T) {
	cases := []struct {
		name  string
		build func() (*core.FactorGraph, error)
		want  error
	}{
		{"QuadraticRaggedG", func() (*core.FactorGraph, error) {
			return builder.New().
				Quadratic([]core.Key{"x1", "x2"},
					[][]float64{{2, -1}}, []float64{3, 0}, 0).
				Graph()
		}, builder.ErrShape},
		{"QuadraticShortLinear", func() (*core.FactorGraph, error) {
			return builder.New().
				Quadratic([]core.Key{"x1", "x2"},
					[][]float64{{2, -1}, {-1, 2}}, []float64{3}, 0).
				Graph()
		}, builder.ErrShape},
		{"ConstraintsRaggedA", func() (*core.FactorGraph, error) {
			return builder.New().
				Constraints([]core.Key{"x1", "x2"},
					[][]float64{{1}}, []float64{2},
					[]core.RowKind{core.RowEquality}).
				Graph()
		}, builder.ErrShape},
		{"ConstraintsTagCount", func() (*core.FactorGraph, error) {
			return builder.New().
				Constraints([]core.Key{"x1"},
					[][]float64{{1}}, []float64{2}, nil).
				Graph()
		}, builder.ErrShape},
		{"Empty", func() (*core.FactorGraph, error) {
			return builder.New().Graph()
		}, builder.ErrEmptyGraph},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); !errors.Is(err, tc.want) {
				t.Errorf("error = %v; want %v", err, tc.want)
			}
		})
	}
}

// TestBuilder_FirstErrorWins verifies a later valid call cannot mask an
// earlier failure.
func TestBuilder_FirstErrorWins(t *testing.T) {
	_, err := builder.New().
		Quadratic([]core.Key{"x1"}, [][]float64{{2, 0}}, []float64{0}, 0).
		Quadratic([]core.Key{"x1"}, [][]float64{{2}}, []float64{0}, 0).
		Graph()
	if !errors.Is(err, builder.ErrShape) {
		t.Errorf("error = %v; want ErrShape", err)
	}
}

// TestBuilder_CoreErrorsSurface verifies core construction errors pass through
// unchanged.
func TestBuilder_CoreErrorsSurface(t *testing.T) {
	_, err := builder.New().
		Quadratic([]core.Key{"x1", "x1"},
			[][]float64{{2, 0}, {0, 2}}, []float64{0, 0}, 0).
		Graph()
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("error = %v; want core.ErrDuplicateKey", err)
	}
}
