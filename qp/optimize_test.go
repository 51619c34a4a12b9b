package qp_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MichaelWang1028/gtsam/core"
	"github.com/MichaelWang1028/gtsam/qp"
)

// OptimizeSuite drives full active-set solves on the reference problems.
type OptimizeSuite struct {
	suite.Suite
}

// TestInequalityConstrained solves the reference QP from the origin:
// the minimizer sits on x1 + x2 = 2 at (1.5, 0.5).
func (s *OptimizeSuite) TestInequalityConstrained() {
	solver, err := qp.NewSolver(inequalityQP(s.T()))
	require.NoError(s.T(), err)

	initial := point(s.T(), 0, 0)
	x, err := solver.Optimize(initial)
	require.NoError(s.T(), err)
	require.True(s.T(), x.Equals(point(s.T(), 1.5, 0.5), 1e-9))
	require.True(s.T(), initial.Equals(point(s.T(), 0, 0), 0), "initial point must not be mutated")
}

// TestStartAtOptimum verifies a warm start converges without drifting.
func (s *OptimizeSuite) TestStartAtOptimum() {
	solver, err := qp.NewSolver(inequalityQP(s.T()))
	require.NoError(s.T(), err)

	x, err := solver.Optimize(point(s.T(), 1.5, 0.5))
	require.NoError(s.T(), err)
	require.True(s.T(), x.Equals(point(s.T(), 1.5, 0.5), 1e-9))
}

// TestEqualityConstrained solves min x1² + x2² s.t. x1 + x2 = 1 → (0.5, 0.5).
func (s *OptimizeSuite) TestEqualityConstrained() {
	solver, err := qp.NewSolver(equalityQP(s.T()))
	require.NoError(s.T(), err)

	x, err := solver.Optimize(point(s.T(), 1, 1))
	require.NoError(s.T(), err)
	require.True(s.T(), x.Equals(point(s.T(), 0.5, 0.5), 1e-9))
}

// TestUnconstrainedGraph verifies a graph with no constraint factors reduces
// to one linear solve: the free minimizer (2, 1).
func (s *OptimizeSuite) TestUnconstrainedGraph() {
	g := inequalityQP(s.T())
	free := core.NewFactorGraph()
	obj, err := g.At(0)
	require.NoError(s.T(), err)
	require.NoError(s.T(), free.Add(obj))

	solver, err := qp.NewSolver(free)
	require.NoError(s.T(), err)
	x, err := solver.Optimize(point(s.T(), 0, 0))
	require.NoError(s.T(), err)
	require.True(s.T(), x.Equals(point(s.T(), 2, 1), 1e-9))
}

// TestPointValidation discriminates missing keys from unknown keys.
func (s *OptimizeSuite) TestPointValidation() {
	solver, err := qp.NewSolver(inequalityQP(s.T()))
	require.NoError(s.T(), err)

	short := core.NewVectorValues()
	require.NoError(s.T(), short.Insert("x1", core.Vec(0)))
	_, err = solver.Optimize(short)
	require.ErrorIs(s.T(), err, qp.ErrIncompletePoint)

	extra := point(s.T(), 0, 0)
	require.NoError(s.T(), extra.Insert("x3", core.Vec(0)))
	_, err = solver.Optimize(extra)
	require.ErrorIs(s.T(), err, qp.ErrUnknownKey)

	_, err = solver.Optimize(nil)
	require.ErrorIs(s.T(), err, qp.ErrIncompletePoint)
}

// TestIterationLimit verifies an exhausted budget is reported as its own
// condition, distinct from a singular subproblem.
func (s *OptimizeSuite) TestIterationLimit() {
	solver, err := qp.NewSolver(inequalityQP(s.T()),
		qp.WithMaxIterations(1), qp.WithIterationsPerInequality(0))
	require.NoError(s.T(), err)

	_, err = solver.Optimize(point(s.T(), 0, 0))
	require.ErrorIs(s.T(), err, qp.ErrIterationLimit)
	require.NotErrorIs(s.T(), err, qp.ErrSingularSubproblem)
}

// TestConcurrentOptimize runs independent solves on one Solver.
func (s *OptimizeSuite) TestConcurrentOptimize() {
	solver, err := qp.NewSolver(inequalityQP(s.T()))
	require.NoError(s.T(), err)

	var wg sync.WaitGroup
	results := make([]*core.VectorValues, 8)
	errs := make([]error, 8)
	for i := range results {
		initial := point(s.T(), 0, 0)
		wg.Add(1)
		go func(i int, initial *core.VectorValues) {
			defer wg.Done()
			results[i], errs[i] = solver.Optimize(initial)
		}(i, initial)
	}
	wg.Wait()

	want := point(s.T(), 1.5, 0.5)
	for i := range results {
		require.NoError(s.T(), errs[i])
		require.True(s.T(), results[i].Equals(want, 1e-9), "goroutine %d", i)
	}
}

func TestOptimizeSuite(t *testing.T) {
	suite.Run(t, new(OptimizeSuite))
}
