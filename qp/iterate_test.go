package qp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MichaelWang1028/gtsam/qp"
)

// IterateSuite walks the active-set method step by step on the reference
// inequality-constrained problem, pinning the exact intermediate points.
type IterateSuite struct {
	suite.Suite

	solver *qp.Solver
	ws     *qp.WorkingSet
}

func (s *IterateSuite) SetupTest() {
	solver, err := qp.NewSolver(inequalityQP(s.T()))
	require.NoError(s.T(), err)
	s.solver = solver
	s.ws = solver.NewWorkingSet()
}

// TestTrace replays the canonical three-step run from the origin:
//
//	step 1: unconstrained minimizer (2, 1) blocked by x1 + x2 ≤ 2 at
//	        α = 2/3 → (4/3, 2/3), row 0 activated
//	step 2: restricted minimizer (1.5, 0.5) reached with a full step
//	step 3: zero step, λ(row 0) = −0.5 ≤ 0 → converged
func (s *IterateSuite) TestTrace() {
	x := point(s.T(), 0, 0)

	converged, err := s.solver.Iterate(s.ws, x)
	require.NoError(s.T(), err)
	require.False(s.T(), converged)
	require.True(s.T(), x.Equals(point(s.T(), 4.0/3.0, 2.0/3.0), 1e-9), "step 1 point")
	require.Equal(s.T(), []int{0}, s.ws.ActiveRows(1), "step 1 activates row 0")

	converged, err = s.solver.Iterate(s.ws, x)
	require.NoError(s.T(), err)
	require.False(s.T(), converged)
	require.True(s.T(), x.Equals(point(s.T(), 1.5, 0.5), 1e-9), "step 2 point")
	require.Equal(s.T(), []int{0}, s.ws.ActiveRows(1), "full step adds no row")

	converged, err = s.solver.Iterate(s.ws, x)
	require.NoError(s.T(), err)
	require.True(s.T(), converged)
	require.True(s.T(), x.Equals(point(s.T(), 1.5, 0.5), 1e-9), "converged point")
}

// TestConvergedIsStable verifies iterating past convergence changes nothing.
func (s *IterateSuite) TestConvergedIsStable() {
	x := point(s.T(), 0, 0)
	for i := 0; i < 3; i++ {
		_, err := s.solver.Iterate(s.ws, x)
		require.NoError(s.T(), err)
	}

	converged, err := s.solver.Iterate(s.ws, x)
	require.NoError(s.T(), err)
	require.True(s.T(), converged)
	require.True(s.T(), x.Equals(point(s.T(), 1.5, 0.5), 1e-9))
}

// TestDropStep verifies the drop branch: pinning −x1 ≤ 0 active at the origin
// makes the origin the restricted minimizer, but its multiplier λ = 3 is
// positive, so one iteration releases the row without moving the point.
func (s *IterateSuite) TestDropStep() {
	x := point(s.T(), 0, 0)
	require.NoError(s.T(), s.ws.Add(1, 1))

	converged, err := s.solver.Iterate(s.ws, x)
	require.NoError(s.T(), err)
	require.False(s.T(), converged)
	require.False(s.T(), s.ws.Contains(1, 1), "row 1 must be released")
	require.True(s.T(), x.Equals(point(s.T(), 0, 0), 1e-9), "drop step keeps the point")
}

// TestIncompletePoint verifies validation before any linear algebra runs.
func (s *IterateSuite) TestIncompletePoint() {
	_, err := s.solver.Iterate(s.ws, nil)
	require.ErrorIs(s.T(), err, qp.ErrIncompletePoint)
}

func TestIterateSuite(t *testing.T) {
	suite.Run(t, new(IterateSuite))
}
