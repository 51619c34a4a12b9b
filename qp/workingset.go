package qp

import (
	"fmt"
	"sort"

	"github.com/MichaelWang1028/gtsam/core"
)

// WorkingSet is the subset of constraint rows currently enforced as
// equalities: all equality rows (permanent members) plus whichever
// inequality rows the iteration has activated. It is solver-owned mutable
// state — the original graph is never touched — and must be confined to one
// solve invocation.
type WorkingSet struct {
	s      *Solver
	active map[int]map[int]struct{} // factor index → active row set
}

// NewWorkingSet returns the initial working set for one solve: every
// equality row active, no inequality rows active.
func (s *Solver) NewWorkingSet() *WorkingSet {
	w := &WorkingSet{s: s, active: make(map[int]map[int]struct{})}
	for _, i := range s.consIdx {
		c := s.constraints[i]
		for r := 0; r < c.Rows(); r++ {
			if c.Kind(r) == core.RowEquality {
				w.add(i, r)
			}
		}
	}

	return w
}

// Contains reports whether row r of constraint factor f is active.
func (w *WorkingSet) Contains(f, r int) bool {
	rows, ok := w.active[f]
	if !ok {
		return false
	}
	_, in := rows[r]

	return in
}

// Add activates row r of constraint factor f. Adding an already-active row
// is a no-op. Returns ErrRowOutOfRange when (f, r) does not name a
// constraint row of the graph.
func (w *WorkingSet) Add(f, r int) error {
	if err := w.check(f, r); err != nil {
		return err
	}
	w.add(f, r)

	return nil
}

// Remove deactivates inequality row r of constraint factor f.
// Equality rows never leave the working set: ErrEqualityRowImmutable.
// Returns ErrRowOutOfRange when (f, r) does not name a constraint row.
func (w *WorkingSet) Remove(f, r int) error {
	if err := w.check(f, r); err != nil {
		return err
	}
	if w.s.constraints[f].Kind(r) == core.RowEquality {
		return ErrEqualityRowImmutable
	}
	if rows, ok := w.active[f]; ok {
		delete(rows, r)
		if len(rows) == 0 {
			delete(w.active, f)
		}
	}

	return nil
}

// ActiveRows returns the active rows of constraint factor f in ascending
// order; nil when none are active.
func (w *WorkingSet) ActiveRows(f int) []int {
	rows, ok := w.active[f]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(rows))
	for r := range rows {
		out = append(out, r)
	}
	sort.Ints(out)

	return out
}

// Size returns the total number of active rows.
func (w *WorkingSet) Size() int {
	var n int
	for _, rows := range w.active {
		n += len(rows)
	}

	return n
}

func (w *WorkingSet) add(f, r int) {
	rows, ok := w.active[f]
	if !ok {
		rows = make(map[int]struct{})
		w.active[f] = rows
	}
	rows[r] = struct{}{}
}

func (w *WorkingSet) check(f, r int) error {
	c, ok := w.s.constraints[f]
	if !ok {
		return fmt.Errorf("%w: factor %d is not a constraint", ErrRowOutOfRange, f)
	}
	if r < 0 || r >= c.Rows() {
		return fmt.Errorf("%w: factor %d row %d", ErrRowOutOfRange, f, r)
	}

	return nil
}
