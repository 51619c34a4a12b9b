// Package builder assembles constrained factor graphs for scalar-variable
// QPs without hand-building gonum blocks — the common shape in tests,
// examples and small models.
//
// Calls chain; the first error wins and is reported by Graph():
//
//	g, err := builder.New().
//	    Quadratic([]core.Key{"x1", "x2"},
//	        [][]float64{{2, -1}, {-1, 2}}, []float64{3, 0}, 10).
//	    Constraints([]core.Key{"x1", "x2"},
//	        [][]float64{{1, 1}}, []float64{2},
//	        []core.RowKind{core.RowInequality}).
//	    Graph()
//
// Every variable named here is one-dimensional. Multi-dimensional problems
// construct core factors directly.
//
// # Errors
//
//	ErrShape      - coefficient shapes disagree with the key list.
//	ErrEmptyGraph - Graph() on a builder with no factors.
//
// plus any core construction error, surfaced unchanged.
package builder
