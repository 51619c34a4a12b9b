package core_test

import (
	"errors"
	"testing"

	"github.com/MichaelWang1028/gtsam/core"
)

// TestVectorValues_Insert verifies duplicate and empty-key rejection.
func TestVectorValues_Insert(t *testing.T) {
	v := core.NewVectorValues()
	if err := v.Insert("x1", core.Vec(1, 2)); err != nil {
		t.Fatalf("Insert(x1) error: %v", err)
	}
	if err := v.Insert("x1", core.Vec(3)); !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("Insert duplicate error = %v; want ErrDuplicateKey", err)
	}
	if err := v.Insert("", core.Vec(1)); !errors.Is(err, core.ErrEmptyKey) {
		t.Errorf("Insert empty key error = %v; want ErrEmptyKey", err)
	}
	if got := v.Len(); got != 1 {
		t.Errorf("Len = %d; want 1", got)
	}
}

// TestVectorValues_KeysSorted verifies canonical ascending key order.
func TestVectorValues_KeysSorted(t *testing.T) {
	v := core.NewVectorValues()
	for _, k := range []core.Key{"x2", "a", "x1"} {
		if err := v.Insert(k, core.Vec(0)); err != nil {
			t.Fatalf("Insert(%s) error: %v", k, err)
		}
	}
	keys := v.Keys()
	want := []core.Key{"a", "x1", "x2"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Keys = %v; want %v", keys, want)
		}
	}
}

// TestVectorValues_CloneIndependence verifies that a clone shares no storage.
func TestVectorValues_CloneIndependence(t *testing.T) {
	v := core.NewVectorValues()
	_ = v.Insert("x1", core.Vec(1))
	c := v.Clone()
	cx, _ := c.At("x1")
	cx.SetVec(0, 99)

	vx, _ := v.At("x1")
	if vx.AtVec(0) != 1 {
		t.Errorf("original mutated through clone: got %g; want 1", vx.AtVec(0))
	}
}

// TestVectorValues_MoveToward verifies the in-place blend vₖ ← vₖ + α(tₖ − vₖ).
func TestVectorValues_MoveToward(t *testing.T) {
	v := core.NewVectorValues()
	_ = v.Insert("x1", core.Vec(0))
	_ = v.Insert("x2", core.Vec(0))
	target := core.NewVectorValues()
	_ = target.Insert("x1", core.Vec(2))
	_ = target.Insert("x2", core.Vec(1))

	if err := v.MoveToward(target, 2.0/3.0); err != nil {
		t.Fatalf("MoveToward error: %v", err)
	}
	want := core.NewVectorValues()
	_ = want.Insert("x1", core.Vec(4.0/3.0))
	_ = want.Insert("x2", core.Vec(2.0/3.0))
	if !v.Equals(want, 1e-12) {
		t.Errorf("MoveToward result mismatch")
	}

	// key-set mismatch is ErrUnknownKey
	short := core.NewVectorValues()
	_ = short.Insert("x1", core.Vec(1))
	if err := v.MoveToward(short, 0.5); !errors.Is(err, core.ErrUnknownKey) {
		t.Errorf("MoveToward short target error = %v; want ErrUnknownKey", err)
	}
}

// TestVectorValues_Equals verifies tolerance semantics.
func TestVectorValues_Equals(t *testing.T) {
	a := core.NewVectorValues()
	_ = a.Insert("x1", core.Vec(1))
	b := core.NewVectorValues()
	_ = b.Insert("x1", core.Vec(1+1e-10))

	if !a.Equals(b, 1e-9) {
		t.Errorf("Equals within tolerance = false; want true")
	}
	if a.Equals(b, 1e-12) {
		t.Errorf("Equals beyond tolerance = true; want false")
	}
	if a.Equals(nil, 1e-9) {
		t.Errorf("Equals(nil) = true; want false")
	}
}
