package render

import (
	"math"
	"testing"
)

func TestDepthBufferSetAt(t *testing.T) {
	db := NewDepthBuffer(4, 3)

	if got := db.At(2, 1); !math.IsInf(got, 1) {
		t.Fatalf("fresh buffer At(2, 1) = %v, want +Inf", got)
	}

	db.Set(2, 1, 0.5)
	db.Set(3, 2, 0.25)
	if got := db.At(2, 1); got != 0.5 {
		t.Errorf("At(2, 1) = %v, want 0.5", got)
	}
	if got := db.Depth[2*4+3]; got != 0.25 {
		t.Errorf("Depth[11] = %v, want 0.25", got)
	}

	outside := [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 3}}
	for _, p := range outside {
		db.Set(p[0], p[1], 0)
		if got := db.At(p[0], p[1]); !math.IsInf(got, 1) {
			t.Errorf("At(%d, %d) = %v, want +Inf", p[0], p[1], got)
		}
	}
	for i, z := range db.Depth {
		if i == 1*4+2 || i == 2*4+3 {
			continue
		}
		if !math.IsInf(z, 1) {
			t.Errorf("Depth[%d] = %v after out-of-bounds writes, want +Inf", i, z)
		}
	}

	db.Clear()
	for i, z := range db.Depth {
		if !math.IsInf(z, 1) {
			t.Errorf("Depth[%d] = %v after Clear, want +Inf", i, z)
		}
	}
}
