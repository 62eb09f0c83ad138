package render

import "math"

// DepthPolicy decides whether an incoming depth replaces the stored one.
type DepthPolicy int

const (
	// DepthLessOrEqual accepts ties, so the last triangle drawn wins.
	DepthLessOrEqual DepthPolicy = iota
	// DepthLess keeps the first triangle drawn at equal depth.
	DepthLess
)

// String returns the policy name.
func (p DepthPolicy) String() string {
	if p == DepthLess {
		return "less"
	}
	return "less-equal"
}

// ParseDepthPolicy maps "less" and "less-equal" to a policy.
func ParseDepthPolicy(s string) (DepthPolicy, bool) {
	switch s {
	case "less":
		return DepthLess, true
	case "less-equal", "less_equal", "":
		return DepthLessOrEqual, true
	}
	return DepthLessOrEqual, false
}

// Passes reports whether depth z wins over the stored value.
func (p DepthPolicy) Passes(z, stored float64) bool {
	if p == DepthLess {
		return z < stored
	}
	return z <= stored
}

// DepthBuffer holds one depth value per pixel, row-major.
type DepthBuffer struct {
	Width  int
	Height int
	Depth  []float64
}

// NewDepthBuffer creates a depth buffer cleared to +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	db.Clear()
	return db
}

// Clear resets every cell to +Inf (call before each frame).
func (db *DepthBuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(db.Depth)
	if n == 0 {
		return
	}
	db.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(db.Depth[i:], db.Depth[:i])
	}
}

// At returns the depth at (x, y), or +Inf out of bounds.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return math.Inf(1)
	}
	return db.Depth[y*db.Width+x]
}

// Set stores z at (x, y). Out-of-bounds writes are dropped.
func (db *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return
	}
	db.Depth[y*db.Width+x] = z
}
