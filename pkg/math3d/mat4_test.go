package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecNear(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6 && math.Abs(a.Z-b.Z) < 1e-6
}

func TestIdentityMul(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.7))
	got := m.Mul(Identity())
	for i := range 16 {
		if math.Abs(got[i]-m[i]) > eps {
			t.Fatalf("m * I != m at index %d: %v vs %v", i, got[i], m[i])
		}
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(V3(1, -2, 3))
	got := m.MulVec3(V3(10, 10, 10))
	if !vecNear(got, V3(11, 8, 13)) {
		t.Errorf("Translate point = %v, want (11, 8, 13)", got)
	}

	// Directions are unaffected by translation.
	dir := m.MulVec3Dir(V3(0, 0, -1))
	if !vecNear(dir, V3(0, 0, -1)) {
		t.Errorf("Translate direction = %v, want (0, 0, -1)", dir)
	}
}

func TestTRSOrder(t *testing.T) {
	// Scale by 2, no rotation, then translate by (1, 0, 0). A point at
	// (1, 0, 0) must land at (3, 0, 0); the reverse order would give
	// (4, 0, 0).
	m := TRS(V3(1, 0, 0), Zero3(), V3(2, 2, 2))
	got := m.MulVec3(V3(1, 0, 0))
	if !vecNear(got, V3(3, 0, 0)) {
		t.Errorf("TRS point = %v, want (3, 0, 0)", got)
	}
}

func TestRotateYQuarterTurn(t *testing.T) {
	m := RotateY(math.Pi / 2)
	got := m.MulVec3(V3(0, 0, 1))
	if !vecNear(got, V3(1, 0, 0)) {
		t.Errorf("RotateY(90deg) * +Z = %v, want +X", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 0.1, 1024)

	tests := []struct {
		name  string
		z     float64
		wantZ float64
	}{
		{"near plane", -0.1, -1},
		{"far plane", -1024, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := proj.MulVec4(V4(0, 0, tc.z, 1))
			ndc := clip.PerspectiveDivide()
			if math.Abs(ndc.Z-tc.wantZ) > 1e-3 {
				t.Errorf("ndc.Z = %v, want %v", ndc.Z, tc.wantZ)
			}
		})
	}
}

func TestLookAtOrigin(t *testing.T) {
	// Camera at +Z looking at the origin: the origin should end up on the
	// negative Z axis in view space, at distance 5.
	view := LookAt(V3(0, 0, 5), Zero3(), Up())
	got := view.MulVec3(Zero3())
	if !vecNear(got, V3(0, 0, -5)) {
		t.Errorf("view * origin = %v, want (0, 0, -5)", got)
	}
}

func TestSpherical(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       Vec3
	}{
		{"front", 0, 0, V3(0, 0, 2)},
		{"quarter yaw", math.Pi / 2, 0, V3(2, 0, 0)},
		{"straight up", 0, math.Pi / 2, V3(0, 2, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Spherical(tc.yaw, tc.pitch, 2)
			if !vecNear(got, tc.want) {
				t.Errorf("Spherical(%v, %v, 2) = %v, want %v", tc.yaw, tc.pitch, got, tc.want)
			}
		})
	}
}

func TestTransposeInvolution(t *testing.T) {
	m := TRS(V3(1, 2, 3), V3(0.1, 0.2, 0.3), V3(1, 2, 1))
	got := m.Transpose().Transpose()
	if got != m {
		t.Error("double transpose should return the original matrix")
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := RotateY(0.5)
	m2 := Translate(V3(1, 2, 3))
	for b.Loop() {
		_ = m1.Mul(m2)
	}
}
