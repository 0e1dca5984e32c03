package loom

import "testing"

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 0, 0, 2, 30, -40}
	if got := multiplyAffine(identityTransform, m); got != m {
		t.Errorf("I*m = %v, want %v", got, m)
	}
	if got := multiplyAffine(m, identityTransform); got != m {
		t.Errorf("m*I = %v, want %v", got, m)
	}
}

func TestInvertAffineRoundtrip(t *testing.T) {
	m := scaleTranslate(0.5, 120, -35)
	inv := invertAffine(m)

	x, y := transformPoint(m, 17, -42)
	rx, ry := transformPoint(inv, x, y)
	if !approxEqual(rx, 17, epsilon) || !approxEqual(ry, -42, epsilon) {
		t.Errorf("roundtrip = (%f,%f), want (17,-42)", rx, ry)
	}
}

func TestInvertAffineSingular(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestScaleTranslateApply(t *testing.T) {
	m := scaleTranslate(2, 10, 20)
	x, y := transformPoint(m, 3, 4)
	if x != 16 || y != 28 {
		t.Errorf("apply = (%f,%f), want (16,28)", x, y)
	}
}
