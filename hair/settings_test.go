package hair

import "testing"

func TestPendingDelta(t *testing.T) {
	var d pendingDelta
	if !d.empty() {
		t.Fatal("new delta should be empty")
	}
	d.mark(deltaGravity)
	d.mark(deltaGravity)
	d.mark(deltaWind)
	if got := d.take(); got != deltaGravity|deltaWind {
		t.Errorf("take = %b, want %b", got, deltaGravity|deltaWind)
	}
	if !d.empty() || d.take() != 0 {
		t.Error("take should clear the delta")
	}
}

func TestSettingsClamped(t *testing.T) {
	s := Settings{Gravity: -40, Wind: Wind{Strength: 2}, Friction: 1.5, Damping: -0.2, CurlRadius: 1}.clamped()
	if s.Gravity != -40 {
		t.Errorf("gravity is not clamped, got %f", s.Gravity)
	}
	if s.Wind.Strength != 1 || s.Friction != 1 || s.Damping != 0 || s.CurlRadius != MaxCurlRadius {
		t.Errorf("clamp failed: %+v", s)
	}
}
