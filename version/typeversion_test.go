package version

import "testing"

func TestTypeVersionMinSafeVersion(t *testing.T) {
	tv := TypeVersion{Fields: []MinSafeVersioner{
		Field[uint32]{Name: "a", Interval: All()},
		Field[string]{Name: "b", Interval: From(3)},
		Field[int64]{Name: "c", Interval: Closed(0, 1)},
	}}
	if got := tv.MinSafeVersion(); got != 3 {
		t.Errorf("MinSafeVersion() = %d, want 3 (max of 0, 3, 2)", got)
	}
}

func TestTypeVersionNoFieldsIsZero(t *testing.T) {
	tv := TypeVersion{}
	if got := tv.MinSafeVersion(); got != 0 {
		t.Errorf("MinSafeVersion() = %d, want 0", got)
	}
}

func TestEffectiveVersionIsMinimum(t *testing.T) {
	if got := Effective(5, 3); got != 3 {
		t.Errorf("Effective(5,3) = %d, want 3", got)
	}
	if got := Effective(2, 9); got != 2 {
		t.Errorf("Effective(2,9) = %d, want 2", got)
	}
}
