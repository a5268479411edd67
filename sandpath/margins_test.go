package sandpath

import "testing"

func TestSafetyMargins_DefaultApplies(t *testing.T) {
	s := NewSafetyMarginSpec(0.025, 20)
	got := s.Pair("link_3", "part")
	if got.Distance != 0.025 || got.Coeff != 20 {
		t.Errorf("unlisted pair got %+v, want default", got)
	}
}

func TestSafetyMargins_OverrideSymmetric(t *testing.T) {
	s := NewSafetyMarginSpec(0.025, 20)
	s.SetPair("sander_disk", "part", -0.01, 20)

	forward := s.Pair("sander_disk", "part")
	reverse := s.Pair("part", "sander_disk")
	if forward != reverse {
		t.Errorf("override not symmetric: %+v vs %+v", forward, reverse)
	}
	if forward.Distance != -0.01 {
		t.Errorf("override distance %g, want -0.01", forward.Distance)
	}
}

func TestSafetyMargins_OverrideDoesNotLeak(t *testing.T) {
	s := NewSafetyMarginSpec(0.025, 20)
	s.SetPair("sander_disk", "part", -0.01, 20)
	s.SetPair("sander_shaft", "part", 0.0, 20)

	for _, pair := range [][2]string{
		{"sander_disk", "sander_shaft"},
		{"sander_disk", "table"},
		{"part", "table"},
		{"link_1", "link_2"},
	} {
		if got := s.Pair(pair[0], pair[1]); got != s.Default {
			t.Errorf("pair %v got %+v, want default %+v", pair, got, s.Default)
		}
	}
}

func TestSafetyMargins_SetPairOverwrites(t *testing.T) {
	s := NewSafetyMarginSpec(0.025, 20)
	s.SetPair("a", "b", 0.1, 5)
	s.SetPair("b", "a", 0.2, 7)

	got := s.Pair("a", "b")
	if got.Distance != 0.2 || got.Coeff != 7 {
		t.Errorf("got %+v, want latest value regardless of name order", got)
	}
}
