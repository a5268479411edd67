package sandpath

// MarginEntry is a minimum clearance distance plus the penalty
// coefficient applied when two bodies come closer than that.
type MarginEntry struct {
	Distance float64
	Coeff    float64
}

// pairKey is an unordered pair of collision body names.
type pairKey struct {
	first  string
	second string
}

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{first: a, second: b}
}

// SafetyMarginSpec maps unordered body-name pairs to clearance margins.
// Pairs without an explicit override use the default entry. Overrides
// apply only to the exact pair they name.
type SafetyMarginSpec struct {
	Default   MarginEntry
	overrides map[pairKey]MarginEntry
}

// NewSafetyMarginSpec creates a spec whose default entry applies to every
// body pair.
func NewSafetyMarginSpec(defaultDistance, defaultCoeff float64) *SafetyMarginSpec {
	return &SafetyMarginSpec{
		Default:   MarginEntry{Distance: defaultDistance, Coeff: defaultCoeff},
		overrides: map[pairKey]MarginEntry{},
	}
}

// SetPair overrides the margin for one unordered body pair. The order of
// a and b does not matter.
func (s *SafetyMarginSpec) SetPair(a, b string, distance, coeff float64) {
	s.overrides[newPairKey(a, b)] = MarginEntry{Distance: distance, Coeff: coeff}
}

// Pair returns the margin entry for a body pair, falling back to the
// default when the pair has no override.
func (s *SafetyMarginSpec) Pair(a, b string) MarginEntry {
	if entry, ok := s.overrides[newPairKey(a, b)]; ok {
		return entry
	}
	return s.Default
}
