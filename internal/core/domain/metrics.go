package domain

// SectionMetrics holds the three bounded quality scores for one protocol
// section. All values are within [0, 1] after clamping.
type SectionMetrics struct {
	// Complexity scores how intricate the section's design is.
	Complexity float64 `json:"complexity"`

	// Completeness scores how fully the section covers required content.
	Completeness float64 `json:"completeness"`

	// Efficiency scores how streamlined the described procedures are.
	Efficiency float64 `json:"efficiency"`
}

// Partial returns the metrics with every field present.
func (m SectionMetrics) Partial() PartialMetrics {
	complexity, completeness, efficiency := m.Complexity, m.Completeness, m.Efficiency
	return PartialMetrics{
		Complexity:   &complexity,
		Completeness: &completeness,
		Efficiency:   &efficiency,
	}
}

// PartialMetrics holds section scores as reported by the model, where
// any field may be absent. A nil field is distinct from a genuine zero
// score; absent fields are resolved by the aggregator's fallback policy.
type PartialMetrics struct {
	Complexity   *float64 `json:"complexity"`
	Completeness *float64 `json:"completeness"`
	Efficiency   *float64 `json:"efficiency"`
}

// Complete reports whether every metric is present.
func (p PartialMetrics) Complete() bool {
	return p.Complexity != nil && p.Completeness != nil && p.Efficiency != nil
}

// Resolve returns full scores, taking each absent field from fallback.
func (p PartialMetrics) Resolve(fallback SectionMetrics) SectionMetrics {
	resolved := fallback
	if p.Complexity != nil {
		resolved.Complexity = *p.Complexity
	}
	if p.Completeness != nil {
		resolved.Completeness = *p.Completeness
	}
	if p.Efficiency != nil {
		resolved.Efficiency = *p.Efficiency
	}
	return resolved
}

// Clamp forces every metric into [0, 1].
func (m *SectionMetrics) Clamp() {
	m.Complexity = clamp01(m.Complexity)
	m.Completeness = clamp01(m.Completeness)
	m.Efficiency = clamp01(m.Efficiency)
}

// InBounds reports whether every metric is within [0, 1].
func (m SectionMetrics) InBounds() bool {
	return inUnit(m.Complexity) && inUnit(m.Completeness) && inUnit(m.Efficiency)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
