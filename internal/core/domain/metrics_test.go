package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionMetrics_Clamp(t *testing.T) {
	m := SectionMetrics{Complexity: -0.5, Completeness: 1.7, Efficiency: 0.6}

	m.Clamp()

	assert.Equal(t, 0.0, m.Complexity)
	assert.Equal(t, 1.0, m.Completeness)
	assert.Equal(t, 0.6, m.Efficiency)
	assert.True(t, m.InBounds())
}

func TestSectionMetrics_InBounds(t *testing.T) {
	tests := []struct {
		name string
		m    SectionMetrics
		want bool
	}{
		{"all in range", SectionMetrics{0.2, 0.5, 0.8}, true},
		{"boundaries", SectionMetrics{0, 1, 0.5}, true},
		{"negative", SectionMetrics{-0.1, 0.5, 0.5}, false},
		{"above one", SectionMetrics{0.5, 1.1, 0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.InBounds())
		})
	}
}

func TestSectionMetrics_Partial(t *testing.T) {
	p := SectionMetrics{Complexity: 0.2, Completeness: 0.4, Efficiency: 0.6}.Partial()

	assert.True(t, p.Complete())
	assert.Equal(t, 0.2, *p.Complexity)
	assert.Equal(t, 0.4, *p.Completeness)
	assert.Equal(t, 0.6, *p.Efficiency)
}

func TestPartialMetrics_Complete(t *testing.T) {
	v := 0.5

	assert.False(t, PartialMetrics{}.Complete())
	assert.False(t, PartialMetrics{Complexity: &v, Efficiency: &v}.Complete())
	assert.True(t, PartialMetrics{Complexity: &v, Completeness: &v, Efficiency: &v}.Complete())
}

func TestPartialMetrics_Resolve(t *testing.T) {
	fallback := SectionMetrics{Complexity: 0.55, Completeness: 0.6, Efficiency: 0.6}
	zero, half := 0.0, 0.5

	resolved := PartialMetrics{Complexity: &zero, Efficiency: &half}.Resolve(fallback)

	// Present fields win, including explicit zeros; absent fields take
	// the fallback value.
	assert.Equal(t, 0.0, resolved.Complexity)
	assert.Equal(t, 0.6, resolved.Completeness)
	assert.Equal(t, 0.5, resolved.Efficiency)
}
