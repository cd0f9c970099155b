package services

import (
	"math/rand"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

// Fallback ranges for metrics the model omitted. Substituting a value
// inside these ranges avoids reporting a visually zero score for a
// section the model simply did not grade.
const (
	complexityFallbackMin = 0.2
	complexityFallbackMax = 0.9

	completenessFallbackMin = 0.3
	completenessFallbackMax = 0.9

	efficiencyFallbackMin = 0.4
	efficiencyFallbackMax = 0.8
)

// MetricFallback supplies substitute scores for metric fields absent
// from a chunk's analysis. The strategy is injectable so callers can
// choose deterministic behaviour; it is never a hidden default.
type MetricFallback interface {
	// Metrics returns substitute scores for one section. Only the
	// fields actually absent from the analysis are taken from it.
	Metrics() domain.SectionMetrics
}

// MidpointFallback substitutes the midpoint of each documented range.
// It is deterministic and is the default strategy.
type MidpointFallback struct{}

// Metrics returns the range midpoints.
func (MidpointFallback) Metrics() domain.SectionMetrics {
	return domain.SectionMetrics{
		Complexity:   (complexityFallbackMin + complexityFallbackMax) / 2,
		Completeness: (completenessFallbackMin + completenessFallbackMax) / 2,
		Efficiency:   (efficiencyFallbackMin + efficiencyFallbackMax) / 2,
	}
}

// RandomFallback substitutes a pseudo-random value within each
// documented range, reproducing the smoothing behaviour of the original
// console. Not suitable for tests that need determinism.
type RandomFallback struct {
	// Rand is the source used for value generation. Nil uses the
	// shared global source.
	Rand *rand.Rand
}

// Metrics returns randomised scores within the documented ranges.
func (f RandomFallback) Metrics() domain.SectionMetrics {
	return domain.SectionMetrics{
		Complexity:   f.inRange(complexityFallbackMin, complexityFallbackMax),
		Completeness: f.inRange(completenessFallbackMin, completenessFallbackMax),
		Efficiency:   f.inRange(efficiencyFallbackMin, efficiencyFallbackMax),
	}
}

func (f RandomFallback) inRange(min, max float64) float64 {
	if f.Rand != nil {
		return min + f.Rand.Float64()*(max-min)
	}
	return min + rand.Float64()*(max-min)
}
