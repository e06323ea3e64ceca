// Package layout provides reading-order analysis for positioned text
// fragments, imposing a deterministic top-to-bottom, left-to-right sequence.
package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pagesect/model"
)

// SequencerConfig holds configuration for reading-order sequencing.
type SequencerConfig struct {
	// RowTolerance treats fragments whose Top coordinates differ by at most
	// this amount as belonging to the same row, so they are ordered by Left
	// rather than by the small vertical difference.
	// Default: 0 (exact Top comparison)
	RowTolerance float64
}

// DefaultSequencerConfig returns sensible default configuration.
func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		RowTolerance: 0,
	}
}

// Sequencer imposes a total, deterministic reading order over fragments:
// Top ascending, then Left ascending, preserving input order for full ties
// (stable). Sorting is purely spatial; the fragments' SourceIndex is ignored.
//
// NaN coordinates are given a fixed position in the total order: a NaN Top
// (or Left) sorts before any finite value, and NaN-to-NaN comparisons keep
// input order. This keeps the output deterministic for any input.
type Sequencer struct {
	config SequencerConfig
}

// NewSequencer creates a new sequencer with default configuration.
func NewSequencer() *Sequencer {
	return &Sequencer{
		config: DefaultSequencerConfig(),
	}
}

// NewSequencerWithConfig creates a sequencer with custom configuration.
func NewSequencerWithConfig(config SequencerConfig) *Sequencer {
	return &Sequencer{
		config: config,
	}
}

// Sequence returns the fragments in reading order. The input slice is not
// modified; no fragment is created, dropped, or mutated.
func (s *Sequencer) Sequence(fragments []model.Fragment) []model.Fragment {
	if len(fragments) == 0 {
		return nil
	}

	ordered := make([]model.Fragment, len(fragments))
	copy(ordered, fragments)

	// Primary pass: Top ascending.
	sort.SliceStable(ordered, func(i, j int) bool {
		return coordLess(ordered[i].Rect.Top, ordered[j].Rect.Top)
	})

	// Secondary pass: Left ascending within each row. With zero tolerance a
	// row is a run of exactly equal Tops, which matches the primary key.
	start := 0
	for end := 1; end <= len(ordered); end++ {
		if end < len(ordered) && sameRow(ordered[start].Rect.Top, ordered[end].Rect.Top, s.config.RowTolerance) {
			continue
		}
		row := ordered[start:end]
		sort.SliceStable(row, func(i, j int) bool {
			return coordLess(row[i].Rect.Left, row[j].Rect.Left)
		})
		start = end
	}

	return ordered
}

// ReadingOrder returns fragments in reading order using default
// configuration. This is a convenience function for simple use cases.
func ReadingOrder(fragments []model.Fragment) []model.Fragment {
	return NewSequencer().Sequence(fragments)
}

// coordLess is a total order over float64 coordinates: NaN sorts before any
// finite value, and two NaNs compare equal (stable sort keeps input order).
func coordLess(a, b float64) bool {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	if aNaN || bNaN {
		return aNaN && !bNaN
	}
	return a < b
}

// sameRow reports whether two Top coordinates belong to the same row under
// the given tolerance. NaN Tops form their own row.
func sameRow(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tolerance
}
