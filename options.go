package pagesect

import (
	"log/slog"

	"github.com/tsawler/pagesect/segment"
)

// groupOptions holds configuration for a segmentation run.
type groupOptions struct {
	// page is the 0-based page index to process.
	page int

	// vocabulary overrides the default heading vocabulary when non-nil.
	vocabulary *segment.Config

	// rowTolerance is passed through to the sequencer.
	rowTolerance float64

	// logger receives debug traces; nil means slog.Default().
	logger *slog.Logger
}

// defaultOptions returns the default segmentation options.
func defaultOptions() groupOptions {
	return groupOptions{
		page:         0,
		vocabulary:   nil, // nil means segment.DefaultConfig()
		rowTolerance: 0,
		logger:       nil,
	}
}

// clone creates a deep copy of groupOptions.
func (o groupOptions) clone() groupOptions {
	newOpts := groupOptions{
		page:         o.page,
		rowTolerance: o.rowTolerance,
		logger:       o.logger,
	}

	// Deep copy the vocabulary rules
	if o.vocabulary != nil {
		config := segment.Config{
			Rules: make([]segment.Rule, len(o.vocabulary.Rules)),
		}
		copy(config.Rules, o.vocabulary.Rules)
		newOpts.vocabulary = &config
	}

	return newOpts
}
