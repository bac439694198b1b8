// Package divide decomposes annotated GenBank records into per-feature and
// per-record FASTA collections.
package divide

import (
	"errors"
	"fmt"
)

// Options is the immutable configuration of one decomposition run.
type Options struct {
	AllowMosaicSpacer bool
	AllowRepeat       bool
	AllowInvertRepeat bool
	Expand            int
	MaxNameLen        int
	MaxSeqLen         int
	Rename            bool
	Organelle         string
}

// DefaultOptions mirrors the command line defaults.
func DefaultOptions() Options {
	return Options{
		MaxNameLen: 100,
		MaxSeqLen:  20000,
	}
}

// Validate rejects option values the decomposer cannot honour.
func (o Options) Validate() error {
	var errs []error
	if o.Expand < 0 {
		errs = append(errs, fmt.Errorf("expand must be >= 0, got %d", o.Expand))
	}
	if o.MaxNameLen <= len(ellipsis) {
		errs = append(errs, fmt.Errorf("max_name_len must be > %d, got %d", len(ellipsis), o.MaxNameLen))
	}
	if o.MaxSeqLen <= 0 {
		errs = append(errs, fmt.Errorf("max_seq_len must be > 0, got %d", o.MaxSeqLen))
	}
	return errors.Join(errs...)
}

// organelleOverride returns the genome label forced by the organelle filter.
func (o Options) organelleOverride() (string, bool) {
	switch o.Organelle {
	case "", "no":
		return "", false
	}
	return o.Organelle + "_genome", true
}
