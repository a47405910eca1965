//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Fragment is the reconstructed interval of one sequenced template: the
// full insert of a read pair, or a single read extended to the fragment
// length. Strand does not apply to a reconstructed template.
type Fragment struct {
	Chrom string
	Start int
	End   int
}

// PairFragments groups records by template name and returns the enclosing
// span of each group, strand ignored. Unnamed records cannot pair and
// yield their own span.
func PairFragments(records []*sam.Record) []Fragment {
	idxs := make(map[string]int, len(records))
	frags := make([]Fragment, 0, len(records)/2+1)
	for _, r := range records {
		if r.Name == "" {
			frags = append(frags, Fragment{Chrom: r.Ref.Name(), Start: r.Start(), End: r.End()})
			continue
		}
		if i, ok := idxs[r.Name]; ok {
			if r.Start() < frags[i].Start {
				frags[i].Start = r.Start()
			}
			if r.End() > frags[i].End {
				frags[i].End = r.End()
			}
		} else {
			idxs[r.Name] = len(frags)
			frags = append(frags, Fragment{Chrom: r.Ref.Name(), Start: r.Start(), End: r.End()})
		}
	}
	return frags
}

// ExtendFragments converts single-end records to fragments of the given
// length: plus-strand reads extend rightward from their start, minus-strand
// reads leftward from their end, keeping the sequenced 5' end fixed.
func ExtendFragments(records []*sam.Record, fragmentLength int) []Fragment {
	frags := make([]Fragment, len(records))
	for i, r := range records {
		if r.Strand() == -1 {
			frags[i] = Fragment{Chrom: r.Ref.Name(), Start: r.End() - fragmentLength, End: r.End()}
		} else {
			frags[i] = Fragment{Chrom: r.Ref.Name(), Start: r.Start(), End: r.Start() + fragmentLength}
		}
	}
	return frags
}

// RecenterFragments resizes every fragment to the adjusted length around
// its midpoint, in place.
func RecenterFragments(frags []Fragment, adjustLength int) {
	for i := range frags {
		start := frags[i].Start + floorDiv(frags[i].End-frags[i].Start-adjustLength, 2)
		frags[i].Start = start
		frags[i].End = start + adjustLength
	}
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Alignments is a pre-parsed per-sample alignment collection. It comes in
// exactly two variants: PairedAlignments when templates are already
// resolved to spans, and ReadAlignments for single-read records.
type Alignments interface {
	// Fragments reconstructs the template fragments, reporting whether
	// the paired-end rules were used.
	Fragments(mode PairingMode, fragmentLength int) ([]Fragment, bool, error)
}

// PairedAlignments holds the genomic spans of resolved read pairs.
type PairedAlignments []Span

// Fragments returns the spans as fragments. Pairing mode and fragment
// length do not apply to resolved pairs.
func (pa PairedAlignments) Fragments(mode PairingMode, fragmentLength int) ([]Fragment, bool, error) {
	frags := make([]Fragment, len(pa))
	for i, span := range pa {
		frags[i] = Fragment{Chrom: span.Chrom, Start: span.Start, End: span.End}
	}
	return frags, true, nil
}

// ReadAlignment is one single-read alignment of a pre-parsed collection.
type ReadAlignment struct {
	Name   string
	Chrom  string
	Start  int
	End    int
	Strand int8
}

// ReadAlignments holds single-read records. Depending on the pairing mode
// they are grouped into pair spans or extended individually.
type ReadAlignments []ReadAlignment

func (ra ReadAlignments) Fragments(mode PairingMode, fragmentLength int) ([]Fragment, bool, error) {
	var paired bool
	switch mode {
	case PairingAuto:
		names := make([]string, len(ra))
		for i, r := range ra {
			names[i] = r.Name
		}
		paired = DetectPaired(names)
	case PairingPaired:
		paired = true
	case PairingSingle:
		paired = false
	default:
		return nil, false, fmt.Errorf("unknown pairing mode %q", mode)
	}
	if paired {
		idxs := make(map[string]int, len(ra))
		frags := make([]Fragment, 0, len(ra)/2+1)
		for _, r := range ra {
			if r.Name == "" {
				frags = append(frags, Fragment{Chrom: r.Chrom, Start: r.Start, End: r.End})
				continue
			}
			if i, ok := idxs[r.Name]; ok {
				if r.Start < frags[i].Start {
					frags[i].Start = r.Start
				}
				if r.End > frags[i].End {
					frags[i].End = r.End
				}
			} else {
				idxs[r.Name] = len(frags)
				frags = append(frags, Fragment{Chrom: r.Chrom, Start: r.Start, End: r.End})
			}
		}
		return frags, true, nil
	}
	frags := make([]Fragment, len(ra))
	for i, r := range ra {
		if r.Strand == -1 {
			frags[i] = Fragment{Chrom: r.Chrom, Start: r.End - fragmentLength, End: r.End}
		} else {
			frags[i] = Fragment{Chrom: r.Chrom, Start: r.Start, End: r.Start + fragmentLength}
		}
	}
	return frags, false, nil
}
