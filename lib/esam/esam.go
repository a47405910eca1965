//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
)

const pairingPeekDepth = 1000

// PathBAM stores the paths to a BAM file and its BAI index.
type PathBAM struct {
	Path  string
	Index string
}

// Span is a plain genomic interval in 0-based half-open coordinates.
type Span struct {
	Chrom string
	Start int
	End   int
}

// Keep reports whether a record passes the scoped-read filter: mapped,
// primary, passing QC, and in a proper pair when paired is true.
func Keep(r *sam.Record, paired bool) bool {
	if r.Flags&sam.Unmapped != 0 {
		return false
	}
	if r.Flags&sam.Secondary != 0 || r.Flags&sam.QCFail != 0 {
		return false
	}
	if paired && r.Flags&sam.ProperPair == 0 {
		return false
	}
	return true
}

// IsPairedEnd peeks at the first primary records of a BAM file and reports
// whether the library is paired-end.
func IsPairedEnd(pathBAM PathBAM) (bool, error) {
	f, err := os.Open(pathBAM.Path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return false, err
	}
	defer br.Close()
	br.Omit(bam.AllVariableLengthData)

	for n := 0; n < pairingPeekDepth; {
		r, err := br.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return false, err
		}
		if r.Flags&sam.Secondary != 0 || r.Flags&sam.Supplementary != 0 {
			continue
		}
		if r.Flags&sam.Paired != 0 {
			return true, nil
		}
		n++
	}
	return false, nil
}

// ReadScoped reads the records overlapping the given spans using the BAI
// index, filtered with Keep. Spans are expected to be merged: a record
// overlapping several disjoint spans is returned once per span.
func ReadScoped(pathBAM PathBAM, spans []Span, paired bool, nReader int) ([]*sam.Record, error) {
	f, err := os.Open(pathBAM.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br, err := bam.NewReader(f, nReader)
	if err != nil {
		return nil, err
	}
	defer br.Close()
	br.Omit(bam.AuxTags)

	fidx, err := os.Open(pathBAM.Index)
	if err != nil {
		return nil, err
	}
	idx, err := bam.ReadIndex(fidx)
	fidx.Close()
	if err != nil {
		return nil, err
	}

	refs := make(map[string]*sam.Reference)
	for _, ref := range br.Header().Refs() {
		refs[ref.Name()] = ref
	}

	var records []*sam.Record
	for _, span := range spans {
		ref, ok := refs[span.Chrom]
		if !ok {
			continue
		}
		start := max(0, span.Start)
		end := min(span.End, ref.Len())
		if end <= start {
			continue
		}
		chunks, err := idx.Chunks(ref, start, end)
		if err == index.ErrInvalid || err == index.ErrNoReference {
			// No read indexed in the span
			continue
		} else if err != nil {
			return nil, err
		}
		// An iterator without chunk reads to EOF
		if len(chunks) == 0 {
			continue
		}
		it, err := bam.NewIterator(br, chunks)
		if err != nil {
			return nil, err
		}
		for it.Next() {
			r := it.Record()
			if !Keep(r, paired) {
				continue
			}
			// Chunks are block-granular: keep overlapping records only
			if r.Start() < end && r.End() > start {
				records = append(records, r)
			}
		}
		if err := it.Error(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
