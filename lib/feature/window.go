//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"sort"
)

// Window is a feature flanking interval. Feat is the index of the source
// feature in the input order.
type Window struct {
	Chrom  string
	Start  int
	End    int
	Strand int8
	Feat   int
}

// SignalWindows expands unit features by upstream/downstream into the
// windows to be tiled. The expansion follows feature orientation: on the
// minus strand, upstream extends toward higher coordinates. The window
// width is always upstream+downstream.
func SignalWindows(features []Feature, upstream, downstream int) []Window {
	windows := make([]Window, len(features))
	for i, feat := range features {
		w := Window{Chrom: feat.Chrom, Strand: feat.Strand, Feat: i}
		if feat.Strand == -1 {
			w.Start = feat.End - downstream
			w.End = feat.End + upstream
		} else {
			w.Start = feat.Start - upstream
			w.End = feat.Start + downstream
		}
		windows[i] = w
	}
	return windows
}

// QueryWindows expands features for read scoping: upstream/downstream plus
// the largest fragment length of the samples, so that any fragment
// overlapping a signal window starts from a read within the query window.
// The strand is dropped as reads are collected from both strands.
func QueryWindows(features []Feature, upstream, downstream, maxFragLen int) []Window {
	windows := SignalWindows(features, upstream+maxFragLen, downstream+maxFragLen)
	for i := range windows {
		windows[i].Strand = 0
	}
	return windows
}

// MergeWindows coalesces overlapping or bookended windows of the same
// chromosome. The input is left untouched. Merged windows lose their
// source feature: they only scope I/O.
func MergeWindows(windows []Window) []Window {
	if len(windows) == 0 {
		return nil
	}
	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Chrom != sorted[j].Chrom {
			return sorted[i].Chrom < sorted[j].Chrom
		}
		return sorted[i].Start < sorted[j].Start
	})
	merged := make([]Window, 0, len(sorted))
	merged = append(merged, Window{Chrom: sorted[0].Chrom, Start: sorted[0].Start, End: sorted[0].End})
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.Chrom == last.Chrom && w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
		} else {
			merged = append(merged, Window{Chrom: w.Chrom, Start: w.Start, End: w.End})
		}
	}
	return merged
}
