//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package signal

import (
	"context"
	"fmt"

	"git.sr.ht/~vejnar/FeatureSignal/lib/esam"
	"git.sr.ht/~vejnar/FeatureSignal/lib/feature"

	"github.com/biogo/store/interval"

	"golang.org/x/sync/errgroup"
)

// ExtendSignal computes one normalized signal matrix per sample. Features
// are expanded into upstream/downstream windows cut into nTile bins, reads
// are reconstructed into fragments (mate pairing or fixed-length extension)
// and every bin a fragment overlaps is incremented. Raw counts are scaled
// to counts per 100 million fragments of the library, per 100 bp of
// fragment length and per base pair of bin. Samples are processed in
// parallel by NWorker workers.
func ExtendSignal(ctx context.Context, features []feature.Feature, samples []Sample, par Params) ([]*Matrix, error) {
	if err := validate(features, samples, par); err != nil {
		return nil, err
	}

	// Largest fragment length sets the read scoping margin
	var maxFragLen int
	for _, s := range samples {
		if s.FragmentLength > maxFragLen {
			maxFragLen = s.FragmentLength
		}
	}

	// Signal geometry
	binWidth := feature.BinWidth(par.Upstream, par.Downstream, par.NTile)
	tiles := feature.TileWindows(feature.SignalWindows(features, par.Upstream, par.Downstream), par.NTile)
	trees, err := feature.BuildTileTrees(tiles)
	if err != nil {
		return nil, err
	}

	// Read scoping windows, merged to read each region once
	var spans []esam.Span
	for _, w := range feature.MergeWindows(feature.QueryWindows(features, par.Upstream, par.Downstream, maxFragLen)) {
		spans = append(spans, esam.Span{Chrom: w.Chrom, Start: w.Start, End: w.End})
	}

	// Workers
	nWorker := max(1, par.NWorker)

	matrices := make([]*Matrix, len(samples))

	// Start sync errgroup
	g, gctx := errgroup.WithContext(ctx)

	// Start sample channel
	chSample := make(chan int, len(samples))

	g.Go(func() error {
		defer close(chSample)
		for is := range samples {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chSample <- is:
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	for i := 0; i < nWorker; i++ {
		g.Go(func() error {
			for is := range chSample {
				m, err := sampleSignal(samples[is], spans, trees, len(features), binWidth, par)
				if err != nil {
					return fmt.Errorf("%s: %s", samples[is].Name, err)
				}
				matrices[is] = m
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matrices, nil
}

func sampleSignal(s Sample, spans []esam.Span, trees map[string]*interval.IntTree, nFeature, binWidth int, par Params) (*Matrix, error) {
	frags, paired, err := sampleFragments(s, spans, par)
	if err != nil {
		return nil, err
	}
	// Re-center fragments and normalize to the adjusted length
	fragLen := s.FragmentLength
	if par.AdjustFragmentLength > 0 {
		esam.RecenterFragments(frags, par.AdjustFragmentLength)
		fragLen = par.AdjustFragmentLength
	}
	m := NewMatrix(s.Name, nFeature, par.NTile)
	m.Paired = paired
	m.Fragments = uint64(len(frags))
	countFragments(frags, trees, m)
	m.Normalize(s.LibrarySize, fragLen, binWidth)
	return m, nil
}

func sampleFragments(s Sample, spans []esam.Span, par Params) ([]esam.Fragment, bool, error) {
	if s.Alignments != nil {
		return s.Alignments.Fragments(par.Pairing, s.FragmentLength)
	}
	paired := par.Pairing == esam.PairingPaired
	if par.Pairing == esam.PairingAuto {
		var err error
		paired, err = esam.IsPairedEnd(s.Path)
		if err != nil {
			return nil, false, err
		}
	}
	records, err := esam.ReadScoped(s.Path, spans, paired, 1)
	if err != nil {
		return nil, paired, err
	}
	if paired {
		return esam.PairFragments(records), true, nil
	}
	return esam.ExtendFragments(records, s.FragmentLength), false, nil
}

func countFragments(frags []esam.Fragment, trees map[string]*interval.IntTree, m *Matrix) {
	for _, frag := range frags {
		tree, ok := trees[frag.Chrom]
		if !ok {
			continue
		}
		q := feature.IntInterval{Start: frag.Start, End: frag.End}
		for _, iv := range tree.Get(q) {
			t := iv.(feature.IntInterval)
			m.Values[t.Feat][t.Bin]++
		}
	}
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
