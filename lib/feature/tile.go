//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

// Tile is one bin of a tiled signal window. Bin is the 0-based position in
// feature orientation: Bin 0 is the upstream-most bin on both strands.
type Tile struct {
	Chrom string
	Start int
	End   int
	Feat  int
	Bin   int
}

// BinWidth returns the number of base pairs represented by one bin, the
// per-bin normalization divisor. Individual tiles may be 1 bp wider when
// the window width is not a multiple of nTile.
func BinWidth(upstream, downstream, nTile int) int {
	return (upstream + downstream) / nTile
}

// TileWindows cuts every window into nTile quasi-equal bins with
// boundaries at floor(i*width/nTile), so bin widths differ by at most 1.
// For minus-strand windows the bin numbering is reversed relative to the
// genomic order.
func TileWindows(windows []Window, nTile int) []Tile {
	tiles := make([]Tile, 0, len(windows)*nTile)
	for _, w := range windows {
		width := w.End - w.Start
		for i := 0; i < nTile; i++ {
			t := Tile{Chrom: w.Chrom, Feat: w.Feat}
			t.Start = w.Start + i*width/nTile
			t.End = w.Start + (i+1)*width/nTile
			if w.Strand == -1 {
				t.Bin = nTile - 1 - i
			} else {
				t.Bin = i
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}
