//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"github.com/biogo/store/interval"
)

// BuildTileTrees builds one interval tree of tiles per chromosome. Trees
// are unstranded: overlap counting ignores both fragment and feature
// strand. Trees are read-only after construction and safe for concurrent
// queries.
func BuildTileTrees(tiles []Tile) (trees map[string]*interval.IntTree, err error) {
	trees = make(map[string]*interval.IntTree)
	for itile, t := range tiles {
		// New tree for unseen chromosome
		if _, ok := trees[t.Chrom]; !ok {
			trees[t.Chrom] = &interval.IntTree{}
		}
		// Creating new interval
		iv := IntInterval{Start: t.Start, End: t.End, UID: uintptr(itile), Feat: t.Feat, Bin: t.Bin}
		// Inserting interval
		err = trees[t.Chrom].Insert(iv, false)
		if err != nil {
			return
		}
	}
	for k := range trees {
		trees[k].AdjustRanges()
	}
	return
}
