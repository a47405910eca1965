//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package signal

// Matrix is the per-sample result: signal with one row per input feature,
// in input order, and one column per bin in feature orientation. Paired
// and Fragments report how the sample was reconstructed.
type Matrix struct {
	Sample    string
	Paired    bool
	Fragments uint64
	Values    [][]float64
}

func NewMatrix(sample string, nFeature, nTile int) *Matrix {
	m := Matrix{Sample: sample}
	m.Values = make([][]float64, nFeature)
	for i := range m.Values {
		m.Values[i] = make([]float64, nTile)
	}
	return &m
}

// NTile returns the number of bins per feature.
func (m *Matrix) NTile() int {
	if len(m.Values) == 0 {
		return 0
	}
	return len(m.Values[0])
}

// Normalize scales raw counts to comparable intensities: reads per 1e8
// library reads, per 100 bp of fragment, per bin base pair.
func (m *Matrix) Normalize(librarySize, fragmentLength, binWidth int) {
	factor := 1e8 / float64(librarySize) * 100. / float64(fragmentLength) / float64(binWidth)
	for i := range m.Values {
		for j := range m.Values[i] {
			m.Values[i][j] *= factor
		}
	}
}
