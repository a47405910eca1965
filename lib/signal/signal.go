//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package signal

import (
	"fmt"

	"git.sr.ht/~vejnar/FeatureSignal/lib/esam"
	"git.sr.ht/~vejnar/FeatureSignal/lib/feature"
)

// Sample is one sequencing library to extract signal from: either a BAM
// file with its BAI index, or a pre-parsed alignment collection. Fragment
// length and library size are per-sample scalars, estimated upstream.
type Sample struct {
	Name           string
	Path           esam.PathBAM
	Alignments     esam.Alignments
	FragmentLength int
	LibrarySize    int
}

// Params holds the geometry and reconstruction settings shared by all
// samples of one extraction.
type Params struct {
	Upstream             int
	Downstream           int
	NTile                int
	Pairing              esam.PairingMode
	AdjustFragmentLength int
	NWorker              int
}

func validate(features []feature.Feature, samples []Sample, par Params) error {
	if par.Upstream < 0 || par.Downstream < 0 {
		return fmt.Errorf("upstream and downstream must be >= 0")
	}
	if par.NTile <= 0 {
		return fmt.Errorf("nTile must be > 0")
	}
	if par.NTile > par.Upstream+par.Downstream {
		return fmt.Errorf("nTile (%d) larger than upstream+downstream (%d) yields empty bins", par.NTile, par.Upstream+par.Downstream)
	}
	if par.AdjustFragmentLength < 0 {
		return fmt.Errorf("adjustFragmentLength must be >= 0")
	}
	switch par.Pairing {
	case esam.PairingAuto, esam.PairingPaired, esam.PairingSingle:
	default:
		return fmt.Errorf("unknown pairing mode %q", par.Pairing)
	}
	if err := feature.CheckAnchors(features); err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no sample")
	}
	for _, s := range samples {
		if s.FragmentLength <= 0 {
			return fmt.Errorf("fragmentLength is missing")
		}
		if s.LibrarySize <= 0 {
			return fmt.Errorf("librarySize is missing")
		}
		if s.Alignments == nil && s.Path.Path == "" {
			return fmt.Errorf("gal is required if missing bamfiles")
		}
		if s.Alignments == nil && s.Path.Index == "" {
			return fmt.Errorf("missing BAI index for %s", s.Path.Path)
		}
	}
	return nil
}
