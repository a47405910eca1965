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

	"gopkg.in/fatih/set.v0"
)

// PairingMode selects how fragments are reconstructed: from the full
// insert of read pairs, from length-extended single reads, or resolved
// per sample (auto). The resolved layout is a separate boolean; the mode
// itself is never overwritten.
type PairingMode int

const (
	PairingAuto PairingMode = iota
	PairingPaired
	PairingSingle
)

func (m PairingMode) String() string {
	switch m {
	case PairingAuto:
		return "auto"
	case PairingPaired:
		return "paired"
	case PairingSingle:
		return "single"
	}
	return fmt.Sprintf("PairingMode(%d)", int(m))
}

// ParsePairingMode parses 'auto', 'paired' or 'single'.
func ParsePairingMode(raw string) (PairingMode, error) {
	switch raw {
	case "auto":
		return PairingAuto, nil
	case "paired":
		return PairingPaired, nil
	case "single":
		return PairingSingle, nil
	}
	return PairingAuto, fmt.Errorf("unknown pairing mode %q", raw)
}

// DetectPaired applies the template-name multiplicity heuristic to decide
// whether unpaired records come from a paired-end library: no name at all
// or every name unique means single-end, every name seen fewer than 3
// times means paired-end, anything more means single-end.
func DetectPaired(names []string) bool {
	seen := set.New(set.NonThreadSafe)
	dup := set.New(set.NonThreadSafe)
	over := set.New(set.NonThreadSafe)
	for _, name := range names {
		if name == "" {
			continue
		}
		if dup.Has(name) {
			over.Add(name)
		} else if seen.Has(name) {
			dup.Add(name)
		}
		seen.Add(name)
	}
	if seen.Size() == 0 || dup.Size() == 0 {
		return false
	}
	return over.Size() == 0
}
