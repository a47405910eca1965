//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/biogo/hts/sam"
)

func refRecord(ref *sam.Reference, name string, pos, length int, flags sam.Flags) *sam.Record {
	return &sam.Record{
		Name:  name,
		Ref:   ref,
		Pos:   pos,
		Cigar: []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, length)},
		Flags: flags,
	}
}

func TestExtendFragments(t *testing.T) {
	c := qt.New(t)
	ref, err := sam.NewReference("chr1", "", "", 100000, nil, nil)
	c.Assert(err, qt.IsNil)
	records := []*sam.Record{
		refRecord(ref, "f", 1000, 50, 0),
		refRecord(ref, "r", 2000, 50, sam.Reverse),
	}
	c.Assert(ExtendFragments(records, 200), qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1200},
		{Chrom: "chr1", Start: 1850, End: 2050},
	})
}

func TestPairFragments(t *testing.T) {
	c := qt.New(t)
	ref, err := sam.NewReference("chr1", "", "", 100000, nil, nil)
	c.Assert(err, qt.IsNil)
	records := []*sam.Record{
		refRecord(ref, "p1", 1000, 50, sam.Paired|sam.Read1),
		refRecord(ref, "lone", 3000, 50, 0),
		refRecord(ref, "p1", 1400, 50, sam.Paired|sam.Read2|sam.Reverse),
		refRecord(ref, "", 5000, 50, 0),
		refRecord(ref, "", 6000, 50, 0),
	}
	c.Assert(PairFragments(records), qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1450},
		{Chrom: "chr1", Start: 3000, End: 3050},
		{Chrom: "chr1", Start: 5000, End: 5050},
		{Chrom: "chr1", Start: 6000, End: 6050},
	})
}

func TestRecenterFragments(t *testing.T) {
	c := qt.New(t)
	frags := []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1200},
		{Chrom: "chr1", Start: 2000, End: 2151},
		{Chrom: "chr1", Start: 3000, End: 3010},
	}
	RecenterFragments(frags, 100)
	c.Assert(frags, qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1050, End: 1150},
		{Chrom: "chr1", Start: 2025, End: 2125},
		{Chrom: "chr1", Start: 2955, End: 3055},
	})
}

func TestPairedAlignments(t *testing.T) {
	c := qt.New(t)
	pa := PairedAlignments{
		{Chrom: "chr1", Start: 1000, End: 1450},
		{Chrom: "chr2", Start: 2000, End: 2300},
	}
	frags, paired, err := pa.Fragments(PairingAuto, 200)
	c.Assert(err, qt.IsNil)
	c.Assert(paired, qt.IsTrue)
	c.Assert(frags, qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1450},
		{Chrom: "chr2", Start: 2000, End: 2300},
	})
}

func TestReadAlignments(t *testing.T) {
	c := qt.New(t)
	// Duplicated names resolve to paired under auto
	ra := ReadAlignments{
		{Name: "p1", Chrom: "chr1", Start: 1000, End: 1050, Strand: 1},
		{Name: "p1", Chrom: "chr1", Start: 1400, End: 1450, Strand: -1},
	}
	frags, paired, err := ra.Fragments(PairingAuto, 200)
	c.Assert(err, qt.IsNil)
	c.Assert(paired, qt.IsTrue)
	c.Assert(frags, qt.DeepEquals, []Fragment{{Chrom: "chr1", Start: 1000, End: 1450}})

	// Unique names resolve to single-end under auto
	ra = ReadAlignments{
		{Name: "a", Chrom: "chr1", Start: 1000, End: 1050, Strand: 1},
		{Name: "b", Chrom: "chr1", Start: 2000, End: 2050, Strand: -1},
	}
	frags, paired, err = ra.Fragments(PairingAuto, 200)
	c.Assert(err, qt.IsNil)
	c.Assert(paired, qt.IsFalse)
	c.Assert(frags, qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1200},
		{Chrom: "chr1", Start: 1850, End: 2050},
	})

	// Forced single extends duplicated names separately
	ra = ReadAlignments{
		{Name: "p1", Chrom: "chr1", Start: 1000, End: 1050, Strand: 1},
		{Name: "p1", Chrom: "chr1", Start: 1400, End: 1450, Strand: -1},
	}
	frags, paired, err = ra.Fragments(PairingSingle, 100)
	c.Assert(err, qt.IsNil)
	c.Assert(paired, qt.IsFalse)
	c.Assert(frags, qt.DeepEquals, []Fragment{
		{Chrom: "chr1", Start: 1000, End: 1100},
		{Chrom: "chr1", Start: 1350, End: 1450},
	})

	_, _, err = ra.Fragments(PairingMode(9), 100)
	c.Assert(err, qt.ErrorMatches, `unknown pairing mode "PairingMode\(9\)"`)
}
