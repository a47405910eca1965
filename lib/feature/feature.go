//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Feature is a genomic anchor point, e.g. a peak summit or a TSS, with
// 0-based half-open coordinates. ID is the 0-based input rank: output
// matrices keep one row per feature in ID order.
type Feature struct {
	ID     uint32
	Name   string
	Chrom  string
	Start  int
	End    int
	Strand int8
}

// Length returns the length of feature
func (feat Feature) Length() int {
	return feat.End - feat.Start
}

// CheckAnchors verifies that every feature is a single-base anchor.
func CheckAnchors(features []Feature) error {
	for _, feat := range features {
		if feat.Length() != 1 {
			return fmt.Errorf("feature %s has width %d, expected 1", feat.Name, feat.Length())
		}
	}
	return nil
}

// OpenBED parses a BED file (3 to 6 columns) and returns a list of Feature.
// Features without a strand column get the default strand.
func OpenBED(bpath string, strand int8) (features []Feature, err error) {
	bfos, err := os.Open(bpath)
	if err != nil {
		return
	}
	defer bfos.Close()

	var i uint32
	var start, end int
	bscanner := bufio.NewScanner(bfos)
	for bscanner.Scan() {
		line := bscanner.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			err = fmt.Errorf("BED line with %d column(s) in %s", len(fields), bpath)
			return
		}
		start, err = strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		end, err = strconv.Atoi(fields[2])
		if err != nil {
			return
		}
		f := Feature{ID: i, Chrom: fields[0], Start: start, End: end, Strand: strand}
		if len(fields) > 3 {
			f.Name = fields[3]
		} else {
			f.Name = fields[0] + ":" + fields[1]
		}
		if len(fields) > 5 {
			if fields[5] == "+" {
				f.Strand = 1
			} else if fields[5] == "-" {
				f.Strand = -1
			} else {
				f.Strand = 0
			}
		}
		features = append(features, f)
		i++
	}
	if err = bscanner.Err(); err != nil {
		return
	}
	return
}

// OpenTAB parses a tabulated file with name, chromosome and 0-based
// position of feature and returns a list of Feature. A fourth column, when
// present, sets the strand (+ or -).
func OpenTAB(tpath string, strand int8) (features []Feature, err error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return
	}
	defer tfos.Close()

	var i uint32
	var pos int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		fields := strings.Split(tscanner.Text(), "\t")
		if len(fields) < 3 {
			err = fmt.Errorf("tab line with %d column(s) in %s", len(fields), tpath)
			return
		}
		pos, err = strconv.Atoi(fields[2])
		if err != nil {
			return
		}
		f := Feature{ID: i, Name: fields[0], Chrom: fields[1], Start: pos, End: pos + 1, Strand: strand}
		if len(fields) > 3 {
			if fields[3] == "+" {
				f.Strand = 1
			} else if fields[3] == "-" {
				f.Strand = -1
			}
		}
		features = append(features, f)
		i++
	}
	if err = tscanner.Err(); err != nil {
		return
	}
	return
}
