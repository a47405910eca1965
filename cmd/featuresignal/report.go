//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"git.sr.ht/~vejnar/FeatureSignal/lib/signal"
)

type sampleReport struct {
	Sample         string `json:"sample"`
	Paired         bool   `json:"paired"`
	Fragments      uint64 `json:"fragments"`
	FragmentLength int    `json:"fragment_length"`
	LibrarySize    int    `json:"library_size"`
}

func WriteReport(pathReport string, samples []signal.Sample, matrices []*signal.Matrix) (err error) {
	reports := make([]sampleReport, len(matrices))
	for i, m := range matrices {
		reports[i] = sampleReport{
			Sample:         m.Sample,
			Paired:         m.Paired,
			Fragments:      m.Fragments,
			FragmentLength: samples[i].FragmentLength,
			LibrarySize:    samples[i].LibrarySize,
		}
	}
	report, _ := json.MarshalIndent(reports, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(report)
			f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
