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
	"strings"
)

// OpenMapping parses a tabulated file with feature name and output name,
// and returns the mapping. Feature names absent from the file keep their
// own name in outputs.
func OpenMapping(mpath string) (map[string]string, error) {
	m := make(map[string]string)

	mfos, err := os.Open(mpath)
	if err != nil {
		return m, err
	}
	defer mfos.Close()

	mscanner := bufio.NewScanner(mfos)
	for mscanner.Scan() {
		line := mscanner.Text()
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return m, fmt.Errorf("mapping line with %d column(s) in %s", len(fields), mpath)
		}
		m[fields[0]] = fields[1]
	}
	if err := mscanner.Err(); err != nil {
		return m, err
	}
	return m, nil
}

// MapName returns the output name of a feature, or the name itself when
// unmapped.
func MapName(name string, m map[string]string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	return name
}
