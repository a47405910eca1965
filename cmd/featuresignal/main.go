//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"git.sr.ht/~vejnar/FeatureSignal/lib/esam"
	"git.sr.ht/~vejnar/FeatureSignal/lib/feature"
	"git.sr.ht/~vejnar/FeatureSignal/lib/signal"
)

var version = "DEV"

func parseStrand(strandRaw string) int8 {
	if strandRaw == "+" || strandRaw == "1" || strandRaw == "+1" {
		return 1
	}
	if strandRaw == "-" || strandRaw == "-1" {
		return -1
	}
	return 0
}

func parseInts(raw string, n int) ([]int, error) {
	var vs []int
	for _, m := range strings.Split(raw, ",") {
		i, err := strconv.Atoi(m)
		if err != nil {
			return nil, err
		}
		vs = append(vs, i)
	}
	// Single value applies to all samples
	if len(vs) == 1 && n > 1 {
		for len(vs) < n {
			vs = append(vs, vs[0])
		}
	}
	if len(vs) != n {
		return nil, fmt.Errorf("Expected %d value(s), got %d", n, len(vs))
	}
	return vs, nil
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func signalExt(signalFormat string) string {
	format, zip := signalFormat, ""
	if strings.Contains(format, "+") {
		doubleFormat := strings.Split(format, "+")
		format, zip = doubleFormat[0], doubleFormat[1]
	}
	ext := format
	if format == "binary" {
		ext = "bin"
	}
	if zip != "" {
		ext += "." + zip
	}
	return ext
}

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&appendOutput, "append", false, "Append to output signal (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathBAMsRaw, pathBAIsRaw, pathFeatures, formatFeatures, featureStrandRaw, pathMapping string
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) (comma separated)")
	flag.StringVar(&pathBAIsRaw, "path_bai", "", "Path to BAI file(s) (comma separated) (default BAM path + .bai)")
	flag.StringVar(&pathFeatures, "path_features", "", "Path to features file")
	flag.StringVar(&formatFeatures, "format_features", "BED", "Format of features file: 'BED' or 'tab'")
	flag.StringVar(&featureStrandRaw, "feature_strand", "+", "Default feature strand (+ (+1) or - (-1))")
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to feature name(s) mapping (tabulated file)")
	// Arguments: Signal
	var pairingRaw, fragmentLengthsRaw, librarySizesRaw string
	var upstream, downstream, nTile, adjustFragmentLength int
	flag.IntVar(&upstream, "upstream", 0, "Signal window length upstream of each feature")
	flag.IntVar(&downstream, "downstream", 0, "Signal window length downstream of each feature")
	flag.IntVar(&nTile, "num_tile", 100, "Number of bins per signal window")
	flag.StringVar(&fragmentLengthsRaw, "fragment_length", "", "Sequenced fragment length(s), one per BAM or one for all (comma separated)")
	flag.StringVar(&librarySizesRaw, "library_size", "", "Library size(s), one per BAM or one for all (comma separated)")
	flag.StringVar(&pairingRaw, "pairing", "auto", "Reconstruct fragments from mate pairs: 'auto', 'paired' or 'single'")
	flag.IntVar(&adjustFragmentLength, "adjust_fragment_length", 0, "Re-center fragments to this length before counting")
	// Arguments: Output
	var pathSignalsRaw, signalFormat string
	flag.StringVar(&pathSignalsRaw, "path_signals", "", "Path to signal output(s) (comma separated) (default BAM name + _signal)")
	flag.StringVar(&signalFormat, "signal_format", "csv", "Signal output format: 'csv', 'bedgraph' or 'binary', with optional compression i.e. 'csv+gz' ('lz4', 'lz4hc', 'gz' or 'zst')")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Check arguments
	if len(pathFeatures) == 0 {
		logrus.Fatal("No Feature input")
	} else if _, err := os.Stat(pathFeatures); os.IsNotExist(err) {
		logrus.Fatalln(pathFeatures, "not found")
	}

	// Parse raw arguments
	// pathBAMs
	var pathBAMs []esam.PathBAM
	if len(pathBAMsRaw) > 0 {
		for _, p := range strings.Split(pathBAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				logrus.Fatalln(p, "not found")
			} else {
				pathBAMs = append(pathBAMs, esam.PathBAM{Path: p, Index: p + ".bai"})
			}
		}
	}
	if len(pathBAMs) == 0 {
		logrus.Fatal("No BAM input")
	}
	if len(pathBAIsRaw) > 0 {
		pathBAIs := strings.Split(pathBAIsRaw, ",")
		if len(pathBAIs) != len(pathBAMs) {
			logrus.Fatal("Numbers of BAM and BAI paths differ")
		}
		for i, p := range pathBAIs {
			pathBAMs[i].Index = p
		}
	}
	for _, p := range pathBAMs {
		if _, err := os.Stat(p.Index); os.IsNotExist(err) {
			logrus.Fatalln(p.Index, "not found")
		}
	}
	// fragmentLengths
	fragmentLengths, err := parseInts(fragmentLengthsRaw, len(pathBAMs))
	if err != nil {
		logrus.Fatalln("fragment_length:", err)
	}
	// librarySizes
	librarySizes, err := parseInts(librarySizesRaw, len(pathBAMs))
	if err != nil {
		logrus.Fatalln("library_size:", err)
	}
	// pairing
	pairing, err := esam.ParsePairingMode(pairingRaw)
	if err != nil {
		logrus.Fatal(err)
	}
	// pathSignals
	var pathSignals []string
	if len(pathSignalsRaw) > 0 {
		pathSignals = strings.Split(pathSignalsRaw, ",")
		if len(pathSignals) != len(pathBAMs) {
			logrus.Fatal("Numbers of BAM and signal paths differ")
		}
	} else {
		for _, p := range pathBAMs {
			base := strings.TrimSuffix(p.Path, filepath.Ext(p.Path))
			pathSignals = append(pathSignals, base+"_signal."+signalExt(signalFormat))
		}
	}

	// Open features
	var features []feature.Feature
	switch strings.ToLower(formatFeatures) {
	case "bed":
		features, err = feature.OpenBED(pathFeatures, parseStrand(featureStrandRaw))
	case "tab":
		features, err = feature.OpenTAB(pathFeatures, parseStrand(featureStrandRaw))
	default:
		logrus.Fatalln("Unknown features format", formatFeatures)
	}
	if err != nil {
		logrus.Fatal(err)
	}
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Read %d feature(s) from %s\n", timeNow.Sub(timeStart).Minutes(), len(features), pathFeatures)
	}

	// Open features mapping
	var featuresMapping map[string]string
	if pathMapping != "" {
		featuresMapping, err = feature.OpenMapping(pathMapping)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Samples
	samples := make([]signal.Sample, len(pathBAMs))
	for i, p := range pathBAMs {
		name := strings.TrimSuffix(filepath.Base(p.Path), filepath.Ext(p.Path))
		samples[i] = signal.Sample{Name: name, Path: p, FragmentLength: fragmentLengths[i], LibrarySize: librarySizes[i]}
	}
	par := signal.Params{
		Upstream:             upstream,
		Downstream:           downstream,
		NTile:                nTile,
		Pairing:              pairing,
		AdjustFragmentLength: adjustFragmentLength,
		NWorker:              nWorker,
	}

	// Extract signal
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Extracting signal from %d sample(s)\n", timeNow.Sub(timeStart).Minutes(), len(samples))
	}
	ctx := context.Background()
	matrices, err := signal.ExtendSignal(ctx, features, samples, par)
	if err != nil {
		logrus.Fatal(err)
	}

	// Output: Signal
	tiles := feature.TileWindows(feature.SignalWindows(features, upstream, downstream), nTile)
	for i, m := range matrices {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Writing %s signal in %s\n", timeNow.Sub(timeStart).Minutes(), m.Sample, pathSignals[i])
		}
		err = signal.WriteMatrix(m, features, featuresMapping, tiles, pathSignals[i], signalFormat, appendOutput)
		if err != nil {
			logrus.Fatal(err)
		}
	}
	// Output: Report
	if pathReport != "" {
		err = WriteReport(pathReport, samples, matrices)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Verbose
	if verboseLevel > 0 {
		var nFragment uint64
		for _, m := range matrices {
			nFragment += m.Fragments
		}
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %s fragment(s)\n", timeEnd.Sub(timeStart).Minutes(), AddCommas(strconv.FormatUint(nFragment, 10)))
	}
}
